package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cinepoint CinepointConfig `mapstructure:"cinepoint"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite or postgres
	Path            string        `mapstructure:"path"`
	URL             string        `mapstructure:"url"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.URL
	}
	return c.Path
}

type CinepointConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	AccessToken  string        `mapstructure:"access_token"`
	UserAgent    string        `mapstructure:"user_agent"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

type IngestConfig struct {
	MoviePageSize     int `mapstructure:"movie_page_size"`
	ShowtimePageSize  int `mapstructure:"showtime_page_size"`
	BoxOfficePageSize int `mapstructure:"box_office_page_size"`
	InsightPageSize   int `mapstructure:"insight_page_size"`
	WriteBatchSize    int `mapstructure:"write_batch_size"`
}

type SyncConfig struct {
	DailyLookbackDays int    `mapstructure:"daily_lookback_days"`
	BackfillDays      int    `mapstructure:"backfill_days"`
	Timezone          string `mapstructure:"timezone"`
}

// Location resolves the configured timezone, falling back to UTC.
func (c SyncConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Prefix  string `mapstructure:"prefix"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // r2, s3, s3compatible; empty auto-detects
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	_ = v.BindEnv("cinepoint.access_token", "CINEPOINT_ACCESS_TOKEN")
	_ = v.BindEnv("cinepoint.base_url", "CINEPOINT_BASE_URL")
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("storage.endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("storage.access_key", "S3_ACCESS_KEY")
	_ = v.BindEnv("storage.secret_key", "S3_SECRET_KEY")
	_ = v.BindEnv("storage.bucket", "S3_BUCKET")
	_ = v.BindEnv("storage.public_url", "S3_PUBLIC_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/cinepoint.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("cinepoint.base_url", "https://cinepoint.com/bff/v1")
	v.SetDefault("cinepoint.user_agent", "CineRadar-Spider/1.0")
	v.SetDefault("cinepoint.request_delay", 3*time.Second)
	v.SetDefault("cinepoint.timeout", 30*time.Second)
	v.SetDefault("cinepoint.max_retries", 3)
	v.SetDefault("cinepoint.retry_backoff", 5*time.Second)

	v.SetDefault("ingest.movie_page_size", 50)
	v.SetDefault("ingest.showtime_page_size", 50)
	v.SetDefault("ingest.box_office_page_size", 50)
	v.SetDefault("ingest.insight_page_size", 20)
	v.SetDefault("ingest.write_batch_size", 400)

	v.SetDefault("sync.daily_lookback_days", 2)
	v.SetDefault("sync.backfill_days", 365)
	v.SetDefault("sync.timezone", "Asia/Jakarta")

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.prefix", "raw")

	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.bucket", "cinepoint-raw")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.cron", "0 2 * * *")
}
