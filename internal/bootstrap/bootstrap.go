// Package bootstrap wires config, logging, the store, the Cinepoint client
// and the pipelines for the command binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/cineradar/cinepoint-sync/internal/config"
	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/cineradar/cinepoint-sync/internal/repository"
	"github.com/cineradar/cinepoint-sync/internal/service"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
	"github.com/cineradar/cinepoint-sync/internal/storage"
)

// App holds the wired components of one process.
type App struct {
	Config       *config.Config
	Logger       *logger.Logger
	Store        *repository.Store
	Client       *cinepoint.Client
	Archiver     *storage.Archiver // nil unless archive.enabled
	Scraper      *service.Scraper
	Orchestrator *service.Orchestrator
}

// New loads configuration and builds every component.
// Parameters:
//   - ctx: used for startup checks (bucket, database ping).
//   - configPath: explicit config file; empty searches ./configs and .
//   - serviceName: value of the "service" log field.
// Returns:
//   - *App: wired application; call Close when done.
//   - error: non-nil if any component fails to initialize.
func New(ctx context.Context, configPath, serviceName string) (*App, error) {
	log := logger.NewFromEnv(logger.LoadFromEnv().ForService(serviceName))
	logger.SetDefaultLogger(log)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	store := repository.NewStore(db, cfg.Ingest.WriteBatchSize)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	client, err := cinepoint.NewClient(cinepoint.Config{
		BaseURL:      cfg.Cinepoint.BaseURL,
		AccessToken:  cfg.Cinepoint.AccessToken,
		UserAgent:    cfg.Cinepoint.UserAgent,
		RequestDelay: cfg.Cinepoint.RequestDelay,
		Timeout:      cfg.Cinepoint.Timeout,
		MaxRetries:   cfg.Cinepoint.MaxRetries,
		RetryBackoff: cfg.Cinepoint.RetryBackoff,
		Logger:       log,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app := &App{
		Config: cfg,
		Logger: log,
		Store:  store,
		Client: client,
	}

	if cfg.Archive.Enabled {
		archiver, err := OpenArchive(ctx, cfg)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		client.SetArchiver(archiver)
		app.Archiver = archiver
		log.WithField("bucket", cfg.Storage.Bucket).Info("Raw page archive enabled")
	}

	app.Scraper = service.NewScraper(store, client, service.ScraperConfig{
		MoviePageSize:     cfg.Ingest.MoviePageSize,
		ShowtimePageSize:  cfg.Ingest.ShowtimePageSize,
		BoxOfficePageSize: cfg.Ingest.BoxOfficePageSize,
		InsightPageSize:   cfg.Ingest.InsightPageSize,
		WriteBatchSize:    cfg.Ingest.WriteBatchSize,
		Location:          cfg.Sync.Location(),
	}, log)
	app.Orchestrator = service.NewOrchestrator(app.Scraper, store, log)

	return app, nil
}

// OpenArchive connects to object storage and returns the page archiver.
func OpenArchive(ctx context.Context, cfg *config.Config) (*storage.Archiver, error) {
	objects, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if b, ok := objects.(interface{ EnsureBucket(context.Context) error }); ok {
		if err := b.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
	}
	return storage.NewArchiver(objects, cfg.Archive.Prefix), nil
}

// DailyOptions returns the daily sync options from config.
func (a *App) DailyOptions() service.DailyOptions {
	return service.DailyOptions{LookbackDays: a.Config.Sync.DailyLookbackDays}
}

// Close releases the database and flushes logs.
func (a *App) Close() error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	errs = append(errs, logger.Sync())
	return errors.Join(errs...)
}
