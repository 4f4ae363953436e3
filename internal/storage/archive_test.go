package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) Put(_ context.Context, key string, body []byte, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = append([]byte(nil), body...)
	m.types[key] = contentType
	return nil
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *memStorage) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStorage) URL(key string) string { return "" }

func TestArchiverKey(t *testing.T) {
	a := NewArchiver(newMemStorage(), "/raw/")
	day := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "raw/movies/2025-01-02/now_playing/page-0.json", a.Key("movies", "now_playing", 0, day))
	assert.Equal(t, "raw/insights/2025-01-02/all/page-3.json", a.Key("insights", "", 3, day))
	assert.Equal(t, "raw/box_office/2025-01-02/daily-2025-01-01/page-1.json", a.Key("box_office", "daily-2025-01-01", 1, day))
	assert.Equal(t, "raw/x/2025-01-02/a_b/page-0.json", a.Key("x", "a/b", 0, day))

	bare := NewArchiver(newMemStorage(), "")
	assert.Equal(t, "movies/2025-01-02/all/page-0.json", bare.Key("movies", "", 0, day))
}

func TestArchivePageRoundTrip(t *testing.T) {
	mem := newMemStorage()
	a := NewArchiver(mem, "raw")
	a.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	require.NoError(t, a.ArchivePage(ctx, "movies", "all", 0, []byte(`{"status":200}`)))
	require.NoError(t, a.ArchivePage(ctx, "movies", "all", 1, []byte(`{"status":200,"data":{}}`)))
	require.NoError(t, a.ArchivePage(ctx, "showtimes", "2025-01-02", 0, []byte(`{}`)))

	keys, err := a.Pages(ctx, "movies", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"raw/movies/2025-01-02/all/page-0.json",
		"raw/movies/2025-01-02/all/page-1.json",
	}, keys)
	assert.Equal(t, archiveContentType, mem.types[keys[0]])

	body, err := a.Read(ctx, keys[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200}`, string(body))

	mem.putErr = errors.New("bucket gone")
	assert.Error(t, a.ArchivePage(ctx, "movies", "all", 2, []byte(`{}`)))
}

func TestDetectStorageType(t *testing.T) {
	assert.Equal(t, StorageTypeR2, detectStorageType("https://acct.r2.cloudflarestorage.com"))
	assert.Equal(t, StorageTypeS3, detectStorageType("s3.ap-southeast-3.amazonaws.com"))
	assert.Equal(t, StorageTypeS3, detectStorageType(""))
	assert.Equal(t, StorageTypeS3Compatible, detectStorageType("localhost:9000"))
	assert.Equal(t, "localhost:9000", normalizeEndpoint("http://localhost:9000/bucket"))
}
