package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/logger"
)

const archiveContentType = "application/json"

// Archiver writes raw Cinepoint list pages to object storage under
// {prefix}/{kind}/{fetch date}/{unit}/page-{n}.json.
type Archiver struct {
	store  ObjectStorage
	prefix string
	now    func() time.Time
}

// NewArchiver creates an Archiver. An empty prefix writes at the bucket root.
func NewArchiver(store ObjectStorage, prefix string) *Archiver {
	return &Archiver{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// Key builds the object key of one page fetched at the given time.
func (a *Archiver) Key(kind, unit string, page int, fetchedAt time.Time) string {
	if unit == "" {
		unit = "all"
	}
	return path.Join(a.prefix, kind, domain.FormatDate(fetchedAt), sanitizeSegment(unit), fmt.Sprintf("page-%d.json", page))
}

// ArchivePage stores one raw page body.
func (a *Archiver) ArchivePage(ctx context.Context, kind, unit string, page int, body []byte) error {
	key := a.Key(kind, unit, page, a.now())
	if err := a.store.Put(ctx, key, body, archiveContentType); err != nil {
		return err
	}
	logger.With(logger.Fields{
		logger.FieldKind: kind,
		logger.FieldUnit: unit,
		logger.FieldPage: page,
		"key":            key,
		"bytes":          len(body),
	}).Debug(ctx, "Archived raw page")
	return nil
}

// Pages lists archived page keys of a kind fetched on one day.
func (a *Archiver) Pages(ctx context.Context, kind string, day time.Time) ([]string, error) {
	return a.store.List(ctx, path.Join(a.prefix, kind, domain.FormatDate(day))+"/")
}

// Read returns the raw body archived under key.
func (a *Archiver) Read(ctx context.Context, key string) ([]byte, error) {
	return a.store.Get(ctx, key)
}

// URL returns the public URL of an archived page, if the bucket has one.
func (a *Archiver) URL(key string) string {
	return a.store.URL(key)
}

func sanitizeSegment(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(s)
}
