package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
	"github.com/cineradar/cinepoint-sync/internal/transform"
)

// ScrapeInsights stores every listed article not yet in the store. Known
// articles are skipped without a detail fetch; a failed detail fetch drops
// only that article.
func (s *Scraper) ScrapeInsights(ctx context.Context) (*Summary, error) {
	ctx = s.scope(ctx, domain.SyncTypeInsights)
	start := time.Now()

	sum := &Summary{
		SyncType: domain.SyncTypeInsights,
		Status:   domain.SyncStatusSuccess,
		Payload:  map[string]any{"newArticles": 0},
	}

	ids, err := s.store.GetInsightIDs(ctx)
	if err != nil {
		return s.finish(ctx, sum, start, fmt.Errorf("load known insight ids: %w", err))
	}
	known := NewKnownIDs(ids)
	s.log(ctx).WithField("known", len(known)).Info("Loaded known insights")

	fetchDetail := func(ctx context.Context, item cinepoint.InsightItem) (domain.InsightArticle, error) {
		if item.Key() == "" {
			return domain.InsightArticle{}, fmt.Errorf("insight without id or slug: %w", transform.ErrMissingField)
		}
		detail, err := s.src.InsightDetail(ctx, item.Slug)
		if err != nil {
			return domain.InsightArticle{}, fmt.Errorf("insight %s detail: %w", item.Key(), err)
		}
		return transform.Insight(item, *detail, s.now())
	}

	runner := &Runner[cinepoint.InsightItem, domain.InsightArticle]{
		Name:      cinepoint.KindInsights,
		PageSize:  s.cfg.InsightPageSize,
		Fetch:     s.src.Insights(),
		Transform: DedupGate(known, cinepoint.InsightItem.Key, fetchDetail),
		Write: func(ctx context.Context, articles []domain.InsightArticle) error {
			for i := range articles {
				if err := s.store.UpsertInsight(ctx, &articles[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	res, err := runner.Run(ctx, "list")

	sum.Status = runStatus(res)
	sum.Records = res.Written
	sum.Payload = map[string]any{
		"newArticles":   res.Written,
		"skipped":       res.Skipped,
		"failed":        res.Failed,
		"totalExisting": len(known),
	}
	if res.ErrorDetail != "" {
		sum.Payload["errorDetail"] = res.ErrorDetail
	}
	return s.finish(ctx, sum, start, err)
}
