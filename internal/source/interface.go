package source

import "context"

// Page is one batch of raw items returned by a paginated list endpoint.
// Total is the source's self-reported result count. It may be zero, stale,
// or smaller than the number of items already fetched.
type Page[T any] struct {
	Items []T
	Total int
}

// Empty reports whether the page ends the stream.
func (p *Page[T]) Empty() bool {
	return p == nil || len(p.Items) == 0
}

// PageFetcher fetches one page of a remote list.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - pageIndex: zero-based page index.
//   - pageSize: requested number of items per page.
// Returns:
//   - *Page[T]: the page; an empty Items slice means end of stream.
//   - error: non-nil on transport or decode failure. Callers do not retry.
type PageFetcher[T any] func(ctx context.Context, pageIndex, pageSize int) (*Page[T], error)

// Static returns a fetcher that serves the given pages in order, then
// empty pages.
func Static[T any](pages ...[]T) PageFetcher[T] {
	total := 0
	for _, p := range pages {
		total += len(p)
	}
	return func(ctx context.Context, pageIndex, pageSize int) (*Page[T], error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pageIndex < 0 || pageIndex >= len(pages) {
			return &Page[T]{Total: total}, nil
		}
		return &Page[T]{Items: pages[pageIndex], Total: total}, nil
	}
}
