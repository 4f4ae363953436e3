package service

import "context"

// KnownIDs is the set of insight ids already stored when a run starts.
// It is read once and never refreshed during the run, so a concurrent run
// may fetch an article another run is storing. The write-once store
// absorbs that duplicate.
type KnownIDs map[string]struct{}

// NewKnownIDs builds the set from stored ids.
func NewKnownIDs(ids []string) KnownIDs {
	known := make(KnownIDs, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known
}

// Has reports whether id was stored before the run started.
func (k KnownIDs) Has(id string) bool {
	_, ok := k[id]
	return ok
}

// DedupGate wraps a transform so that items whose key is already known are
// skipped before next runs. A skipped item costs no detail fetch, no
// transform and no write.
func DedupGate[R, T any](known KnownIDs, key func(R) string, next func(ctx context.Context, item R) (T, error)) func(ctx context.Context, item R) (T, error) {
	return func(ctx context.Context, item R) (T, error) {
		if known.Has(key(item)) {
			var zero T
			return zero, ErrSkipItem
		}
		return next(ctx, item)
	}
}
