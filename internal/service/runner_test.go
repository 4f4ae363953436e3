package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cineradar/cinepoint-sync/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher serves pages[i] for page i and records every call.
type scriptedFetcher struct {
	pages [][]int
	total int
	errAt map[int]error
	calls []int
}

func (f *scriptedFetcher) fetch(ctx context.Context, pageIndex, pageSize int) (*source.Page[int], error) {
	f.calls = append(f.calls, pageIndex)
	if err := f.errAt[pageIndex]; err != nil {
		return nil, err
	}
	if pageIndex >= len(f.pages) {
		return &source.Page[int]{Total: f.total}, nil
	}
	return &source.Page[int]{Items: f.pages[pageIndex], Total: f.total}, nil
}

// recordingWriter keeps every Write call.
type recordingWriter struct {
	batches [][]int
	err     error
}

func (w *recordingWriter) write(_ context.Context, records []int) error {
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, append([]int(nil), records...))
	return nil
}

func (w *recordingWriter) all() []int {
	var out []int
	for _, b := range w.batches {
		out = append(out, b...)
	}
	return out
}

func identity(_ context.Context, item int) (int, error) { return item, nil }

func newIntRunner(f *scriptedFetcher, w *recordingWriter, pageSize int) *Runner[int, int] {
	return &Runner[int, int]{
		Name:      "test",
		PageSize:  pageSize,
		Fetch:     f.fetch,
		Transform: identity,
		Write:     w.write,
	}
}

func TestRunnerStopsAtFirstEmptyPage(t *testing.T) {
	// the third fetch is empty although total promises more
	f := &scriptedFetcher{
		pages: [][]int{{1, 2}, {3, 4}, {}},
		total: 100,
	}
	w := &recordingWriter{}

	res, err := newIntRunner(f, w, 2).Run(context.Background(), "unit")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, f.calls)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, w.batches)
	assert.Equal(t, RunSuccess, res.Status)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 4, res.Written)
}

func TestRunnerHonorsSmallTotalOnFirstPage(t *testing.T) {
	// total lags behind: page 0 is full but reports only 3 results
	f := &scriptedFetcher{
		pages: [][]int{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}},
		total: 3,
	}
	w := &recordingWriter{}

	res, err := newIntRunner(f, w, 5).Run(context.Background(), "unit")
	require.NoError(t, err)

	assert.Equal(t, []int{0}, f.calls)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, w.all())
	assert.Equal(t, 5, res.Written)
}

func TestRunnerToleratesZeroTotal(t *testing.T) {
	f := &scriptedFetcher{pages: [][]int{{1}, {2}}, total: 0}
	w := &recordingWriter{}

	res, err := newIntRunner(f, w, 1).Run(context.Background(), "unit")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, f.calls)
	assert.Equal(t, 1, res.Written)
}

func TestRunnerStopsOnExactTotal(t *testing.T) {
	f := &scriptedFetcher{pages: [][]int{{1, 2}, {3, 4}, {5}}, total: 4}
	w := &recordingWriter{}

	_, err := newIntRunner(f, w, 2).Run(context.Background(), "unit")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, f.calls)
	assert.Equal(t, []int{1, 2, 3, 4}, w.all())
}

func TestRunnerFetchErrorEndsUnitKeepsProgress(t *testing.T) {
	f := &scriptedFetcher{
		pages: [][]int{{1, 2}, {3, 4}, {5, 6}},
		total: 6,
		errAt: map[int]error{1: errors.New("connection reset")},
	}
	w := &recordingWriter{}

	res, err := newIntRunner(f, w, 2).Run(context.Background(), "unit")
	require.NoError(t, err, "fetch errors are reported in the result")

	assert.Equal(t, RunError, res.Status)
	assert.Contains(t, res.ErrorDetail, "connection reset")
	assert.Equal(t, []int{0, 1}, f.calls)
	assert.Equal(t, []int{1, 2}, w.all())
	assert.Equal(t, 2, res.Written)
}

func TestRunnerDropsAndSkipsItems(t *testing.T) {
	f := &scriptedFetcher{pages: [][]int{{1, 2, 3, 4, 5, 6}}, total: 6}
	w := &recordingWriter{}
	r := newIntRunner(f, w, 10)
	r.Transform = func(_ context.Context, item int) (int, error) {
		switch {
		case item%3 == 0:
			return 0, ErrSkipItem
		case item == 4:
			return 0, errors.New("missing title")
		default:
			return item * 10, nil
		}
	}

	res, err := r.Run(context.Background(), "unit")
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 50}, w.all())
	assert.Equal(t, 6, res.Fetched)
	assert.Equal(t, 3, res.Written)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, RunSuccess, res.Status)
}

func TestRunnerWriteErrorPropagates(t *testing.T) {
	f := &scriptedFetcher{pages: [][]int{{1}, {2}}, total: 10}
	w := &recordingWriter{err: errors.New("disk full")}

	res, err := newIntRunner(f, w, 1).Run(context.Background(), "unit")
	require.Error(t, err)
	assert.ErrorIs(t, err, w.err)
	assert.Equal(t, RunError, res.Status)
	assert.Equal(t, []int{0}, f.calls)
	assert.Zero(t, res.Written)
}

func TestRunnerWritesInBatches(t *testing.T) {
	f := &scriptedFetcher{pages: [][]int{{1, 2, 3, 4, 5}}, total: 5}
	w := &recordingWriter{}
	r := newIntRunner(f, w, 5)
	r.BatchSize = 2

	_, err := r.Run(context.Background(), "unit")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, w.batches)
}

func TestRunnerAbortsOnCancelledContext(t *testing.T) {
	f := &scriptedFetcher{pages: [][]int{{1}}, total: 1}
	w := &recordingWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newIntRunner(f, w, 1).Run(ctx, "unit")
	require.NoError(t, err)
	assert.Equal(t, RunAborted, res.Status)
	assert.Empty(t, f.calls)
}

func TestRunnerWithStaticFetcher(t *testing.T) {
	w := &recordingWriter{}
	r := &Runner[int, int]{
		Name:      "static",
		PageSize:  2,
		Fetch:     source.Static([]int{1, 2}, []int{3}),
		Transform: identity,
		Write:     w.write,
	}

	res, err := r.Run(context.Background(), "unit")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, w.all())
	assert.Equal(t, 2, res.Pages)
}
