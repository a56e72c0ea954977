package images

import (
	"context"
	"log/slog"

	"github.com/anipix/anipix/internal/models"
	"golang.org/x/sync/errgroup"
)

// VerifyResult is the outcome of loading one record's asset the way a
// browser would
type VerifyResult struct {
	Dimensions

	Title string
	State LoadState
	Src   string // What the browser ends up displaying
	Err   error
}

// Verify loads every record's asset through the fetcher with at most
// concurrency requests in flight. Results are in record order.
func (f *Fetcher) Verify(ctx context.Context, records []*models.ImageRecord, concurrency int) []VerifyResult {
	results := make([]VerifyResult, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for i, r := range records {
		g.Go(func() error {
			load := NewImageLoad(r.Src)
			var dims Dimensions
			img, err := f.Fetch(ctx, r.Src)
			if err == nil {
				dims, err = DecodeDimensions(img.Data)
			}
			if err != nil {
				load.OnError()
				slog.Warn("Image failed to load", "title", r.Title, "src", r.Src, "err", err)
			} else {
				load.OnLoad()
			}
			results[i] = VerifyResult{
				Title:      r.Title,
				State:      load.State(),
				Src:        load.Src(),
				Dimensions: dims,
				Err:        err,
			}
			// Individual failures are reported, never fatal
			return nil
		})
	}
	_ = g.Wait()

	return results
}
