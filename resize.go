package icopack

import (
	"context"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

const maxResizeWorkers = 8

// resizeAll produces one size×size frame per entry in sizes, in the
// same order. Each size is independent, so the work fans out across a
// bounded worker pool; the source image is only ever read.
func (c *Converter) resizeAll(ctx context.Context, src image.Image, sizes []int) ([]*image.NRGBA, error) {
	frames := make([]*image.NRGBA, len(sizes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(min(maxResizeWorkers, len(sizes)))
	for i, size := range sizes {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			// Exact dimensions regardless of the source aspect ratio;
			// non-square sources were already flagged during decode.
			frames[i] = imaging.Resize(src, size, size, c.filter.resample())
			c.logger.Debug("resized frame", slog.Int("size", size))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
