package ocr

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/wordsearch-mcp/internal/failure"
	"github.com/ironsheep/wordsearch-mcp/internal/logging"
)

// Request is one self-contained classification job.
type Request struct {
	Image   image.Image
	Options Options
}

// Batch is the outcome of ClassifyAll.
type Batch struct {
	// Texts[i] is the result for request i; "" when it failed.
	Texts []string
	// Misses counts requests that failed or were skipped after cancellation.
	Misses int
}

// ClassifyAll runs every request through c on at most workers goroutines and
// returns the results in submission order. workers <= 0 uses runtime.NumCPU().
//
// A failing request never aborts the batch: its slot is left empty and the
// failure is logged as a glyph classification miss. Nothing is retried. Once
// ctx is done, requests that have not started are skipped and ctx.Err() is
// returned alongside the partial batch.
func ClassifyAll(ctx context.Context, c Classifier, reqs []Request, workers int, log *logging.Logger) (Batch, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logging.Discard()
	}

	texts := make([]string, len(reqs))
	missed := make([]bool, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, req := range reqs {
		g.Go(func() error {
			if gctx.Err() != nil {
				missed[i] = true
				return nil
			}
			text, err := c.Classify(gctx, req.Image, req.Options)
			if err != nil {
				missed[i] = true
				log.Debug("glyph classification miss", "error", failure.NewGlyphClassificationMiss(i, err))
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	_ = g.Wait()

	batch := Batch{Texts: texts}
	for _, m := range missed {
		if m {
			batch.Misses++
		}
	}
	return batch, ctx.Err()
}
