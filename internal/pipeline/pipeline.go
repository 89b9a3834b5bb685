// Package pipeline runs the puzzle stages in order and keeps their results
// together for one image.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/wordsearch-mcp/internal/config"
	"github.com/ironsheep/wordsearch-mcp/internal/detection"
	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
	"github.com/ironsheep/wordsearch-mcp/internal/logging"
	"github.com/ironsheep/wordsearch-mcp/internal/ocr"
	"github.com/ironsheep/wordsearch-mcp/internal/sampler"
	"github.com/ironsheep/wordsearch-mcp/internal/wordsearch"
)

// Options collects the tunables of every stage.
type Options struct {
	DarkLevel     int
	Grid          detection.GridOptions
	MinBlobPixels int
	Sampler       sampler.Options
	Solve         wordsearch.SolveOptions
}

// DefaultOptions returns the stage defaults.
func DefaultOptions() Options {
	return Options{
		DarkLevel: imaging.DefaultDarkLevel,
		Grid:      detection.GridOptions{WavelengthStep: detection.DefaultWavelengthStep},
		Sampler:   sampler.DefaultOptions(),
		Solve:     wordsearch.SolveOptions{MinLength: wordsearch.MinWordLength},
	}
}

// OptionsFromConfig maps loaded configuration onto stage options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DarkLevel:     cfg.DarkLevel,
		Grid:          detection.GridOptions{WavelengthStep: cfg.WavelengthStep},
		MinBlobPixels: cfg.MinBlobPixels,
		Sampler: sampler.Options{
			Margin:    cfg.GlyphMargin,
			BatchRows: cfg.BatchRows,
			Workers:   cfg.OCRWorkers,
			Language:  cfg.OCRLanguage,
		},
		Solve: wordsearch.SolveOptions{MinLength: cfg.MinWordLength},
	}
}

// Run holds the intermediate results for one image. Each stage computes its
// predecessors on demand and caches its own result, so a caller may stop at
// any stage. A Run is not safe for concurrent use.
type Run struct {
	ID    string
	Image image.Image
	opts  Options
	log   *logging.Logger

	binary   *imaging.BinaryImage
	blobs    []detection.Blob
	geometry *detection.Geometry
	grid     *wordsearch.Grid
	stats    sampler.Stats
}

// NewRun starts a run over img with a fresh run ID. A nil log discards output.
func NewRun(img image.Image, opts Options, log *logging.Logger) *Run {
	if log == nil {
		log = logging.Discard()
	}
	id := uuid.NewString()
	return &Run{
		ID:    id,
		Image: img,
		opts:  opts,
		log:   log.With("run_id", id),
	}
}

// Options returns the options the run was created with.
func (r *Run) Options() Options { return r.opts }

// Binarize returns the ink mask of the image.
func (r *Run) Binarize() *imaging.BinaryImage {
	if r.binary == nil {
		start := time.Now()
		r.binary = imaging.NewBinarizer(r.opts.DarkLevel).Binarize(r.Image)
		r.log.Debug("binarized",
			"width", r.binary.Width,
			"height", r.binary.Height,
			"ink", r.binary.InkCount(),
			"elapsed", time.Since(start))
	}
	return r.binary
}

// Blobs returns the ink blobs in column-major discovery order, after the
// size filter.
func (r *Run) Blobs() []detection.Blob {
	if r.blobs == nil {
		bin := r.Binarize()
		start := time.Now()
		all := detection.DetectBlobs(bin)
		r.blobs = detection.FilterBlobs(all, r.opts.MinBlobPixels)
		if r.blobs == nil {
			r.blobs = []detection.Blob{}
		}
		r.log.Debug("blobs detected",
			"found", len(all),
			"kept", len(r.blobs),
			"elapsed", time.Since(start))
	}
	return r.blobs
}

// Geometry infers the cell lattice from blob centroids.
func (r *Run) Geometry() (detection.Geometry, error) {
	if r.geometry != nil {
		return *r.geometry, nil
	}
	blobs := r.Blobs()
	geom, err := detection.InferGeometry(detection.Centroids(blobs), r.opts.Grid)
	if err != nil {
		r.log.Warn("grid inference failed", "blobs", len(blobs), "error", err)
		return detection.Geometry{}, err
	}
	r.geometry = &geom
	r.log.Info("grid inferred",
		"width", geom.Width,
		"height", geom.Height,
		"spacing", fmt.Sprintf("%.1fx%.1f", geom.Spacing.X, geom.Spacing.Y))
	return geom, nil
}

// Grid classifies every cell with c and builds the letter grid.
func (r *Run) Grid(ctx context.Context, c ocr.Classifier) (*wordsearch.Grid, error) {
	if r.grid != nil {
		return r.grid, nil
	}
	geom, err := r.Geometry()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	s := sampler.New(c, r.opts.Sampler, r.log)
	grid, stats, err := s.ReadGrid(ctx, geom, r.Blobs())
	r.stats = stats
	if err != nil {
		r.log.Warn("grid reading failed", "error", err)
		return nil, err
	}
	r.grid = grid
	r.log.Info("grid read",
		"requests", stats.Requests,
		"misses", stats.Misses,
		"empty_cells", stats.Empty,
		"elapsed", time.Since(start))
	return grid, nil
}

// Stats returns the sampling statistics of the last Grid call.
func (r *Run) Stats() sampler.Stats { return r.stats }

// Solve reads the grid if needed and finds every dictionary word in it.
func (r *Run) Solve(ctx context.Context, c ocr.Classifier, dict wordsearch.Dictionary) ([]wordsearch.Occurrence, error) {
	grid, err := r.Grid(ctx, c)
	if err != nil {
		return nil, err
	}
	occs := wordsearch.Solve(grid, dict, r.opts.Solve)
	r.log.Info("puzzle solved", "occurrences", len(occs))
	return occs, nil
}
