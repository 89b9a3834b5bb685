package sampler

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/wordsearch-mcp/internal/detection"
	"github.com/ironsheep/wordsearch-mcp/internal/failure"
	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
	"github.com/ironsheep/wordsearch-mcp/internal/logging"
	"github.com/ironsheep/wordsearch-mcp/internal/ocr"
	"github.com/ironsheep/wordsearch-mcp/internal/wordsearch"
)

// Options tunes a Sampler.
type Options struct {
	// Margin is the white padding around each glyph. Negative means 0.
	Margin int
	// BatchRows sends one strip per grid row instead of one image per cell.
	BatchRows bool
	// Workers bounds concurrent classifications. <= 0 means runtime.NumCPU().
	Workers  int
	Language string
}

// DefaultOptions returns per-cell sampling with the standard glyph margin.
func DefaultOptions() Options {
	return Options{
		Margin:   imaging.DefaultGlyphMargin,
		Language: ocr.DefaultLanguage,
	}
}

// Stats summarises one ReadGrid call.
type Stats struct {
	Requests int  `json:"requests"`
	Misses   int  `json:"misses"`
	Empty    int  `json:"empty_cells"`
	Batched  bool `json:"batched"`
}

// Sampler turns lattice cells into letters.
type Sampler struct {
	classifier ocr.Classifier
	opts       Options
	log        *logging.Logger
}

// New creates a Sampler. A nil log discards output.
func New(classifier ocr.Classifier, opts Options, log *logging.Logger) *Sampler {
	if log == nil {
		log = logging.Discard()
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	return &Sampler{classifier: classifier, opts: opts, log: log}
}

// Assign maps every cell of geom, row-major, to the index of the blob whose
// centroid is nearest the cell centre by Manhattan distance. Several cells
// may share a blob. Returns nil when there are no blobs.
func Assign(geom detection.Geometry, blobs []detection.Blob) []int {
	if len(blobs) == 0 {
		return nil
	}
	out := make([]int, 0, geom.Cells())
	for y := 0; y < geom.Height; y++ {
		for x := 0; x < geom.Width; x++ {
			out = append(out, detection.Nearest(blobs, geom.CellCenter(imaging.Pt(x, y))))
		}
	}
	return out
}

// Glyphs renders the glyph image for every cell, row-major.
func (s *Sampler) Glyphs(geom detection.Geometry, blobs []detection.Blob) ([]image.Image, error) {
	assigned := Assign(geom, blobs)
	if assigned == nil {
		return nil, fmt.Errorf("no blobs to sample")
	}

	// Cells sharing a blob share its rendering.
	rendered := make(map[int]image.Image)
	glyphs := make([]image.Image, len(assigned))
	for i, b := range assigned {
		g, ok := rendered[b]
		if !ok {
			g = imaging.RenderGlyph(blobs[b].Pixels(), s.opts.Margin)
			rendered[b] = g
		}
		glyphs[i] = g
	}
	return glyphs, nil
}

// ReadGrid classifies every cell and assembles the letter grid.
//
// Individual classification failures leave Empty cells and are counted in
// Stats.Misses. An error is returned only when the grid cannot be built or
// ctx is cancelled before every request has run.
func (s *Sampler) ReadGrid(ctx context.Context, geom detection.Geometry, blobs []detection.Blob) (*wordsearch.Grid, Stats, error) {
	stats := Stats{Batched: s.opts.BatchRows}
	if geom.Width < 1 || geom.Height < 1 {
		return nil, stats, failure.NewEmptyGridError(geom.Width, geom.Height)
	}

	glyphs, err := s.Glyphs(geom, blobs)
	if err != nil {
		return nil, stats, err
	}

	var reqs []ocr.Request
	if s.opts.BatchRows {
		opts := ocr.GlyphOptions(ocr.SingleLine, s.opts.Language)
		for y := 0; y < geom.Height; y++ {
			row := glyphs[y*geom.Width : (y+1)*geom.Width]
			reqs = append(reqs, ocr.Request{Image: imaging.Strip(row, 0), Options: opts})
		}
	} else {
		opts := ocr.GlyphOptions(ocr.SingleChar, s.opts.Language)
		reqs = make([]ocr.Request, len(glyphs))
		for i, g := range glyphs {
			reqs[i] = ocr.Request{Image: g, Options: opts}
		}
	}
	stats.Requests = len(reqs)

	s.log.Debug("classifying cells", "requests", len(reqs), "mode", reqs[0].Options.Mode.String())
	batch, err := ocr.ClassifyAll(ctx, s.classifier, reqs, s.opts.Workers, s.log)
	stats.Misses = batch.Misses
	if err != nil {
		return nil, stats, err
	}

	var cells []string
	if s.opts.BatchRows {
		cells = rowLetters(batch.Texts, geom.Width)
	} else {
		cells = cellLetters(batch.Texts)
	}

	grid, err := wordsearch.NewGrid(geom.Width, geom.Height, cells)
	if err != nil {
		return nil, stats, err
	}
	stats.Empty = grid.Missing()
	return grid, stats, nil
}

// cellLetters keeps the first recognised letter of each per-cell result.
func cellLetters(texts []string) []string {
	cells := make([]string, len(texts))
	for i, t := range texts {
		if n := ocr.Normalize(t, ocr.UppercaseLatin); n != "" {
			cells[i] = n[:1]
		}
	}
	return cells
}

// rowLetters spreads each row's text over its cells by position. Cells past
// the end of a short result stay Empty; extra letters are dropped.
func rowLetters(texts []string, width int) []string {
	cells := make([]string, 0, len(texts)*width)
	for _, t := range texts {
		n := ocr.Normalize(t, ocr.UppercaseLatin)
		for x := 0; x < width; x++ {
			if x < len(n) {
				cells = append(cells, n[x:x+1])
			} else {
				cells = append(cells, wordsearch.Empty)
			}
		}
	}
	return cells
}
