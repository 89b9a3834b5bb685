package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ironsheep/wordsearch-mcp/internal/config"
	"github.com/ironsheep/wordsearch-mcp/internal/detection"
	"github.com/ironsheep/wordsearch-mcp/internal/failure"
	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
	"github.com/ironsheep/wordsearch-mcp/internal/logging"
	"github.com/ironsheep/wordsearch-mcp/internal/ocr"
	"github.com/ironsheep/wordsearch-mcp/internal/wordsearch"
)

// Each letter is drawn as a centred bar whose half-width encodes it, so the
// fake classifier can read it back from the glyph width.
var barHalfWidth = map[byte]int{'C': 0, 'A': 1, 'T': 2}

// puzzleRows is laid out on a 5x4 lattice, 20px by 15px, first cell at (5,5).
var puzzleRows = []string{
	"CATTA",
	"AAAAA",
	"AAAAA",
	"AAAAA",
}

func renderPuzzle(rows []string) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 100, 70))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			cx, cy := 5+20*x, 5+15*y
			j := barHalfWidth[row[x]]
			for dy := -1; dy <= 1; dy++ {
				for dx := -j; dx <= j; dx++ {
					img.SetGray(cx+dx, cy+dy, color.Gray{Y: 0})
				}
			}
		}
	}
	return img
}

// barClassifier decodes glyphs drawn by renderPuzzle.
func barClassifier(margin int) ocr.Classifier {
	letters := map[int]string{}
	for letter, j := range barHalfWidth {
		letters[2*j+1+2*margin] = string(letter)
	}
	return ocr.ClassifierFunc(func(_ context.Context, img image.Image, _ ocr.Options) (string, error) {
		return letters[img.Bounds().Dx()], nil
	})
}

func TestRun_EndToEnd(t *testing.T) {
	opts := DefaultOptions()
	run := NewRun(renderPuzzle(puzzleRows), opts, nil)

	if n := len(run.Blobs()); n != 20 {
		t.Fatalf("got %d blobs, want 20", n)
	}

	geom, err := run.Geometry()
	if err != nil {
		t.Fatalf("Geometry failed: %v", err)
	}
	if geom.Width != 5 || geom.Height != 4 {
		t.Fatalf("geometry: got %dx%d, want 5x4", geom.Width, geom.Height)
	}

	grid, err := run.Grid(context.Background(), barClassifier(opts.Sampler.Margin))
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if got := strings.Join(grid.Rows(), "/"); got != strings.Join(puzzleRows, "/") {
		t.Errorf("grid: got %s", got)
	}

	occs, err := run.Solve(context.Background(), nil, wordsearch.NewWordSet("CAT", "TAC"))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(occs) != 2 {
		t.Fatalf("got %d occurrences, want 2: %+v", len(occs), occs)
	}
	for _, o := range occs {
		switch o.Word {
		case "CAT":
			if o.Start != imaging.Pt(0, 0) || o.Direction.Name != "E" {
				t.Errorf("CAT at %v %s", o.Start, o.Direction.Name)
			}
		case "TAC":
			if o.Start != imaging.Pt(2, 0) || o.Direction.Name != "W" {
				t.Errorf("TAC at %v %s", o.Start, o.Direction.Name)
			}
		default:
			t.Errorf("unexpected word %q", o.Word)
		}
	}
}

func TestRun_BatchRows(t *testing.T) {
	opts := DefaultOptions()
	opts.Sampler.BatchRows = true

	var calls atomic.Int32
	c := ocr.ClassifierFunc(func(_ context.Context, img image.Image, o ocr.Options) (string, error) {
		calls.Add(1)
		if o.Mode != ocr.SingleLine {
			t.Errorf("mode: got %s, want line", o.Mode)
		}
		return "CAT", nil
	})

	grid, err := NewRun(renderPuzzle(puzzleRows), opts, nil).Grid(context.Background(), c)
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if calls.Load() != 4 {
		t.Errorf("got %d classifier calls, want one per row", calls.Load())
	}
	if grid.Rows()[0] != "CAT??" {
		t.Errorf("row 0: got %q", grid.Rows()[0])
	}
}

func TestRun_StagesAreCached(t *testing.T) {
	var calls atomic.Int32
	inner := barClassifier(imaging.DefaultGlyphMargin)
	c := ocr.ClassifierFunc(func(ctx context.Context, img image.Image, o ocr.Options) (string, error) {
		calls.Add(1)
		return inner.Classify(ctx, img, o)
	})

	run := NewRun(renderPuzzle(puzzleRows), DefaultOptions(), nil)
	if run.Binarize() != run.Binarize() {
		t.Error("Binarize recomputed")
	}
	if _, err := run.Grid(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if _, err := run.Grid(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 20 {
		t.Errorf("got %d classifier calls, want 20", calls.Load())
	}
	if run.Stats().Requests != 20 {
		t.Errorf("stats: got %+v", run.Stats())
	}
}

func TestRun_BlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	run := NewRun(img, DefaultOptions(), nil)
	if n := len(run.Blobs()); n != 0 {
		t.Errorf("got %d blobs on a blank image", n)
	}
	_, err := run.Solve(context.Background(), barClassifier(3), wordsearch.NewWordSet("CAT"))
	if !errors.Is(err, failure.ErrGeometryInference) {
		t.Errorf("expected ErrGeometryInference, got %v", err)
	}
}

func TestRun_MinBlobPixels(t *testing.T) {
	img := renderPuzzle(puzzleRows)
	img.SetGray(95, 65, color.Gray{Y: 0}) // speck

	opts := DefaultOptions()
	if n := len(NewRun(img, opts, nil).Blobs()); n != 21 {
		t.Errorf("unfiltered: got %d blobs, want 21", n)
	}

	opts.MinBlobPixels = 2
	if n := len(NewRun(img, opts, nil).Blobs()); n != 20 {
		t.Errorf("filtered: got %d blobs, want 20", n)
	}
}

func TestRun_DarkLevel(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 100 // channel sum 300
	}

	opts := DefaultOptions()
	if n := NewRun(img, opts, nil).Binarize().InkCount(); n != 100 {
		t.Errorf("default level: got %d ink pixels, want 100", n)
	}
	opts.DarkLevel = 300
	if n := NewRun(img, opts, nil).Binarize().InkCount(); n != 0 {
		t.Errorf("level 300: got %d ink pixels, want 0", n)
	}
}

func TestRun_LogsRunID(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewLoggerTo(&buf, "pipeline", "debug")

	run := NewRun(renderPuzzle(puzzleRows), DefaultOptions(), log)
	if run.ID == "" {
		t.Fatal("empty run ID")
	}
	if _, err := run.Geometry(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "run_id="+run.ID) {
		t.Errorf("log lacks run ID:\n%s", buf.String())
	}

	if other := NewRun(nil, DefaultOptions(), nil); other.ID == run.ID {
		t.Error("run IDs repeat")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		DarkLevel:      200,
		WavelengthStep: 0.5,
		MinBlobPixels:  4,
		GlyphMargin:    2,
		BatchRows:      true,
		OCRWorkers:     3,
		OCRLanguage:    "deu",
		MinWordLength:  4,
	}

	opts := OptionsFromConfig(cfg)
	want := Options{
		DarkLevel:     200,
		Grid:          detection.GridOptions{WavelengthStep: 0.5},
		MinBlobPixels: 4,
		Solve:         wordsearch.SolveOptions{MinLength: 4},
	}
	want.Sampler.Margin = 2
	want.Sampler.BatchRows = true
	want.Sampler.Workers = 3
	want.Sampler.Language = "deu"

	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}
