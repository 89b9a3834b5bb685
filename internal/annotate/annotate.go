// Package annotate draws pipeline results over the source photo: the ink
// mask, blob centroids, the inferred lattice with recognised letters, and
// strokes over every word found.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/wordsearch-mcp/internal/detection"
	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
	"github.com/ironsheep/wordsearch-mcp/internal/wordsearch"
)

// Style controls colours and stroke sizes. Colours are "#RRGGBB" or
// "#RRGGBBAA"; an unparsable value falls back to the default.
type Style struct {
	MarkerColor  string
	LatticeColor string
	LabelColor   string
	MarkerSize   int
	StrokeWidth  int
}

// DefaultStyle is used for zero-valued fields.
var DefaultStyle = Style{
	MarkerColor:  "#FF0000",
	LatticeColor: "#0080FF80",
	LabelColor:   "#00A000",
	MarkerSize:   3,
	StrokeWidth:  4,
}

func (s Style) withDefaults() Style {
	if s.MarkerColor == "" {
		s.MarkerColor = DefaultStyle.MarkerColor
	}
	if s.LatticeColor == "" {
		s.LatticeColor = DefaultStyle.LatticeColor
	}
	if s.LabelColor == "" {
		s.LabelColor = DefaultStyle.LabelColor
	}
	if s.MarkerSize <= 0 {
		s.MarkerSize = DefaultStyle.MarkerSize
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = DefaultStyle.StrokeWidth
	}
	return s
}

func (s Style) pick(hex, fallback string) color.NRGBA {
	c, err := parseHexColor(hex)
	if err != nil {
		c, _ = parseHexColor(fallback)
	}
	return c
}

// Binary renders the ink mask as black on white.
func Binary(bin *imaging.BinaryImage) *image.RGBA {
	return clone.AsRGBA(bin.Image())
}

// Centroids marks every blob centroid with a cross.
func Centroids(img image.Image, blobs []detection.Blob, style Style) *image.RGBA {
	style = style.withDefaults()
	out := clone.AsRGBA(img)
	c := style.pick(style.MarkerColor, DefaultStyle.MarkerColor)
	origin := out.Bounds().Min

	for _, b := range blobs {
		p := toPixel(b.Centroid()).Add(origin)
		for d := -style.MarkerSize; d <= style.MarkerSize; d++ {
			blend(out, p.X+d, p.Y, c)
			if d != 0 {
				blend(out, p.X, p.Y+d, c)
			}
		}
	}
	return out
}

// Lattice outlines every cell of geom and, when grid is non-nil, writes the
// recognised letter beside each cell centre. Empty cells are labelled "?".
func Lattice(img image.Image, geom detection.Geometry, grid *wordsearch.Grid, style Style) *image.RGBA {
	style = style.withDefaults()
	out := clone.AsRGBA(img)
	lineColor := style.pick(style.LatticeColor, DefaultStyle.LatticeColor)
	labelColor := style.pick(style.LabelColor, DefaultStyle.LabelColor)
	origin := out.Bounds().Min

	left := geom.Origin.X - geom.Spacing.X/2
	top := geom.Origin.Y - geom.Spacing.Y/2
	right := left + float64(geom.Width)*geom.Spacing.X
	bottom := top + float64(geom.Height)*geom.Spacing.Y

	for i := 0; i <= geom.Width; i++ {
		x := left + float64(i)*geom.Spacing.X
		line(out, detection.Vec{X: x, Y: top}, detection.Vec{X: x, Y: bottom}, origin, 1, lineColor)
	}
	for i := 0; i <= geom.Height; i++ {
		y := top + float64(i)*geom.Spacing.Y
		line(out, detection.Vec{X: left, Y: y}, detection.Vec{X: right, Y: y}, origin, 1, lineColor)
	}

	if grid == nil {
		return out
	}
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			cell := imaging.Pt(x, y)
			letter := grid.At(cell)
			if letter == wordsearch.Empty {
				letter = "?"
			}
			p := toPixel(geom.CellCenter(cell)).Add(origin)
			drawLabel(out, p.X+2, p.Y-2, letter, labelColor)
		}
	}
	return out
}

// Words strokes a line from the first to the last cell of every occurrence,
// each word in its own colour.
func Words(img image.Image, geom detection.Geometry, occs []wordsearch.Occurrence, style Style) *image.RGBA {
	style = style.withDefaults()
	out := clone.AsRGBA(img)
	if len(occs) == 0 {
		return out
	}
	origin := out.Bounds().Min

	palette := colorful.FastHappyPalette(len(occs))
	for i, o := range occs {
		r, g, b := palette[i].Clamped().RGB255()
		c := color.NRGBA{R: r, G: g, B: b, A: 160}
		from := geom.CellCenter(o.Cells[0])
		to := geom.CellCenter(o.Cells[len(o.Cells)-1])
		line(out, from, to, origin, style.StrokeWidth, c)
	}
	return out
}

// Save writes img as a PNG file.
func Save(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save annotation: %w", err)
	}
	return nil
}

func toPixel(v detection.Vec) image.Point {
	return image.Pt(int(math.Round(v.X)), int(math.Round(v.Y)))
}

// blend paints c over the pixel at (x, y), honouring its alpha.
func blend(img *image.RGBA, x, y int, c color.NRGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	r := image.Rect(x, y, x+1, y+1)
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// line draws a stroke of the given width between two pixel positions,
// offset by origin.
func line(img *image.RGBA, from, to detection.Vec, origin image.Point, width int, c color.NRGBA) {
	dx, dy := to.X-from.X, to.Y-from.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	half := (width - 1) / 2

	seen := make(map[image.Point]bool)
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		p := toPixel(detection.Vec{X: from.X + t*dx, Y: from.Y + t*dy}).Add(origin)
		for oy := -half; oy < width-half; oy++ {
			for ox := -half; ox < width-half; ox++ {
				q := p.Add(image.Pt(ox, oy))
				if seen[q] {
					continue
				}
				seen[q] = true
				blend(img, q.X, q.Y, c)
			}
		}
	}
}

// drawLabel writes text with its baseline at (x, y) on a light backing box.
func drawLabel(img *image.RGBA, x, y int, text string, fg color.NRGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	box := image.Rect(x-1, y-metrics.Ascent.Ceil()-1, x+width+1, y+metrics.Descent.Ceil()+1)
	draw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(color.NRGBA{255, 255, 255, 200}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
