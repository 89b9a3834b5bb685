package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultGlyphMargin is the white padding around a rendered glyph, in pixels.
const DefaultGlyphMargin = 3

// PixelBounds returns the tight bounding box of pixels as a half-open rectangle.
// An empty slice yields the empty rectangle.
func PixelBounds(pixels []Point) image.Rectangle {
	if len(pixels) == 0 {
		return image.Rectangle{}
	}
	r := image.Rect(pixels[0].X, pixels[0].Y, pixels[0].X+1, pixels[0].Y+1)
	for _, p := range pixels[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X+1 > r.Max.X {
			r.Max.X = p.X + 1
		}
		if p.Y+1 > r.Max.Y {
			r.Max.Y = p.Y + 1
		}
	}
	return r
}

// RenderGlyph paints pixels black on a white canvas sized to their bounding
// box plus margin on every side. Nothing else from the source survives, so
// neighbouring letters and grid lines never leak into the glyph.
func RenderGlyph(pixels []Point, margin int) *image.NRGBA {
	if margin < 0 {
		margin = 0
	}
	r := PixelBounds(pixels)
	canvas := imaging.New(r.Dx()+2*margin, r.Dy()+2*margin, color.White)
	for _, p := range pixels {
		canvas.Set(p.X-r.Min.X+margin, p.Y-r.Min.Y+margin, color.Black)
	}
	return canvas
}

// Strip pastes glyphs left to right onto one white canvas, vertically centred,
// with gap pixels between neighbours. Used to classify a whole row at once.
func Strip(glyphs []image.Image, gap int) *image.NRGBA {
	width, height := 0, 0
	for i, g := range glyphs {
		b := g.Bounds()
		width += b.Dx()
		if i > 0 {
			width += gap
		}
		if b.Dy() > height {
			height = b.Dy()
		}
	}
	if width == 0 || height == 0 {
		return imaging.New(1, 1, color.White)
	}

	strip := imaging.New(width, height, color.White)
	x := 0
	for _, g := range glyphs {
		b := g.Bounds()
		strip = imaging.Paste(strip, g, image.Pt(x, (height-b.Dy())/2))
		x += b.Dx() + gap
	}
	return strip
}
