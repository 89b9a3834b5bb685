package imaging

import (
	"image"
	"image/color"
)

// DefaultDarkLevel is the channel-sum threshold below which a pixel counts as ink.
const DefaultDarkLevel = 384

// MaxDarkLevel is the largest meaningful threshold (3 * 256).
const MaxDarkLevel = 768

// Binarizer classifies pixels as ink or background.
//
// A pixel is ink when the sum of its 8-bit red, green and blue channels is
// strictly below Threshold. A pixel whose sum equals Threshold is background.
type Binarizer struct {
	Threshold int
}

// NewBinarizer returns a Binarizer with the given threshold clamped to [0, 768].
func NewBinarizer(threshold int) Binarizer {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > MaxDarkLevel {
		threshold = MaxDarkLevel
	}
	return Binarizer{Threshold: threshold}
}

// IsInk reports whether c is an ink colour.
func (b Binarizer) IsInk(c color.Color) bool {
	r, g, bl, _ := c.RGBA()
	return int(r>>8)+int(g>>8)+int(bl>>8) < b.Threshold
}

// Binarize classifies every pixel of img. The result is indexed from (0,0)
// regardless of img.Bounds().Min.
func (b Binarizer) Binarize(img image.Image) *BinaryImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bin := &BinaryImage{Width: w, Height: h, ink: make([]bool, w*h)}

	// NRGBA is what the loader hands back for most files; read it directly.
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := src.Pix[(y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				i := (x + bounds.Min.X - src.Rect.Min.X) * 4
				sum := int(row[i]) + int(row[i+1]) + int(row[i+2])
				bin.ink[y*w+x] = sum < b.Threshold
			}
		}
		return bin
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bin.ink[y*w+x] = b.IsInk(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return bin
}

// BinaryImage is a two-tone classification of a source image.
type BinaryImage struct {
	Width  int
	Height int
	ink    []bool
}

// In reports whether p lies inside the image.
func (b *BinaryImage) In(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.Width && p.Y < b.Height
}

// Ink reports whether p is an ink pixel. Points outside the image are background.
func (b *BinaryImage) Ink(p Point) bool {
	if !b.In(p) {
		return false
	}
	return b.ink[p.Y*b.Width+p.X]
}

// InkCount returns the number of ink pixels.
func (b *BinaryImage) InkCount() int {
	n := 0
	for _, v := range b.ink {
		if v {
			n++
		}
	}
	return n
}

// Image renders the classification as pure black ink on pure white.
func (b *BinaryImage) Image() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for i, v := range b.ink {
		if v {
			out.Pix[i] = 0
		} else {
			out.Pix[i] = 255
		}
	}
	return out
}
