//go:build cgo

package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// renderText draws text with basicfont and scales it up so Tesseract has
// something closer to a photographed letter to work with.
func renderText(text string, scale int) image.Image {
	width := len(text)*7 + 20
	height := 33

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(10), Y: fixed.I(22)},
	}
	d.DrawString(text)

	return imaging.Resize(img, width*scale, height*scale, imaging.NearestNeighbor)
}

func requireTesseract(t *testing.T) *Tesseract {
	t.Helper()
	tess := NewTesseract("")
	if info := tess.Info(); !info.Available {
		t.Skipf("Tesseract not available: %s", info.Error)
	}
	return tess
}

func TestTesseract_SingleChar(t *testing.T) {
	tess := requireTesseract(t)

	for _, letter := range []string{"A", "K", "W"} {
		t.Run(letter, func(t *testing.T) {
			got, err := tess.Classify(context.Background(), renderText(letter, 4), GlyphOptions(SingleChar, "eng"))
			if err != nil {
				t.Skipf("Tesseract could not run: %v", err)
			}
			if Normalize(got, UppercaseLatin) != got {
				t.Errorf("result %q contains characters outside A-Z", got)
			}
			if got != letter {
				t.Logf("classified %q as %q", letter, got)
			}
		})
	}
}

func TestTesseract_SingleLine(t *testing.T) {
	tess := requireTesseract(t)

	got, err := tess.Classify(context.Background(), renderText("QZXJ", 4), GlyphOptions(SingleLine, "eng"))
	if err != nil {
		t.Skipf("Tesseract could not run: %v", err)
	}
	if Normalize(got, UppercaseLatin) != got {
		t.Errorf("result %q contains characters outside A-Z", got)
	}
	t.Logf("line classified as %q", got)
}

func TestTesseract_CancelledContext(t *testing.T) {
	tess := NewTesseract("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tess.Classify(ctx, renderText("A", 1), GlyphOptions(SingleChar, "eng")); err == nil {
		t.Error("expected error for cancelled context")
	}
}
