package detection

import (
	"image"
	"iter"
	"math"
	"slices"

	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
)

// Vec is a real-valued pixel position or offset.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Manhattan returns |v.X-w.X| + |v.Y-w.Y|.
func (v Vec) Manhattan(w Vec) float64 {
	return math.Abs(v.X-w.X) + math.Abs(v.Y-w.Y)
}

// Blob is a maximal 8-connected set of ink pixels. Treat it as read-only.
type Blob struct {
	pixels   []imaging.Point
	bounds   image.Rectangle
	centroid Vec
}

// NewBlob builds a blob from its pixels. pixels must be non-empty.
func NewBlob(pixels []imaging.Point) Blob {
	var sx, sy float64
	for _, p := range pixels {
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	n := float64(len(pixels))
	return Blob{
		pixels:   pixels,
		bounds:   imaging.PixelBounds(pixels),
		centroid: Vec{X: sx / n, Y: sy / n},
	}
}

// Pixels returns the blob's pixels in fill order. Callers must not modify it.
func (b Blob) Pixels() []imaging.Point { return b.pixels }

// Size is the pixel count.
func (b Blob) Size() int { return len(b.pixels) }

// Bounds is the half-open bounding box of the pixels.
func (b Blob) Bounds() image.Rectangle { return b.bounds }

// Centroid is the mean pixel position.
func (b Blob) Centroid() Vec { return b.centroid }

var neighbours8 = [8]imaging.Point{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// Blobs lazily yields the connected ink regions of bin in discovery order.
//
// Pixels are scanned column by column (outer loop over x, inner over y). Each
// unvisited ink pixel seeds an iterative 8-connected flood fill on an explicit
// stack. A neighbour is bounds-checked before its ink is read, and every pixel
// is marked visited when it is pushed, so each pixel is touched once and the
// whole scan is linear in the pixel count.
//
// Each range over the sequence starts a fresh scan.
func Blobs(bin *imaging.BinaryImage) iter.Seq[Blob] {
	return func(yield func(Blob) bool) {
		w, h := bin.Width, bin.Height
		visited := make([]bool, w*h)
		var stack []imaging.Point

		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				seed := imaging.Pt(x, y)
				if visited[y*w+x] || !bin.Ink(seed) {
					continue
				}

				visited[y*w+x] = true
				stack = append(stack[:0], seed)
				var pixels []imaging.Point

				for len(stack) > 0 {
					p := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					pixels = append(pixels, p)

					for _, d := range neighbours8 {
						q := p.Add(d)
						if !bin.In(q) {
							continue
						}
						i := q.Y*w + q.X
						if visited[i] || !bin.Ink(q) {
							continue
						}
						visited[i] = true
						stack = append(stack, q)
					}
				}

				if !yield(NewBlob(pixels)) {
					return
				}
			}
		}
	}
}

// DetectBlobs collects Blobs(bin).
func DetectBlobs(bin *imaging.BinaryImage) []Blob {
	return slices.Collect(Blobs(bin))
}

// FilterBlobs drops blobs with fewer than minPixels pixels, keeping order.
// minPixels <= 1 returns blobs unchanged.
func FilterBlobs(blobs []Blob, minPixels int) []Blob {
	if minPixels <= 1 {
		return blobs
	}
	out := make([]Blob, 0, len(blobs))
	for _, b := range blobs {
		if b.Size() >= minPixels {
			out = append(out, b)
		}
	}
	return out
}

// Centroids returns the centroid of each blob, in order.
func Centroids(blobs []Blob) []Vec {
	out := make([]Vec, len(blobs))
	for i, b := range blobs {
		out[i] = b.Centroid()
	}
	return out
}

// Nearest returns the index of the blob whose centroid is closest to target
// by Manhattan distance, or -1 when blobs is empty. Ties go to the lower index.
func Nearest(blobs []Blob, target Vec) int {
	best, bestDist := -1, math.Inf(1)
	for i, b := range blobs {
		if d := b.Centroid().Manhattan(target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
