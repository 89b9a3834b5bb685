package detection

import (
	"math"

	"github.com/ironsheep/wordsearch-mcp/internal/failure"
	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
)

// DefaultWavelengthStep is the resolution at which candidate cell spacings are sampled.
const DefaultWavelengthStep = 0.1

// GridOptions tunes InferGeometry.
type GridOptions struct {
	// WavelengthStep is the spacing sampling resolution in pixels. <= 0 means default.
	WavelengthStep float64
}

// Geometry is an axis-aligned lattice of puzzle cells.
type Geometry struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	Spacing Vec `json:"spacing"`
	// Origin is the pixel centre of cell (0,0).
	Origin Vec `json:"origin"`
}

// CellCenter returns the expected pixel centre of cell c.
func (g Geometry) CellCenter(c imaging.Point) Vec {
	return Vec{
		X: g.Origin.X + float64(c.X)*g.Spacing.X,
		Y: g.Origin.Y + float64(c.Y)*g.Spacing.Y,
	}
}

// Cells returns the number of lattice cells.
func (g Geometry) Cells() int {
	return g.Width * g.Height
}

// InferGeometry recovers the puzzle lattice from blob centroids.
//
// Rotation is not corrected; the lattice is assumed axis-aligned. The steps are:
//
//  1. Spacing, per axis: histogram the rounded pairwise |differences| of all
//     ordered centroid pairs and pick the candidate wavelength d with the best
//     sqrt(d)-scaled cosine score. Earlier candidates win ties.
//  2. Offset, per axis: histogram the rounded raw coordinates and pick the
//     integer o in [0, d) with the best cosine score against (value-o)/d.
//  3. Extent: normalise every centroid to lattice units and search the cell
//     index window one boundary at a time (right, left, bottom, top), each
//     maximising a cosine sum divided by sqrt(window area).
//
// The boundary search is sequential, not joint, and its boundaries are kept
// exactly as that order produces them.
//
// Fewer than two points, or a point cloud too small to offer any candidate
// spacing, yields a GEOMETRY_INFERENCE_FAILED error. A window narrower than
// one cell yields EMPTY_GRID.
func InferGeometry(points []Vec, opts GridOptions) (Geometry, error) {
	if len(points) < 2 {
		return Geometry{}, failure.NewGeometryInferenceError("need at least 2 blob centroids", len(points))
	}

	step := opts.WavelengthStep
	if step <= 0 {
		step = DefaultWavelengthStep
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	m := 0.0
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
		m = math.Max(m, math.Max(p.X, p.Y))
	}

	limit := math.Max(m/10, math.Max(span(xs), span(ys))/2)
	candidates := int(limit / step)
	if candidates < 1 {
		return Geometry{}, failure.NewGeometryInferenceError("no candidate cell spacing", len(points))
	}

	dx := bestWavelength(pairHistogram(xs), step, candidates)
	dy := bestWavelength(pairHistogram(ys), step, candidates)
	ox := bestOffset(valueHistogram(xs), dx)
	oy := bestOffset(valueHistogram(ys), dy)

	w := window{
		us: normalise(xs, ox, dx),
		vs: normalise(ys, oy, dy),
	}
	top := m / dy

	ex := argmax(0, extentLimit(m, ox, dx), func(e int) float64 {
		return w.score(0, float64(e)+.5, 0, top)
	})
	sx := max(0, argmax(0, ex-1, func(s int) float64 {
		return w.score(float64(s)-.5, float64(ex)+.5, 0, top)
	}))
	ey := argmax(0, extentLimit(m, oy, dy), func(e int) float64 {
		return w.score(float64(sx)-.5, float64(ex)+.5, 0, float64(e)+.5)
	})
	sy := max(0, argmax(0, ey-1, func(s int) float64 {
		return w.score(float64(sx)-.5, float64(ex)+.5, float64(s)-.5, float64(ey)+.5)
	}))

	g := Geometry{
		Width:   ex - sx + 1,
		Height:  ey - sy + 1,
		Spacing: Vec{X: dx, Y: dy},
		Origin:  Vec{X: ox + dx*float64(sx), Y: oy + dy*float64(sy)},
	}
	if g.Width < 1 || g.Height < 1 {
		return Geometry{}, failure.NewEmptyGridError(g.Width, g.Height)
	}
	return g, nil
}

// histogram maps a non-negative integer bucket to a count. Buckets are
// visited in ascending order so float sums are reproducible.
type histogram []float64

func (h histogram) add(bucket int) histogram {
	if bucket < 0 {
		return h
	}
	for len(h) <= bucket {
		h = append(h, 0)
	}
	h[bucket]++
	return h
}

// dot is the cosine score of h against a wave of wavelength l shifted by o.
func (h histogram) dot(l, o float64) float64 {
	sum := 0.0
	for i, n := range h {
		if n == 0 {
			continue
		}
		sum += n * math.Cos(2*math.Pi*(float64(i)-o)/l)
	}
	return sum
}

func pairHistogram(vals []float64) histogram {
	var h histogram
	for _, a := range vals {
		for _, b := range vals {
			h = h.add(int(math.Round(math.Abs(a - b))))
		}
	}
	return h
}

func valueHistogram(vals []float64) histogram {
	var h histogram
	for _, v := range vals {
		h = h.add(int(math.Round(v)))
	}
	return h
}

// bestWavelength scores d = step, 2*step, ... and scales by sqrt(d) so long
// wavelengths, which see fewer periods, are not penalised.
func bestWavelength(h histogram, step float64, candidates int) float64 {
	i := argmax(0, candidates-1, func(r int) float64 {
		d := step * float64(r+1)
		return h.dot(d, 0) * math.Sqrt(d)
	})
	return step * float64(i+1)
}

func bestOffset(h histogram, d float64) float64 {
	last := int(math.Ceil(d)) - 1
	o := argmax(0, last, func(o int) float64 {
		return h.dot(d, float64(o))
	})
	return float64(o)
}

func extentLimit(m, o, d float64) int {
	return int(math.Round((m - o) / d))
}

func normalise(vals []float64, o, d float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = (v - o) / d
	}
	return out
}

type window struct {
	us, vs []float64
}

// score sums cos(2*pi*u)+cos(2*pi*v) over normalised points inside the
// inclusive window and divides by sqrt(area).
func (w window) score(sx, ex, sy, ey float64) float64 {
	area := (ex - sx) * (ey - sy)
	if area <= 0 {
		return math.Inf(-1)
	}
	sum := 0.0
	for i, u := range w.us {
		v := w.vs[i]
		if u >= sx && u <= ex && v >= sy && v <= ey {
			sum += math.Cos(2*math.Pi*u) + math.Cos(2*math.Pi*v)
		}
	}
	return sum / math.Sqrt(area)
}

// argmax returns the first i in [lo, hi] maximising f, or lo-1 when the
// range is empty.
func argmax(lo, hi int, f func(int) float64) int {
	if hi < lo {
		return lo - 1
	}
	best, bestScore := lo, f(lo)
	for i := lo + 1; i <= hi; i++ {
		if s := f(i); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

func span(vals []float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi - lo
}
