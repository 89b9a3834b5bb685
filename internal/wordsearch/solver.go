package wordsearch

import (
	"strings"

	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
)

// MinWordLength is the shortest word the solver will ever report.
const MinWordLength = 2

// Direction is a unit step between neighbouring cells.
type Direction struct {
	DX   int    `json:"dx"`
	DY   int    `json:"dy"`
	Name string `json:"name"`
}

// Step returns the direction as a Point offset.
func (d Direction) Step() imaging.Point {
	return imaging.Pt(d.DX, d.DY)
}

// Directions lists the eight search directions, clockwise from east.
var Directions = [8]Direction{
	{1, 0, "E"},
	{1, 1, "SE"},
	{0, 1, "S"},
	{-1, 1, "SW"},
	{-1, 0, "W"},
	{-1, -1, "NW"},
	{0, -1, "N"},
	{1, -1, "NE"},
}

// Occurrence is one placement of a dictionary word in the grid.
type Occurrence struct {
	Word      string          `json:"word"`
	Start     imaging.Point   `json:"start"`
	Direction Direction       `json:"direction"`
	Cells     []imaging.Point `json:"cells"`
}

// Len is the number of cells, which always equals len(Word).
func (o Occurrence) Len() int { return len(o.Cells) }

// SolveOptions tunes Solve.
type SolveOptions struct {
	// MinLength is the shortest word reported. Values below 2 mean 2.
	MinLength int
}

// Solve reports every straight-line placement of a dictionary word in g.
//
// Lengths run from max(W, H) down to the minimum; for each length every start
// cell is tried (row by row) in all eight directions, skipping rays that
// leave the grid. Each hit is reported on its own: a word and its reverse,
// overlapping words, and words inside longer words are never merged or
// suppressed. A ray through an Empty cell never matches.
func Solve(g *Grid, dict Dictionary, opts SolveOptions) []Occurrence {
	minLen := max(MinWordLength, opts.MinLength)
	maxLen := max(g.width, g.height)

	var found []Occurrence
	var b strings.Builder

	for length := maxLen; length >= minLen; length-- {
		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				start := imaging.Pt(x, y)
				for _, d := range Directions {
					end := start.Add(d.Step().Mul(length - 1))
					if !g.In(end) {
						continue
					}

					b.Reset()
					complete := true
					for i := 0; i < length; i++ {
						c := g.At(start.Add(d.Step().Mul(i)))
						if c == Empty {
							complete = false
							break
						}
						b.WriteString(c)
					}
					if !complete || !dict.Contains(b.String()) {
						continue
					}

					cells := make([]imaging.Point, length)
					for i := range cells {
						cells[i] = start.Add(d.Step().Mul(i))
					}
					found = append(found, Occurrence{
						Word:      b.String(),
						Start:     start,
						Direction: d,
						Cells:     cells,
					})
				}
			}
		}
	}
	return found
}
