package wordsearch

import (
	"fmt"
	"strings"

	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
)

// Empty marks a cell whose glyph could not be classified. It never matches
// a dictionary character.
const Empty = ""

// Grid is an immutable W x H array of letters.
type Grid struct {
	width  int
	height int
	cells  []string
}

// NewGrid builds a grid from row-major cells (column index fastest).
//
// Each cell is reduced to a single letter A-Z; anything else, including
// multi-letter strings, becomes Empty.
func NewGrid(width, height int, cells []string) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("grid must be at least 1x1, got %dx%d", width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("grid %dx%d needs %d cells, got %d", width, height, width*height, len(cells))
	}

	g := &Grid{width: width, height: height, cells: make([]string, len(cells))}
	for i, c := range cells {
		g.cells[i] = cleanCell(c)
	}
	return g, nil
}

// FromRows builds a grid from rows of cells. Every row must have the same length.
func FromRows(rows [][]string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid has no rows")
	}
	width := len(rows[0])
	cells := make([]string, 0, width*len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), width)
		}
		cells = append(cells, row...)
	}
	return NewGrid(width, len(rows), cells)
}

// FromStrings builds a grid from one string per row, one letter per cell.
// '.' and any other non-letter become Empty.
func FromStrings(rows ...string) (*Grid, error) {
	split := make([][]string, len(rows))
	for y, r := range rows {
		split[y] = strings.Split(r, "")
	}
	return FromRows(split)
}

func cleanCell(c string) string {
	if len(c) != 1 {
		return Empty
	}
	ch := c[0]
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	if ch < 'A' || ch > 'Z' {
		return Empty
	}
	return string(ch)
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// In reports whether p is a cell of the grid.
func (g *Grid) In(p imaging.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// At returns the letter at p, or Empty outside the grid.
func (g *Grid) At(p imaging.Point) string {
	if !g.In(p) {
		return Empty
	}
	return g.cells[p.Y*g.width+p.X]
}

// Rows returns each row as a string, with '?' for Empty cells.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	for y := range rows {
		var b strings.Builder
		for x := 0; x < g.width; x++ {
			c := g.cells[y*g.width+x]
			if c == Empty {
				c = "?"
			}
			b.WriteString(c)
		}
		rows[y] = b.String()
	}
	return rows
}

// Missing counts Empty cells.
func (g *Grid) Missing() int {
	n := 0
	for _, c := range g.cells {
		if c == Empty {
			n++
		}
	}
	return n
}

func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
