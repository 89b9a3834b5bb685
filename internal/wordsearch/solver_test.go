package wordsearch

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
)

func catGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := FromRows([][]string{
		{"C", "A", "T"},
		{"X", "X", "X"},
		{"X", "X", "X"},
	})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	return g
}

// checkSpelling asserts the cells of every occurrence spell its word.
func checkSpelling(t *testing.T, g *Grid, occs []Occurrence) {
	t.Helper()
	for _, o := range occs {
		if len(o.Cells) != len(o.Word) {
			t.Errorf("%s: %d cells for %d letters", o.Word, len(o.Cells), len(o.Word))
		}
		var b strings.Builder
		for _, p := range o.Cells {
			b.WriteString(g.At(p))
		}
		if b.String() != o.Word {
			t.Errorf("cells %v spell %q, reported %q", o.Cells, b.String(), o.Word)
		}
		if o.Start != o.Cells[0] {
			t.Errorf("%s: start %v is not first cell %v", o.Word, o.Start, o.Cells[0])
		}
	}
}

func TestSolve_SingleWord(t *testing.T) {
	g := catGrid(t)

	occs := Solve(g, NewWordSet("CAT"), SolveOptions{})

	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1: %+v", len(occs), occs)
	}
	want := []imaging.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	if !reflect.DeepEqual(occs[0].Cells, want) {
		t.Errorf("cells: got %v, want %v", occs[0].Cells, want)
	}
	if occs[0].Word != "CAT" {
		t.Errorf("word: got %q, want CAT", occs[0].Word)
	}
	if occs[0].Direction.Name != "E" {
		t.Errorf("direction: got %s, want E", occs[0].Direction.Name)
	}
}

func TestSolve_ForwardAndReverse(t *testing.T) {
	g := catGrid(t)

	occs := Solve(g, NewWordSet("CAT", "TAC"), SolveOptions{})

	if len(occs) != 2 {
		t.Fatalf("got %d occurrences, want 2: %+v", len(occs), occs)
	}
	byWord := map[string]Occurrence{}
	for _, o := range occs {
		byWord[o.Word] = o
	}
	cat, tac := byWord["CAT"], byWord["TAC"]
	if cat.Direction.Name != "E" || tac.Direction.Name != "W" {
		t.Errorf("directions: CAT %s, TAC %s", cat.Direction.Name, tac.Direction.Name)
	}
	if tac.Start != imaging.Pt(2, 0) {
		t.Errorf("TAC start: got %v, want (2,0)", tac.Start)
	}
	checkSpelling(t, g, occs)
}

func TestSolve_ShortEntriesNeverMatch(t *testing.T) {
	g := catGrid(t)

	occs := Solve(g, NewWordSet("C", "X", "A", ""), SolveOptions{})
	if len(occs) != 0 {
		t.Errorf("got %d occurrences for single-letter words: %+v", len(occs), occs)
	}

	// MinLength below two is raised to two.
	occs = Solve(g, NewWordSet("X"), SolveOptions{MinLength: 1})
	if len(occs) != 0 {
		t.Errorf("MinLength 1 matched a single letter: %+v", occs)
	}
}

func TestSolve_AllDirections(t *testing.T) {
	g, err := FromStrings(
		"ABC",
		"DEF",
		"GHI",
	)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		word string
		dir  string
	}{
		{"EF", "E"},
		{"EI", "SE"},
		{"EH", "S"},
		{"EG", "SW"},
		{"ED", "W"},
		{"EA", "NW"},
		{"EB", "N"},
		{"EC", "NE"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			occs := Solve(g, NewWordSet(tt.word), SolveOptions{})
			if len(occs) != 1 {
				t.Fatalf("got %d occurrences, want 1", len(occs))
			}
			if occs[0].Direction.Name != tt.dir || occs[0].Start != imaging.Pt(1, 1) {
				t.Errorf("got %s from %v", occs[0].Direction.Name, occs[0].Start)
			}
		})
	}
}

func TestSolve_LongestFirstNoSuppression(t *testing.T) {
	g, err := FromStrings(
		"CATS",
		"XXXX",
	)
	if err != nil {
		t.Fatal(err)
	}

	occs := Solve(g, NewWordSet("CATS", "CAT", "AT"), SolveOptions{})

	var words []string
	for _, o := range occs {
		words = append(words, o.Word)
	}
	if want := []string{"CATS", "CAT", "AT"}; !reflect.DeepEqual(words, want) {
		t.Errorf("got %v, want %v", words, want)
	}
	checkSpelling(t, g, occs)
}

func TestSolve_MinLength(t *testing.T) {
	g, err := FromStrings("CATS")
	if err != nil {
		t.Fatal(err)
	}

	occs := Solve(g, NewWordSet("CATS", "CAT", "AT"), SolveOptions{MinLength: 3})
	if len(occs) != 2 {
		t.Errorf("got %d occurrences, want 2 (CATS, CAT)", len(occs))
	}
}

func TestSolve_EmptyCellsBreakWords(t *testing.T) {
	g, err := NewGrid(3, 1, []string{"C", "", "T"})
	if err != nil {
		t.Fatal(err)
	}

	if occs := Solve(g, NewWordSet("CT", "CAT", "C?T"), SolveOptions{}); len(occs) != 0 {
		t.Errorf("matched across an empty cell: %+v", occs)
	}
}

func TestSolve_Palindrome(t *testing.T) {
	g, err := FromStrings("ABA")
	if err != nil {
		t.Fatal(err)
	}

	occs := Solve(g, NewWordSet("ABA"), SolveOptions{})
	if len(occs) != 2 {
		t.Fatalf("got %d occurrences, want 2 (east and west)", len(occs))
	}
	checkSpelling(t, g, occs)
}

func TestSolve_SpellingProperty(t *testing.T) {
	g, err := FromStrings(
		"TOPSX",
		"ANOTE",
		"PETSA",
		"STOPT",
	)
	if err != nil {
		t.Fatal(err)
	}

	dict := NewWordSet("TOP", "POT", "STOP", "POTS", "TOPS", "SPOT", "NOTE", "PET", "PETS", "TAP", "PAT", "EAT", "TEA", "SET", "NET", "TEN", "OPT", "TOE", "ONE")
	occs := Solve(g, dict, SolveOptions{})
	if len(occs) == 0 {
		t.Fatal("expected some occurrences")
	}
	checkSpelling(t, g, occs)

	for i := 1; i < len(occs); i++ {
		if len(occs[i].Word) > len(occs[i-1].Word) {
			t.Errorf("occurrence %d (%s) longer than %d (%s)", i, occs[i].Word, i-1, occs[i-1].Word)
		}
	}
}

func TestSolve_NoWords(t *testing.T) {
	g := catGrid(t)
	if occs := Solve(g, NewWordSet(), SolveOptions{}); len(occs) != 0 {
		t.Errorf("got %d occurrences from an empty dictionary", len(occs))
	}
}

func TestDirection_Step(t *testing.T) {
	seen := map[imaging.Point]bool{}
	for _, d := range Directions {
		s := d.Step()
		if s == (imaging.Point{}) {
			t.Errorf("%s is the zero step", d.Name)
		}
		if s.X < -1 || s.X > 1 || s.Y < -1 || s.Y > 1 {
			t.Errorf("%s is not a unit step: %v", d.Name, s)
		}
		if seen[s] {
			t.Errorf("duplicate step %v", s)
		}
		seen[s] = true
	}
}
