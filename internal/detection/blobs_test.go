package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
)

// binaryFromRows builds a binary image where '#' is ink and anything else is background.
func binaryFromRows(rows ...string) *imaging.BinaryImage {
	h := len(rows)
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y, r := range rows {
		for x := 0; x < w; x++ {
			v := uint8(255)
			if x < len(r) && r[x] == '#' {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return imaging.NewBinarizer(imaging.DefaultDarkLevel).Binarize(img)
}

func TestBlobs_AllBackground(t *testing.T) {
	bin := binaryFromRows(
		"......",
		"......",
		"......",
	)
	if got := len(DetectBlobs(bin)); got != 0 {
		t.Errorf("got %d blobs, want 0", got)
	}
}

func TestBlobs_Singleton(t *testing.T) {
	bin := binaryFromRows(
		".....",
		"..#..",
		".....",
	)
	blobs := DetectBlobs(bin)
	if len(blobs) != 1 {
		t.Fatalf("got %d blobs, want 1", len(blobs))
	}
	if blobs[0].Size() != 1 {
		t.Errorf("Size: got %d, want 1", blobs[0].Size())
	}
	if c := blobs[0].Centroid(); c != (Vec{2, 1}) {
		t.Errorf("Centroid: got %v, want {2 1}", c)
	}
	if b := blobs[0].Bounds(); b != image.Rect(2, 1, 3, 2) {
		t.Errorf("Bounds: got %v", b)
	}
}

func TestBlobs_Connectivity(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want int
	}{
		{
			name: "diagonal neighbours join",
			rows: []string{
				"#...",
				".#..",
				"..#.",
			},
			want: 1,
		},
		{
			name: "one column gap separates",
			rows: []string{
				"##.##",
				"##.##",
			},
			want: 2,
		},
		{
			name: "two pixel diagonal gap separates",
			rows: []string{
				"#...",
				"....",
				"..#.",
			},
			want: 2,
		},
		{
			name: "ring is one blob",
			rows: []string{
				"###",
				"#.#",
				"###",
			},
			want: 1,
		},
		{
			name: "touches every edge",
			rows: []string{
				"#...#",
				".....",
				"#...#",
			},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(DetectBlobs(binaryFromRows(tt.rows...))); got != tt.want {
				t.Errorf("got %d blobs, want %d", got, tt.want)
			}
		})
	}
}

func TestBlobs_PartitionInk(t *testing.T) {
	bin := binaryFromRows(
		"##..#...#.",
		"#...##..#.",
		"...#....#.",
		".###..#...",
		"......##.#",
		"#.#......#",
	)

	seen := make(map[imaging.Point]int)
	blobs := DetectBlobs(bin)
	total := 0
	for i, b := range blobs {
		total += b.Size()
		for _, p := range b.Pixels() {
			if !bin.Ink(p) {
				t.Errorf("blob %d holds background pixel %v", i, p)
			}
			if prev, dup := seen[p]; dup {
				t.Errorf("pixel %v in blobs %d and %d", p, prev, i)
			}
			seen[p] = i
		}

		c := b.Centroid()
		r := b.Bounds()
		if c.X < float64(r.Min.X) || c.X > float64(r.Max.X-1) || c.Y < float64(r.Min.Y) || c.Y > float64(r.Max.Y-1) {
			t.Errorf("blob %d centroid %v outside bounds %v", i, c, r)
		}
	}

	if total != bin.InkCount() {
		t.Errorf("blobs cover %d pixels, image has %d ink pixels", total, bin.InkCount())
	}
	for y := 0; y < bin.Height; y++ {
		for x := 0; x < bin.Width; x++ {
			p := imaging.Pt(x, y)
			if _, ok := seen[p]; bin.Ink(p) && !ok {
				t.Errorf("ink pixel %v in no blob", p)
			}
		}
	}
}

func TestBlobs_ColumnMajorOrder(t *testing.T) {
	// The lower blob starts in column 0, the upper one in column 2, so the
	// lower one is found first even though it sits further down.
	bin := binaryFromRows(
		"..##",
		"....",
		"#...",
	)
	blobs := DetectBlobs(bin)
	if len(blobs) != 2 {
		t.Fatalf("got %d blobs, want 2", len(blobs))
	}
	if c := blobs[0].Centroid(); c != (Vec{0, 2}) {
		t.Errorf("first blob centroid: got %v, want {0 2}", c)
	}
	if c := blobs[1].Centroid(); c != (Vec{2.5, 0}) {
		t.Errorf("second blob centroid: got %v, want {2.5 0}", c)
	}
}

func TestBlobs_StopsEarly(t *testing.T) {
	bin := binaryFromRows("#.#.#.#")

	n := 0
	for range Blobs(bin) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("consumed %d blobs, want 2", n)
	}

	// A fresh range rescans from the start.
	if got := len(DetectBlobs(bin)); got != 4 {
		t.Errorf("second scan: got %d blobs, want 4", got)
	}
}

func TestBlobs_LargeRegion(t *testing.T) {
	// A solid 300x300 block would blow a recursive fill; the explicit stack copes.
	img := image.NewGray(image.Rect(0, 0, 300, 300))
	bin := imaging.NewBinarizer(imaging.DefaultDarkLevel).Binarize(img)

	blobs := DetectBlobs(bin)
	if len(blobs) != 1 || blobs[0].Size() != 300*300 {
		t.Fatalf("got %d blobs, want one of %d pixels", len(blobs), 300*300)
	}
	if c := blobs[0].Centroid(); c != (Vec{149.5, 149.5}) {
		t.Errorf("Centroid: got %v", c)
	}
}

func TestFilterBlobs(t *testing.T) {
	bin := binaryFromRows(
		"#..##..###",
		"...##..###",
	)
	blobs := DetectBlobs(bin)
	if len(blobs) != 3 {
		t.Fatalf("setup: got %d blobs, want 3", len(blobs))
	}

	tests := []struct {
		min  int
		want []int
	}{
		{0, []int{1, 4, 6}},
		{1, []int{1, 4, 6}},
		{2, []int{4, 6}},
		{5, []int{6}},
		{7, nil},
	}

	for _, tt := range tests {
		got := FilterBlobs(blobs, tt.min)
		if len(got) != len(tt.want) {
			t.Errorf("min %d: got %d blobs, want %d", tt.min, len(got), len(tt.want))
			continue
		}
		for i, b := range got {
			if b.Size() != tt.want[i] {
				t.Errorf("min %d: blob %d size %d, want %d", tt.min, i, b.Size(), tt.want[i])
			}
		}
	}
}

func TestNearest(t *testing.T) {
	blobs := []Blob{
		NewBlob([]imaging.Point{{X: 0, Y: 0}}),
		NewBlob([]imaging.Point{{X: 10, Y: 0}}),
		NewBlob([]imaging.Point{{X: 0, Y: 10}}),
	}

	tests := []struct {
		name   string
		target Vec
		want   int
	}{
		{"exact", Vec{10, 0}, 1},
		{"closer to third", Vec{1, 7}, 2},
		{"tie goes to lower index", Vec{5, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nearest(blobs, tt.target); got != tt.want {
				t.Errorf("Nearest(%v) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}

	if got := Nearest(nil, Vec{}); got != -1 {
		t.Errorf("empty: got %d, want -1", got)
	}
}

func TestCentroids(t *testing.T) {
	blobs := []Blob{
		NewBlob([]imaging.Point{{X: 0, Y: 0}, {X: 2, Y: 0}}),
		NewBlob([]imaging.Point{{X: 5, Y: 5}}),
	}
	got := Centroids(blobs)
	if len(got) != 2 || got[0] != (Vec{1, 0}) || got[1] != (Vec{5, 5}) {
		t.Errorf("got %v", got)
	}
}
