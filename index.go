package flowgrid

import "fmt"

// indexNone marks an absent neighbor component. Go has no unsigned-wraparound
// idiom for this in the corpus, so an explicit sentinel stands in for the
// Rust original's usize::MAX underflow.
const indexNone = -1

// Index is an integer grid coordinate (column, row) into a padded Grid.
type Index struct {
	X, Y int
}

// Dim is a grid extent in interior cells (unpadded).
type Dim struct {
	X, Y int
}

func (d Dim) padded() Dim {
	return Dim{d.X + 2, d.Y + 2}
}

func (d Dim) area() int {
	return d.X * d.Y
}

// Add returns the component-wise sum of i and o.
func (i Index) Add(o Index) Index {
	return Index{i.X + o.X, i.Y + o.Y}
}

// valid reports whether both components are real (not indexNone).
func (i Index) valid() bool {
	return i.X != indexNone && i.Y != indexNone
}

func (i Index) String() string {
	return fmt.Sprintf("(%d,%d)", i.X, i.Y)
}

// decr subtracts one from x, returning indexNone instead of underflowing,
// mirroring original_source's Wrapping(x) - Wrapping(1) sentinel check.
func decr(x int) int {
	if x == 0 {
		return indexNone
	}
	return x - 1
}
