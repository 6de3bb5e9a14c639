package flowgrid

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"
)

// Neighbors is the four-direction neighbor-index table for one cell:
// SNbs on Cell caches exactly this shape's Fluid/Solid weighting.
type Neighbors struct {
	XNeg, XPos, YNeg, YPos Index
}

// Grid owns the flat, ghost-padded cell array and the staggered MAC layout
// described in framework.go's InMAPdata, adapted from atmospheric-grid
// bookkeeping to a Cartesian MAC grid: a (Dim.X+2)x(Dim.Y+2) array where the
// outer ring is ghost cells simplifying boundary sampling.
type Grid struct {
	Dim       Dim
	Padded    Dim
	CellWidth float64

	cells []Cell
	Stats [2]Stats

	log logrus.FieldLogger
}

// New constructs a Grid of dim interior cells at the given cell width,
// zero-initialized and Fluid-mode throughout, padded by one ghost cell on
// every side.
func New(dim Dim, cellWidth float64, log logrus.FieldLogger) (*Grid, error) {
	if dim.X <= 0 || dim.Y <= 0 {
		return nil, ErrDimCellMismatch
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	padded := dim.padded()
	cells := make([]Cell, padded.area())
	g := &Grid{
		Dim:       dim,
		Padded:    padded,
		CellWidth: cellWidth,
		cells:     cells,
		log:       log,
	}
	id := uint32(0)
	for y := 0; y < padded.Y; y++ {
		for x := 0; x < padded.X; x++ {
			idx := Index{x, y}
			c := &g.cells[g.offset(idx)]
			c.ID = id
			c.Index = idx
			id++
		}
	}
	g.ComputeStats()
	return g, nil
}

func (g *Grid) offset(idx Index) int {
	return idx.X + idx.Y*g.Padded.X
}

// IsInsideRange reports whether idx addresses a real cell in the padded
// array (ghost ring included).
func (g *Grid) IsInsideRange(idx Index) bool {
	return idx.valid() &&
		idx.X >= 0 && idx.X < g.Padded.X &&
		idx.Y >= 0 && idx.Y < g.Padded.Y
}

// IsInsideBorder reports whether idx addresses an interior (non-ghost)
// cell.
func (g *Grid) IsInsideBorder(idx Index) bool {
	return idx.X >= 1 && idx.X <= g.Dim.X && idx.Y >= 1 && idx.Y <= g.Dim.Y
}

// Cell returns the cell at idx, or ErrIndexOutOfRange if idx falls outside
// the padded array.
func (g *Grid) Cell(idx Index) (*Cell, error) {
	if !g.IsInsideRange(idx) {
		return nil, ErrIndexOutOfRange
	}
	return &g.cells[g.offset(idx)], nil
}

// CellMut is an alias for Cell: every Cell accessor in this package
// already returns a mutable pointer, matching framework.go's plain-pointer
// cell ownership (no separate read/write accessor pair).
func (g *Grid) CellMut(idx Index) (*Cell, error) {
	return g.Cell(idx)
}

// CellOpt returns the cell at idx, or nil if idx is the sentinel or out of
// range, for callers (stencil neighbor lookups) that tolerate absence.
func (g *Grid) CellOpt(idx Index) *Cell {
	if !g.IsInsideRange(idx) {
		return nil
	}
	return &g.cells[g.offset(idx)]
}

// Neighbors returns the four axis-neighbor indices of idx, using indexNone
// for an x=0 or y=0 underflow instead of relying on unsigned wraparound.
func (g *Grid) Neighbors(idx Index) Neighbors {
	return Neighbors{
		XNeg: Index{decr(idx.X), idx.Y},
		XPos: Index{idx.X + 1, idx.Y},
		YNeg: Index{idx.X, decr(idx.Y)},
		YPos: Index{idx.X, idx.Y + 1},
	}
}

// IterIndex returns every index in the padded array, ghost ring included,
// in row-major order matching the flat offset formula.
func (g *Grid) IterIndex() []Index {
	out := make([]Index, 0, g.Padded.area())
	for y := 0; y < g.Padded.Y; y++ {
		for x := 0; x < g.Padded.X; x++ {
			out = append(out, Index{x, y})
		}
	}
	return out
}

// IterIndexInside returns every interior (non-ghost) index, row-major.
func (g *Grid) IterIndexInside() []Index {
	out := make([]Index, 0, g.Dim.area())
	for y := 1; y <= g.Dim.Y; y++ {
		for x := 1; x <= g.Dim.X; x++ {
			out = append(out, Index{x, y})
		}
	}
	return out
}

// DefaultStencilBounds is the spec-literal default stencil range: min at
// the array origin, max one short of the far edge in each axis so a
// stencil's positive neighbors never address outside the array.
func (g *Grid) DefaultStencilBounds() (min, max Index) {
	return Index{0, 0}, Index{g.Padded.X - 2, g.Padded.Y - 2}
}

// cellCenter returns the physical position of idx's cell-centered (scalar)
// sample point in the padded-index frame SampleField reads: ghost cell
// (0,0) spans [0,CellWidth) in each axis.
func (g *Grid) cellCenter(idx Index) r2.Vec {
	return r2.Vec{
		X: (float64(idx.X) + 0.5) * g.CellWidth,
		Y: (float64(idx.Y) + 0.5) * g.CellWidth,
	}
}

// SetObstacle rasterizes a disc of radius r centered at center into Solid
// cells, assigning vel (typically the zero vector) to both velocity
// buffers of every cell it covers.
func (g *Grid) SetObstacle(center r2.Vec, radius float64, vel r2.Vec) {
	for _, idx := range g.IterIndexInside() {
		c, err := g.Cell(idx)
		if err != nil {
			continue
		}
		p := g.cellCenter(idx)
		dx, dy := p.X-center.X, p.Y-center.Y
		if math.Hypot(dx, dy) > radius {
			continue
		}
		c.Mode = Solid
		c.Velocity.Front = vel
		c.Velocity.Back = vel
	}
}
