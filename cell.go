package flowgrid

import "gonum.org/v1/gonum/spatial/r2"

// Mode classifies a cell as participating in the fluid solve or as a
// static obstacle that blocks flow and absorbs no forces.
type Mode int

const (
	Fluid Mode = iota
	Solid
)

func (m Mode) String() string {
	if m == Solid {
		return "solid"
	}
	return "fluid"
}

// FrontBack is a double-buffered value: Back accumulates a step's writes
// while Front retains the previous step's settled value for readers, until
// Swap exchanges them.
type FrontBack[T any] struct {
	Front, Back T
}

// Swap exchanges front and back buffers.
func (fb *FrontBack[T]) Swap() {
	fb.Front, fb.Back = fb.Back, fb.Front
}

// Cell is one record of the staggered grid: a Mode, front/back velocity
// and smoke buffers, scalar pressure, divergence, and the cached
// incompressibility-projection coefficients sTotInv/sNbs populated by the
// parallel projection's pre-pass.
type Cell struct {
	ID    uint32
	Index Index
	Mode  Mode

	Velocity FrontBack[r2.Vec]
	Pressure float64
	Smoke    FrontBack[float64]

	Div     float64
	DivNorm float64

	// STotInv and SNbs cache the projection's per-cell neighbor weights so
	// the parallel stencil sweep need not recompute neighbor Mode lookups
	// on every SOR iteration. SNbs[0] holds the (x-1,x+1) pair, SNbs[1] the
	// (y-1,y+1) pair; each entry is 1 if that neighbor is Fluid, else 0.
	STotInv float64
	SNbs    [2][2]float64
}

// Integrate adds the gravitational impulse dt*gravity to the cell's back
// velocity buffer. Solid cells never accumulate forces.
func (c *Cell) Integrate(dt float64, gravity r2.Vec) {
	if c.Mode == Solid {
		return
	}
	c.Velocity.Back.X += dt * gravity.X
	c.Velocity.Back.Y += dt * gravity.Y
}

// Reset clears the per-step scalars that the projection recomputes from
// scratch every call: divergence, normalized divergence, and pressure.
func (c *Cell) Reset() {
	c.Div = 0
	c.DivNorm = 0
	c.Pressure = 0
}
