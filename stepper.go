package flowgrid

import (
	"context"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"
)

// ExecMode selects the concurrency strategy for the incompressibility
// projection. All three modes converge to the same fixed point; they
// differ only in how (and whether) iterations are fanned out across
// goroutines.
type ExecMode int

const (
	Single ExecMode = iota
	Parallel
	ParallelUnsafe
)

func (m ExecMode) String() string {
	switch m {
	case Parallel:
		return "parallel"
	case ParallelUnsafe:
		return "parallel-unsafe"
	default:
		return "single"
	}
}

// Manipulator mutates a grid ahead of a step's physics — scene setup
// hooks such as inflow sources, obstacle placement, or smoke emitters,
// composed the way run.go composes its DomainManipulator values into
// RunFuncs and invokes them in sequence every step.
type Manipulator func(g *Grid, t, dt float64) error

// TimeStepper orchestrates one full simulation step: manipulate, reset,
// integrate, project, advect.
type TimeStepper struct {
	Log         logrus.FieldLogger
	Density     float64
	Gravity     r2.Vec
	NIterations int
	Mode        ExecMode

	Objects      []Object
	Manipulators []Manipulator

	T float64
}

// NewTimeStepper constructs a TimeStepper. At least one Object must be a
// Grid variant for ComputeStep to have anything to advance.
func NewTimeStepper(log logrus.FieldLogger, density float64, gravity r2.Vec, nIterations int, mode ExecMode, objects []Object, manipulators []Manipulator) *TimeStepper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TimeStepper{
		Log:          log,
		Density:      density,
		Gravity:      gravity,
		NIterations:  nIterations,
		Mode:         mode,
		Objects:      objects,
		Manipulators: manipulators,
	}
}

// grid returns the stepper's single Grid object.
func (ts *TimeStepper) grid() (*Grid, error) {
	for _, o := range ts.Objects {
		if g, err := o.AsGrid(); err == nil {
			return g, nil
		}
	}
	return nil, ErrObjectKind
}

// ComputeStep runs one full simulation step: Manipulate, Reset, Integrate,
// SolveIncompressibility, Advect, then advances T by dt. dt <= 0 is a
// fatal invariant violation and aborts before touching the grid.
func (ts *TimeStepper) ComputeStep(ctx context.Context, dt float64) error {
	if dt <= 0 {
		return ErrNonPositiveDelta
	}
	g, err := ts.grid()
	if err != nil {
		return err
	}

	for _, m := range ts.Manipulators {
		if err := m(g, ts.T, dt); err != nil {
			return err
		}
	}

	g.reset()
	g.integrate(dt, ts.Gravity)
	g.extrapolateBoundary()

	switch ts.Mode {
	case Single:
		if err := g.SolveIncompressibilitySequential(dt, ts.Density, ts.NIterations); err != nil {
			return err
		}
	case Parallel:
		if err := g.SolveIncompressibilityParallel(ctx, dt, ts.Density, ts.NIterations, false); err != nil {
			return err
		}
	case ParallelUnsafe:
		if err := g.SolveIncompressibilityParallel(ctx, dt, ts.Density, ts.NIterations, true); err != nil {
			return err
		}
	}

	if err := g.AdvectVelocity(dt); err != nil {
		return err
	}
	if err := g.AdvectSmoke(dt); err != nil {
		return err
	}

	ts.T += dt
	return nil
}

// reset clears every cell's per-step scalars, ghost ring included.
func (g *Grid) reset() {
	for i := range g.cells {
		g.cells[i].Reset()
	}
}

// integrate applies gravity to every interior cell's back velocity
// buffer.
func (g *Grid) integrate(dt float64, gravity r2.Vec) {
	for _, idx := range g.IterIndexInside() {
		c := g.CellOpt(idx)
		if c == nil {
			continue
		}
		c.Integrate(dt, gravity)
	}
}

func backComponent(dir int) func(*Cell) float64 {
	if dir == 0 {
		return backX
	}
	return backY
}

// extrapolateBoundary overwrites the four ghost-ring strips' non-solid
// cell velocities by sampling the interior field at the ghost cell's own
// staggered position. This is an approximation, not exactly consistent
// with the projection that follows it, reproduced as-is rather than
// "fixed" — see the open question this resolves.
func (g *Grid) extrapolateBoundary() {
	min, max := g.sampleBounds()
	extrapolate := func(idx Index) {
		c := g.CellOpt(idx)
		if c == nil || c.Mode == Solid {
			return
		}
		for dir := 0; dir <= 1; dir++ {
			pos := g.facePosition(idx, dir)
			val := g.SampleField(min, max, pos, dir, backComponent(dir))
			if dir == 0 {
				c.Velocity.Back.X = val
			} else {
				c.Velocity.Back.Y = val
			}
		}
	}

	for x := 0; x < g.Padded.X; x++ {
		extrapolate(Index{x, 0})
		extrapolate(Index{x, g.Padded.Y - 1})
	}
	for y := 0; y < g.Padded.Y; y++ {
		extrapolate(Index{0, y})
		extrapolate(Index{g.Padded.X - 1, y})
	}
}
