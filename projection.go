package flowgrid

import (
	"context"

	"github.com/sirupsen/logrus"
)

// overRelaxation is the SOR relaxation factor. Kept as a compile-time
// constant rather than a runtime parameter per the Design Notes.
const overRelaxation = 1.9

func fluidIndicator(c *Cell) float64 {
	if c == nil || c.Mode == Solid {
		return 0
	}
	return 1
}

// applySOR performs one Gauss-Seidel/SOR correction centered on center,
// using its positive-face neighbors posX (east) and posY (north). s holds
// the fluid indicator of center's four axis neighbors as
// {{west,east},{south,north}}; sTotInv is 1/(sum of s). The correction
// nudges center's own west/south face velocities and posX/posY's
// coincident west/south faces so that center's divergence moves toward
// zero.
func applySOR(center, posX, posY *Cell, s [2][2]float64, sTotInv, cp, overRelax float64) {
	div := posX.Velocity.Back.X - center.Velocity.Back.X +
		posY.Velocity.Back.Y - center.Velocity.Back.Y
	center.Div = div

	divNormed := div * sTotInv
	center.DivNorm = divNormed
	center.Pressure -= cp * divNormed

	p := -divNormed * overRelax
	center.Velocity.Back.X -= s[0][0] * p
	posX.Velocity.Back.X += s[0][1] * p
	center.Velocity.Back.Y -= s[1][0] * p
	posY.Velocity.Back.Y += s[1][1] * p
}

// neighborIndicators reads the live Mode of idx's four axis neighbors and
// returns the {{west,east},{south,north}} indicator table and its sum's
// reciprocal (0 if the sum is 0, i.e. idx is fully enclosed by solid
// cells).
func (g *Grid) neighborIndicators(idx Index) (s [2][2]float64, sTotInv float64) {
	nb := g.Neighbors(idx)
	s[0][0] = fluidIndicator(g.CellOpt(nb.XNeg))
	s[0][1] = fluidIndicator(g.CellOpt(nb.XPos))
	s[1][0] = fluidIndicator(g.CellOpt(nb.YNeg))
	s[1][1] = fluidIndicator(g.CellOpt(nb.YPos))
	sTot := s[0][0] + s[0][1] + s[1][0] + s[1][1]
	if sTot == 0 {
		return s, 0
	}
	return s, 1 / sTot
}

// SolveIncompressibilitySequential runs nIter Gauss-Seidel/SOR sweeps in
// strict row-major order, recomputing each cell's neighbor indicators on
// every sweep (cheap enough single-threaded that caching isn't worth the
// bookkeeping).
func (g *Grid) SolveIncompressibilitySequential(dt, density float64, nIter int) error {
	if dt <= 0 {
		return ErrNonPositiveDelta
	}
	cp := density * g.CellWidth / dt

	for iter := 0; iter < nIter; iter++ {
		for _, idx := range g.IterIndexInside() {
			center, err := g.Cell(idx)
			if err != nil {
				return err
			}
			if center.Mode == Solid {
				continue
			}
			s, sTotInv := g.neighborIndicators(idx)
			if sTotInv == 0 {
				g.log.WithField("index", idx.String()).Warn("enclosed fluid cell has no open face; skipping projection")
				continue
			}
			nb := g.Neighbors(idx)
			posX, err := g.Cell(nb.XPos)
			if err != nil {
				return err
			}
			posY, err := g.Cell(nb.YPos)
			if err != nil {
				return err
			}
			applySOR(center, posX, posY, s, sTotInv, cp, overRelaxation)
		}
	}
	g.ComputeStats()
	return nil
}

// prepassNeighborCache populates every interior fluid cell's STotInv/SNbs
// cache from the grid's current (static for the duration of a solve) Mode
// layout and zeroes its pressure, in a single four-phase sweep, so the
// parallel SOR sweeps that follow need not re-derive neighbor Mode on
// every iteration.
func (g *Grid) prepassNeighborCache(ctx context.Context, it *StencilIterator, unsafeMode bool) error {
	fn := func(st PositiveStencil) error {
		c := st.Center
		if !g.IsInsideBorder(c.Index) || c.Mode == Solid {
			return nil
		}
		s, sTotInv := g.neighborIndicators(c.Index)
		c.SNbs = s
		c.STotInv = sTotInv
		c.Pressure = 0
		if sTotInv == 0 {
			g.log.WithField("index", c.Index.String()).Warn("enclosed fluid cell has no open face; skipping projection")
		}
		return nil
	}
	if unsafeMode {
		return it.ForEachParallelUnsafe(ctx, fn)
	}
	return it.ForEachParallel(ctx, fn)
}

// SolveIncompressibilityParallel runs the pre-pass once, then nIter
// four-phase SOR sweeps fanned out across a worker pool via the stencil
// iterator's disjointness guarantee. unsafeMode selects the
// unsafe.Pointer-based stencil realization instead of bounds-checked slice
// indexing; the numerical result is identical either way.
func (g *Grid) SolveIncompressibilityParallel(ctx context.Context, dt, density float64, nIter int, unsafeMode bool) error {
	if dt <= 0 {
		return ErrNonPositiveDelta
	}
	if g.Dim.X%2 != 0 || g.Dim.Y%2 != 0 {
		return ErrStencilOddDim
	}
	cp := density * g.CellWidth / dt

	min, max := Index{1, 1}, Index{g.Padded.X - 1, g.Padded.Y - 1}
	it, err := NewStencilIterator(g.cells, g.Padded, min, max)
	if err != nil {
		return err
	}

	if err := g.prepassNeighborCache(ctx, it, unsafeMode); err != nil {
		return err
	}

	fn := func(st PositiveStencil) error {
		c := st.Center
		if !g.IsInsideBorder(c.Index) || c.Mode == Solid || c.STotInv == 0 {
			return nil
		}
		applySOR(c, st.PosX, st.PosY, c.SNbs, c.STotInv, cp, overRelaxation)
		return nil
	}

	for i := 0; i < nIter; i++ {
		var err error
		if unsafeMode {
			err = it.ForEachParallelUnsafe(ctx, fn)
		} else {
			err = it.ForEachParallel(ctx, fn)
		}
		if err != nil {
			return err
		}
	}
	g.ComputeStats()
	return nil
}

// SetLogger replaces the grid's injected logger, mirroring inmaputil's
// pattern of services taking a logrus.FieldLogger rather than reaching for
// logrus.StandardLogger deep in a callee.
func (g *Grid) SetLogger(log logrus.FieldLogger) {
	g.log = log
}
