package flowgrid

import "gonum.org/v1/gonum/spatial/r2"

func backX(c *Cell) float64     { return c.Velocity.Back.X }
func backY(c *Cell) float64     { return c.Velocity.Back.Y }
func backSmoke(c *Cell) float64 { return c.Smoke.Back }

// facePosition returns the physical position of idx's staggered sample
// point for field direction dir, per staggerOffset, in the padded-index
// frame SampleField reads.
func (g *Grid) facePosition(idx Index, dir int) r2.Vec {
	off := staggerOffset(dir)
	return r2.Vec{
		X: (float64(idx.X) + off.X) * g.CellWidth,
		Y: (float64(idx.Y) + off.Y) * g.CellWidth,
	}
}

// sampleBounds restricts bilinear sampling to the interior ring, excluding
// the ghost layer from ever supplying an interpolation corner, matching
// original_source's advect_velocity/advect_smoke sample_field calls
// (bounds idx!(1,1) to self.dim-idx!(1,1)).
func (g *Grid) sampleBounds() (Index, Index) {
	return Index{1, 1}, Index{g.Padded.X - 2, g.Padded.Y - 2}
}

// AdvectVelocity semi-Lagrangian advects the staggered velocity field:
// every cell's front buffer is first seeded from its back buffer, then
// each interior non-solid cell's west and south face velocities are
// overwritten by backtracing through the (unmodified) back field, unless
// the corresponding negative neighbor is solid, in which case that axis
// keeps its copied value. The whole field swaps once every cell has been
// visited, so in-flight reads during the pass never see a partially
// advected neighbor.
func (g *Grid) AdvectVelocity(dt float64) error {
	if dt <= 0 {
		return ErrNonPositiveDelta
	}
	for i := range g.cells {
		g.cells[i].Velocity.Front = g.cells[i].Velocity.Back
	}

	min, max := g.sampleBounds()
	for _, idx := range g.IterIndexInside() {
		c, err := g.Cell(idx)
		if err != nil {
			return err
		}
		if c.Mode == Solid {
			continue
		}
		nb := g.Neighbors(idx)

		if xNeg := g.CellOpt(nb.XNeg); xNeg != nil && xNeg.Mode != Solid {
			pos := g.facePosition(idx, 0)
			v := r2.Vec{
				X: g.SampleField(min, max, pos, 0, backX),
				Y: g.SampleField(min, max, pos, 1, backY),
			}
			prev := r2.Vec{X: pos.X - dt*v.X, Y: pos.Y - dt*v.Y}
			c.Velocity.Front.X = g.SampleField(min, max, prev, 0, backX)
		}

		if yNeg := g.CellOpt(nb.YNeg); yNeg != nil && yNeg.Mode != Solid {
			pos := g.facePosition(idx, 1)
			v := r2.Vec{
				X: g.SampleField(min, max, pos, 0, backX),
				Y: g.SampleField(min, max, pos, 1, backY),
			}
			prev := r2.Vec{X: pos.X - dt*v.X, Y: pos.Y - dt*v.Y}
			c.Velocity.Front.Y = g.SampleField(min, max, prev, 1, backY)
		}
	}

	for i := range g.cells {
		g.cells[i].Velocity.Swap()
	}
	return nil
}

// AdvectSmoke semi-Lagrangian advects the cell-centered smoke scalar. The
// sample velocity averages each axis's negative and positive neighbor face
// values (not the cell's own faces) — reproduced as-is from the reference
// algorithm's neighbor indexing rather than the more obvious own-cell
// west/east average, following the same copy-all/backtrace/swap shape as
// AdvectVelocity.
func (g *Grid) AdvectSmoke(dt float64) error {
	if dt <= 0 {
		return ErrNonPositiveDelta
	}
	for i := range g.cells {
		g.cells[i].Smoke.Front = g.cells[i].Smoke.Back
	}

	min, max := g.sampleBounds()
	for _, idx := range g.IterIndexInside() {
		c, err := g.Cell(idx)
		if err != nil {
			return err
		}
		if c.Mode == Solid {
			continue
		}
		nb := g.Neighbors(idx)
		xNeg, xPos := g.CellOpt(nb.XNeg), g.CellOpt(nb.XPos)
		yNeg, yPos := g.CellOpt(nb.YNeg), g.CellOpt(nb.YPos)
		if xNeg == nil || xPos == nil || yNeg == nil || yPos == nil {
			continue
		}

		avg := r2.Vec{
			X: (xNeg.Velocity.Back.X + xPos.Velocity.Back.X) / 2,
			Y: (yNeg.Velocity.Back.Y + yPos.Velocity.Back.Y) / 2,
		}
		pos := g.cellCenter(idx)
		prev := r2.Vec{X: pos.X - dt*avg.X, Y: pos.Y - dt*avg.Y}
		c.Smoke.Front = g.SampleField(min, max, prev, -1, backSmoke)
	}

	for i := range g.cells {
		g.cells[i].Smoke.Swap()
	}
	return nil
}
