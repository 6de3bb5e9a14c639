package flowgrid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// staggerOffset is the MAC-grid sample-point offset, in cell-width units,
// for a field component: dir 0 is the x-velocity (stored on the west
// face), dir 1 is the y-velocity (stored on the south face), and any other
// value is a cell-centered scalar (pressure, smoke).
func staggerOffset(dir int) r2.Vec {
	switch dir {
	case 0:
		return r2.Vec{X: 0, Y: 0.5}
	case 1:
		return r2.Vec{X: 0.5, Y: 0}
	default:
		return r2.Vec{X: 0.5, Y: 0.5}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SampleField bilinearly samples the scalar field extracted by f at the
// physical position pos, treating the field as staggered per dir. The
// sample is clamped so that it only ever reads cells in [min,max] — the
// four corner indices involved in the interpolation are each clamped
// independently, so pos outside the grid extrapolates the nearest edge
// value rather than reading out of range.
func (g *Grid) SampleField(min, max Index, pos r2.Vec, dir int, f func(*Cell) float64) float64 {
	off := staggerOffset(dir)

	gx := pos.X/g.CellWidth - off.X
	gy := pos.Y/g.CellWidth - off.Y

	ix := int(math.Floor(gx))
	iy := int(math.Floor(gy))
	ax := clampFloat(gx-float64(ix), 0, 1)
	ay := clampFloat(gy-float64(iy), 0, 1)

	ix0 := clampInt(ix, min.X, max.X)
	iy0 := clampInt(iy, min.Y, max.Y)
	ix1 := clampInt(ix+1, min.X, max.X)
	iy1 := clampInt(iy+1, min.Y, max.Y)

	f00 := f(g.CellOpt(Index{ix0, iy0}))
	f10 := f(g.CellOpt(Index{ix1, iy0}))
	f01 := f(g.CellOpt(Index{ix0, iy1}))
	f11 := f(g.CellOpt(Index{ix1, iy1}))

	return (1-ax)*(1-ay)*f00 + ax*(1-ay)*f10 + (1-ax)*ay*f01 + ax*ay*f11
}
