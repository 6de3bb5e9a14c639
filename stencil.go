package flowgrid

import (
	"context"
	"runtime"
	"unsafe"

	"golang.org/x/sync/errgroup"
)

// PositiveStencil is the ephemeral three-cell mutable handle produced by a
// stencil traversal: a center cell plus its positive-x and positive-y
// neighbors, the only triple a concurrent sweep may touch without risking
// aliased writes across goroutines. PosX/PosY are nil when the center sits
// on the traversal's far edge.
type PositiveStencil struct {
	Center, PosX, PosY *Cell
}

// Phases is the four-phase offset sequence that, swept in order, covers
// every cell in a stencil iterator's range exactly once as a Center.
var Phases = [4]Index{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// StencilIterator yields disjoint PositiveStencil triples over a flat cell
// array, the safe (bounds-checked slice indexing) realization of
// original_source's grid_stencil.rs.
type StencilIterator struct {
	cells    []Cell
	dim      Dim
	min, max Index
}

// NewStencilIterator validates that dim accounts for every cell in cells
// and that [min,max] is a non-empty sub-range of dim, then returns an
// iterator over that range.
func NewStencilIterator(cells []Cell, dim Dim, min, max Index) (*StencilIterator, error) {
	if dim.X*dim.Y != len(cells) {
		return nil, ErrDimCellMismatch
	}
	if min.X < 0 || min.Y < 0 || max.X >= dim.X || max.Y >= dim.Y || min.X > max.X || min.Y > max.Y {
		return nil, ErrStencilBounds
	}
	return &StencilIterator{cells: cells, dim: dim, min: min, max: max}, nil
}

func (it *StencilIterator) offset(idx Index) int {
	return idx.X + idx.Y*it.dim.X
}

// Phase returns the center-cell stencils for a single stride-2 offset,
// e.g. offset (0,0) visits every other cell starting at min.
func (it *StencilIterator) Phase(offset Index) []PositiveStencil {
	var out []PositiveStencil
	for y := it.min.Y + offset.Y; y <= it.max.Y; y += 2 {
		for x := it.min.X + offset.X; x <= it.max.X; x += 2 {
			st := PositiveStencil{Center: &it.cells[it.offset(Index{x, y})]}
			if x+1 <= it.max.X {
				st.PosX = &it.cells[it.offset(Index{x + 1, y})]
			}
			if y+1 <= it.max.Y {
				st.PosY = &it.cells[it.offset(Index{x, y + 1})]
			}
			out = append(out, st)
		}
	}
	return out
}

// phaseUnsafe is the unsafe.Pointer-arithmetic realization of Phase,
// mirroring original_source's grid_stencil_unsafe.rs: the same bounds
// checks already performed by NewStencilIterator gate every pointer
// computed here, so this differs from Phase only in how it reaches into
// the backing array, never in which cells it reaches.
func (it *StencilIterator) phaseUnsafe(offset Index) []PositiveStencil {
	if len(it.cells) == 0 {
		return nil
	}
	base := unsafe.Pointer(&it.cells[0])
	size := unsafe.Sizeof(it.cells[0])
	cellAt := func(idx Index) *Cell {
		return (*Cell)(unsafe.Add(base, uintptr(it.offset(idx))*size))
	}

	var out []PositiveStencil
	for y := it.min.Y + offset.Y; y <= it.max.Y; y += 2 {
		for x := it.min.X + offset.X; x <= it.max.X; x += 2 {
			st := PositiveStencil{Center: cellAt(Index{x, y})}
			if x+1 <= it.max.X {
				st.PosX = cellAt(Index{x + 1, y})
			}
			if y+1 <= it.max.Y {
				st.PosY = cellAt(Index{x, y + 1})
			}
			out = append(out, st)
		}
	}
	return out
}

// ForEachSequential visits every stencil across all four phases in strict
// row-major order within each phase, one at a time.
func (it *StencilIterator) ForEachSequential(fn func(PositiveStencil)) {
	for _, phase := range Phases {
		for _, st := range it.Phase(phase) {
			fn(st)
		}
	}
}

func numWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

// runChunked fans fn out across numWorkers goroutines over disjoint,
// contiguous slices of stencils — the stride-2 phase partitioning already
// guarantees no two stencils in the slice alias a cell, so chunking by
// contiguous range (not by cell) is safe, grounded in the teacher's
// worker-stride pattern in run.go's Calculations and the wator-project
// splitRows chunking scheme.
func runChunked(ctx context.Context, stencils []PositiveStencil, fn func(PositiveStencil) error) error {
	if len(stencils) == 0 {
		return nil
	}
	workers := numWorkers()
	if workers > len(stencils) {
		workers = len(stencils)
	}
	chunk := (len(stencils) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(stencils); start += chunk {
		end := start + chunk
		if end > len(stencils) {
			end = len(stencils)
		}
		slice := stencils[start:end]
		g.Go(func() error {
			for _, st := range slice {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := fn(st); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// ForEachParallel visits every stencil across all four phases, each phase
// fanned out across a worker pool with errgroup-propagated errors; phases
// themselves run in sequence since phase N+1's stencils may read cells
// phase N just wrote.
func (it *StencilIterator) ForEachParallel(ctx context.Context, fn func(PositiveStencil) error) error {
	for _, phase := range Phases {
		if err := runChunked(ctx, it.Phase(phase), fn); err != nil {
			return err
		}
	}
	return nil
}

// ForEachParallelUnsafe is ForEachParallel realized with phaseUnsafe
// instead of Phase.
func (it *StencilIterator) ForEachParallelUnsafe(ctx context.Context, fn func(PositiveStencil) error) error {
	for _, phase := range Phases {
		if err := runChunked(ctx, it.phaseUnsafe(phase), fn); err != nil {
			return err
		}
	}
	return nil
}
