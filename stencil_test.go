package flowgrid

import (
	"context"
	"sync"
	"testing"
)

func makeCells(dim Dim) []Cell {
	cells := make([]Cell, dim.area())
	for y := 0; y < dim.Y; y++ {
		for x := 0; x < dim.X; x++ {
			idx := Index{x, y}
			cells[idx.X+idx.Y*dim.X] = Cell{Index: idx}
		}
	}
	return cells
}

func TestNewStencilIteratorDimMismatch(t *testing.T) {
	cells := makeCells(Dim{4, 4})
	if _, err := NewStencilIterator(cells[:len(cells)-1], Dim{4, 4}, Index{0, 0}, Index{2, 2}); err != ErrDimCellMismatch {
		t.Errorf("expected ErrDimCellMismatch, got %v", err)
	}
}

func TestNewStencilIteratorBoundsOutOfRange(t *testing.T) {
	cells := makeCells(Dim{4, 4})
	if _, err := NewStencilIterator(cells, Dim{4, 4}, Index{0, 0}, Index{4, 4}); err != ErrStencilBounds {
		t.Errorf("expected ErrStencilBounds for max >= dim, got %v", err)
	}
	if _, err := NewStencilIterator(cells, Dim{4, 4}, Index{3, 3}, Index{1, 1}); err != ErrStencilBounds {
		t.Errorf("expected ErrStencilBounds for min > max, got %v", err)
	}
}

func TestSequentialStencilCoversEachCenterOnce(t *testing.T) {
	dim := Dim{4, 4}
	cells := makeCells(dim)
	it, err := NewStencilIterator(cells, dim, Index{0, 0}, Index{2, 2})
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[Index]int)
	it.ForEachSequential(func(st PositiveStencil) {
		seen[st.Center.Index]++
	})

	if len(seen) != 9 {
		t.Fatalf("expected 9 distinct centers (3x3), got %d", len(seen))
	}
	for idx, n := range seen {
		if n != 1 {
			t.Errorf("center %v visited %d times, want 1", idx, n)
		}
	}
}

func TestParallelStencilCoversEachCenterOnceNoRace(t *testing.T) {
	dim := Dim{8, 8}
	cells := makeCells(dim)
	it, err := NewStencilIterator(cells, dim, Index{0, 0}, Index{6, 6})
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	seen := make(map[Index]int)
	err = it.ForEachParallel(context.Background(), func(st PositiveStencil) error {
		mu.Lock()
		seen[st.Center.Index]++
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 49 {
		t.Fatalf("expected 49 distinct centers (7x7), got %d", len(seen))
	}
	for idx, n := range seen {
		if n != 1 {
			t.Errorf("center %v visited %d times, want 1", idx, n)
		}
	}
}

func TestParallelUnsafeStencilVisitsEveryCenter(t *testing.T) {
	dim := Dim{6, 6}
	cells := makeCells(dim)
	it, err := NewStencilIterator(cells, dim, Index{0, 0}, Index{4, 4})
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	seen := make(map[Index]int)
	err = it.ForEachParallelUnsafe(context.Background(), func(st PositiveStencil) error {
		mu.Lock()
		seen[st.Center.Index]++
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 25 {
		t.Fatalf("expected 25 distinct centers (5x5), got %d", len(seen))
	}
}

func TestStencilPositiveNeighborsNilAtEdge(t *testing.T) {
	dim := Dim{4, 4}
	cells := makeCells(dim)
	it, err := NewStencilIterator(cells, dim, Index{0, 0}, Index{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	phase := it.Phase(Index{0, 0})
	var found bool
	for _, st := range phase {
		if st.Center.Index == (Index{2, 2}) {
			found = true
			if st.PosX != nil || st.PosY != nil {
				t.Errorf("center at max bound should have nil PosX/PosY, got %+v", st)
			}
		}
	}
	if !found {
		t.Fatal("expected to find center (2,2) in phase (0,0)")
	}
}
