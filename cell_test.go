package flowgrid

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestCellIntegrateFluid(t *testing.T) {
	c := &Cell{Mode: Fluid}
	c.Integrate(0.5, r2.Vec{X: 0, Y: -10})
	if c.Velocity.Back.Y != -5 {
		t.Errorf("Velocity.Back.Y = %v, want -5", c.Velocity.Back.Y)
	}
	if c.Velocity.Back.X != 0 {
		t.Errorf("Velocity.Back.X = %v, want 0", c.Velocity.Back.X)
	}
}

func TestCellIntegrateSolidSkipped(t *testing.T) {
	c := &Cell{Mode: Solid}
	c.Integrate(0.5, r2.Vec{X: 0, Y: -10})
	if c.Velocity.Back != (r2.Vec{}) {
		t.Errorf("solid cell should not accumulate velocity, got %v", c.Velocity.Back)
	}
}

func TestFrontBackSwap(t *testing.T) {
	fb := FrontBack[float64]{Front: 1, Back: 2}
	fb.Swap()
	if fb.Front != 2 || fb.Back != 1 {
		t.Errorf("Swap() = %+v, want Front=2 Back=1", fb)
	}
}

func TestCellReset(t *testing.T) {
	c := &Cell{Div: 1, DivNorm: 2, Pressure: 3}
	c.Reset()
	if c.Div != 0 || c.DivNorm != 0 || c.Pressure != 0 {
		t.Errorf("Reset() left nonzero fields: %+v", c)
	}
}
