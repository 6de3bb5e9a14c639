package flowgrid

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestAdvectVelocityUniformFieldUnchanged(t *testing.T) {
	g, err := New(Dim{6, 6}, 1.0, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.cells {
		g.cells[i].Velocity.Back = r2.Vec{X: 1, Y: 1}
	}
	if err := g.AdvectVelocity(0.1); err != nil {
		t.Fatal(err)
	}
	for _, idx := range g.IterIndexInside() {
		c, _ := g.Cell(idx)
		if !floats.EqualWithinAbs(c.Velocity.Back.X, 1, 1e-6) {
			t.Errorf("at %v: Vx=%v, want ~1 for a uniform field", idx, c.Velocity.Back.X)
		}
		if !floats.EqualWithinAbs(c.Velocity.Back.Y, 1, 1e-6) {
			t.Errorf("at %v: Vy=%v, want ~1 for a uniform field", idx, c.Velocity.Back.Y)
		}
	}
}

func TestAdvectVelocitySolidCellUnchanged(t *testing.T) {
	g, _ := New(Dim{6, 6}, 1.0, testLogger())
	idx := Index{3, 3}
	c, _ := g.Cell(idx)
	c.Mode = Solid
	c.Velocity.Back = r2.Vec{X: 9, Y: 9}

	if err := g.AdvectVelocity(0.1); err != nil {
		t.Fatal(err)
	}
	if c.Velocity.Back != (r2.Vec{X: 9, Y: 9}) {
		t.Errorf("solid cell velocity changed: %+v", c.Velocity.Back)
	}
}

func TestAdvectVelocityRejectsNonPositiveDt(t *testing.T) {
	g, _ := New(Dim{4, 4}, 1.0, testLogger())
	if err := g.AdvectVelocity(0); err != ErrNonPositiveDelta {
		t.Errorf("expected ErrNonPositiveDelta, got %v", err)
	}
}

func TestAdvectSmokeUniformFieldUnchanged(t *testing.T) {
	g, err := New(Dim{6, 6}, 1.0, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.cells {
		g.cells[i].Smoke.Back = 5
		g.cells[i].Velocity.Back = r2.Vec{X: 0.2, Y: -0.1}
	}
	if err := g.AdvectSmoke(0.1); err != nil {
		t.Fatal(err)
	}
	for _, idx := range g.IterIndexInside() {
		c, _ := g.Cell(idx)
		if !floats.EqualWithinAbs(c.Smoke.Back, 5, 1e-6) {
			t.Errorf("at %v: smoke=%v, want ~5 for a uniform field", idx, c.Smoke.Back)
		}
	}
}

func TestAdvectSmokeRejectsNonPositiveDt(t *testing.T) {
	g, _ := New(Dim{4, 4}, 1.0, testLogger())
	if err := g.AdvectSmoke(-1); err != ErrNonPositiveDelta {
		t.Errorf("expected ErrNonPositiveDelta, got %v", err)
	}
}
