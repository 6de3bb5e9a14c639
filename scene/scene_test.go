package scene

import (
	"testing"

	"github.com/flowgrid/flowgrid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"
)

func testGrid(t *testing.T, dim flowgrid.Dim) *flowgrid.Grid {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	g, err := flowgrid.New(dim, 1.0, log)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSmokeBarSetsSmokeInRange(t *testing.T) {
	g := testGrid(t, flowgrid.Dim{X: 4, Y: 8})
	m := SmokeBar(2, 5, 1.0)
	if err := m(g, 0, 0.1); err != nil {
		t.Fatal(err)
	}
	for y := 2; y <= 5; y++ {
		c, err := g.Cell(flowgrid.Index{X: 1, Y: y})
		if err != nil {
			t.Fatal(err)
		}
		if c.Smoke.Back != 1.0 {
			t.Errorf("at y=%d: Smoke.Back = %v, want 1.0", y, c.Smoke.Back)
		}
	}
	outside, err := g.Cell(flowgrid.Index{X: 1, Y: 7})
	if err != nil {
		t.Fatal(err)
	}
	if outside.Smoke.Back != 0 {
		t.Errorf("outside the bar's range Smoke.Back = %v, want 0", outside.Smoke.Back)
	}
}

func TestInflowSetsVelocity(t *testing.T) {
	g := testGrid(t, flowgrid.Dim{X: 4, Y: 4})
	m := Inflow(r2.Vec{X: 2, Y: 0}, 1, 4)
	if err := m(g, 0, 0.1); err != nil {
		t.Fatal(err)
	}
	c, err := g.Cell(flowgrid.Index{X: 1, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	if c.Velocity.Back.X != 2 {
		t.Errorf("Velocity.Back.X = %v, want 2", c.Velocity.Back.X)
	}
}

func TestObstacleMarksSolid(t *testing.T) {
	g := testGrid(t, flowgrid.Dim{X: 8, Y: 8})
	center := r2.Vec{X: 4, Y: 4}
	m := Obstacle(center, 1.5)
	if err := m(g, 0, 0.1); err != nil {
		t.Fatal(err)
	}
	c, err := g.Cell(flowgrid.Index{X: 4, Y: 4})
	if err != nil {
		t.Fatal(err)
	}
	if c.Mode != flowgrid.Solid {
		t.Error("cell under the obstacle center should be Solid")
	}
}

func TestSmokeTunnelComposeRunsWithoutError(t *testing.T) {
	g := testGrid(t, flowgrid.Dim{X: 8, Y: 12})
	s := SmokeTunnel(flowgrid.Dim{X: 8, Y: 12}, 3.0)
	composed := s.Compose()
	if err := composed(g, 0, 1.0/60); err != nil {
		t.Fatal(err)
	}
}
