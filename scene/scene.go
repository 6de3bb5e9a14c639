// Package scene builds named, composable Manipulators — inflow sources,
// obstacle placement, smoke emitters — grounded in original_source's
// setup.rs (AddSmokeBar, setup_scene) and in run.go's DomainManipulator
// functional composition.
package scene

import (
	"github.com/flowgrid/flowgrid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Scene is a named, ordered list of Manipulators applied to a grid every
// step, the way run.go composes DomainManipulator values into RunFuncs.
type Scene struct {
	Name         string
	Manipulators []flowgrid.Manipulator
}

// Compose folds every manipulator in s into one, invoked in order, the
// first error aborting the rest.
func (s Scene) Compose() flowgrid.Manipulator {
	manipulators := s.Manipulators
	return func(g *flowgrid.Grid, t, dt float64) error {
		for _, m := range manipulators {
			if err := m(g, t, dt); err != nil {
				return err
			}
		}
		return nil
	}
}

// SmokeBar emits a constant smoke value into the column of cells at
// interior x=1 between rows yMin and yMax inclusive, every step, mirroring
// setup.rs's AddSmokeBar manipulator.
func SmokeBar(yMin, yMax int, value float64) flowgrid.Manipulator {
	return func(g *flowgrid.Grid, t, dt float64) error {
		for y := yMin; y <= yMax; y++ {
			c, err := g.CellMut(flowgrid.Index{X: 1, Y: y})
			if err != nil {
				return err
			}
			if c.Mode == flowgrid.Solid {
				continue
			}
			c.Smoke.Back = value
		}
		return nil
	}
}

// Inflow holds a constant velocity at the column of cells at interior x=1
// between rows yMin and yMax inclusive, every step, mirroring setup.rs's
// inflow-velocity wall at x=1.
func Inflow(velocity r2.Vec, yMin, yMax int) flowgrid.Manipulator {
	return func(g *flowgrid.Grid, t, dt float64) error {
		for y := yMin; y <= yMax; y++ {
			c, err := g.CellMut(flowgrid.Index{X: 1, Y: y})
			if err != nil {
				return err
			}
			if c.Mode == flowgrid.Solid {
				continue
			}
			c.Velocity.Back = velocity
		}
		return nil
	}
}

// Obstacle rasterizes a static circular obstacle into the grid. Because
// SetObstacle only ever marks cells Solid and zeroes their velocity, it is
// safe to run every step even though it only needs to run once.
func Obstacle(center r2.Vec, radius float64) flowgrid.Manipulator {
	return func(g *flowgrid.Grid, t, dt float64) error {
		g.SetObstacle(center, radius, r2.Vec{})
		return nil
	}
}

// SmokeTunnel returns the canonical wind-tunnel-with-smoke-source scene:
// a leftward smoke bar plus inflow over the middle third of the grid's
// height and a circular obstacle ahead of it, the Go-native scene.Scene
// equivalent of original_source's setup_scene.
func SmokeTunnel(dim flowgrid.Dim, inflowSpeed float64) Scene {
	third := dim.Y / 3
	yMin, yMax := third, dim.Y-third
	cellWidth := 1.0
	obstacleCenter := r2.Vec{X: float64(dim.X) * cellWidth * 0.3, Y: float64(dim.Y) * cellWidth * 0.5}

	return Scene{
		Name: "smoke-tunnel",
		Manipulators: []flowgrid.Manipulator{
			Inflow(r2.Vec{X: inflowSpeed, Y: 0}, yMin, yMax),
			SmokeBar(yMin, yMax, 1.0),
			Obstacle(obstacleCenter, float64(dim.Y)*cellWidth*0.08),
		},
	}
}
