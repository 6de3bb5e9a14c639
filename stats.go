package flowgrid

import "math"

// Stats accumulates min/max bounds over a grid pass for velocity, speed,
// pressure, smoke and divergence in one record; Grid keeps a pair of them
// (see ComputeStats) that the renderer consults to normalize color scales.
type Stats struct {
	MinVelocity, MaxVelocity     float64
	MinSpeed, MaxSpeed           float64
	MinPressure, MaxPressure     float64
	MinSmoke, MaxSmoke           float64
	MinDiv, MaxDiv               float64
}

// IdentityStats returns the accumulation identity: +Inf for every min and
// -Inf for every max, so the first accumulated cell always wins.
func IdentityStats() Stats {
	return Stats{
		MinVelocity: math.Inf(1), MaxVelocity: math.Inf(-1),
		MinSpeed: math.Inf(1), MaxSpeed: math.Inf(-1),
		MinPressure: math.Inf(1), MaxPressure: math.Inf(-1),
		MinSmoke: math.Inf(1), MaxSmoke: math.Inf(-1),
		MinDiv: math.Inf(1), MaxDiv: math.Inf(-1),
	}
}

// Accumulate folds one cell's back-buffer values into s — the buffer side
// holding the live, just-solved state, the same side Rust's Stats::from
// reads.
func (s *Stats) Accumulate(c *Cell) {
	vx, vy := c.Velocity.Back.X, c.Velocity.Back.Y
	speed := math.Hypot(vx, vy)

	s.MinVelocity = math.Min(s.MinVelocity, math.Min(vx, vy))
	s.MaxVelocity = math.Max(s.MaxVelocity, math.Max(vx, vy))
	s.MinSpeed = math.Min(s.MinSpeed, speed)
	s.MaxSpeed = math.Max(s.MaxSpeed, speed)
	s.MinPressure = math.Min(s.MinPressure, c.Pressure)
	s.MaxPressure = math.Max(s.MaxPressure, c.Pressure)
	s.MinSmoke = math.Min(s.MinSmoke, c.Smoke.Back)
	s.MaxSmoke = math.Max(s.MaxSmoke, c.Smoke.Back)
	s.MinDiv = math.Min(s.MinDiv, c.Div)
	s.MaxDiv = math.Max(s.MaxDiv, c.Div)
}

// ComputeStats accumulates g's merged min/max Stats over every cell,
// ghost ring included, mirroring Rust's compute_stats reduction over
// self.cells, and writes the result into both halves of g.Stats — the
// spec's "pair of Stats records" collapses to one merged record in this
// port (see the single Stats type above), so both slots hold the same
// computed value rather than one sitting at its identity forever.
func (g *Grid) ComputeStats() Stats {
	s := IdentityStats()
	for i := range g.cells {
		s.Accumulate(&g.cells[i])
	}
	g.Stats[0] = s
	g.Stats[1] = s
	return s
}
