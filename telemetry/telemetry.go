// Package telemetry snapshots per-step Stats into a ring buffer and
// tracks a running convergence signal, grounded in run.go's
// SteadyStateConvergenceCheck (a running sum tracked across iterations)
// and its Log(w io.Writer) DomainManipulator text-summary habit.
package telemetry

import (
	"fmt"
	"math"

	"github.com/flowgrid/flowgrid"
	"github.com/sirupsen/logrus"
)

// Snapshot is one step's recorded Stats.
type Snapshot struct {
	Step  int
	T     float64
	Stats flowgrid.Stats
}

// Recorder keeps the last capacity snapshots and a running
// convergence check over total absolute divergence, the way
// SteadyStateConvergenceCheck tracks a running sum of mass across
// iterations and flags when consecutive sums stop changing.
type Recorder struct {
	log      logrus.FieldLogger
	capacity int
	ring     []Snapshot

	lastDivSum float64
	haveLast   bool
	Converged  bool

	// ConvergenceTolerance is the maximum change in total absolute
	// divergence between steps still considered converged.
	ConvergenceTolerance float64
}

// NewRecorder returns a Recorder holding up to capacity snapshots.
func NewRecorder(capacity int, log logrus.FieldLogger) *Recorder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Recorder{
		log:                  log,
		capacity:             capacity,
		ConvergenceTolerance: 1e-4,
	}
}

// ComputeStats reads g's own Stats pair, populated by the grid's most
// recent incompressibility solve (SolveIncompressibilitySequential /
// SolveIncompressibilityParallel call Grid.ComputeStats internally, the
// same call site as Rust's solve_incompressibility -> compute_stats).
// Telemetry is a read-only consumer of that field, not a second
// independent accumulator.
func ComputeStats(g *flowgrid.Grid) flowgrid.Stats {
	return g.Stats[0]
}

// Record computes g's current Stats, appends a Snapshot, and updates the
// running convergence check.
func (r *Recorder) Record(step int, t float64, g *flowgrid.Grid) Snapshot {
	stats := ComputeStats(g)
	snap := Snapshot{Step: step, T: t, Stats: stats}

	r.ring = append(r.ring, snap)
	if len(r.ring) > r.capacity {
		r.ring = r.ring[len(r.ring)-r.capacity:]
	}

	divSum := math.Abs(stats.MaxDiv) + math.Abs(stats.MinDiv)
	if r.haveLast {
		r.Converged = math.Abs(divSum-r.lastDivSum) < r.ConvergenceTolerance
	}
	r.lastDivSum = divSum
	r.haveLast = true

	r.log.WithFields(logrus.Fields{
		"step":      step,
		"t":         t,
		"maxSpeed":  stats.MaxSpeed,
		"maxSmoke":  stats.MaxSmoke,
		"converged": r.Converged,
	}).Debug("recorded step stats")

	return snap
}

// Latest returns the most recent Snapshot, or the zero value if none have
// been recorded.
func (r *Recorder) Latest() Snapshot {
	if len(r.ring) == 0 {
		return Snapshot{}
	}
	return r.ring[len(r.ring)-1]
}

// Report renders a one-line text summary of the latest snapshot, in the
// same spirit as visualization.rs's per-frame stats text line.
func (r *Recorder) Report() string {
	s := r.Latest()
	return fmt.Sprintf("step=%d t=%.4f speed=[%.4f,%.4f] pressure=[%.4f,%.4f] smoke=[%.4f,%.4f] converged=%v",
		s.Step, s.T,
		s.Stats.MinSpeed, s.Stats.MaxSpeed,
		s.Stats.MinPressure, s.Stats.MaxPressure,
		s.Stats.MinSmoke, s.Stats.MaxSmoke,
		r.Converged,
	)
}
