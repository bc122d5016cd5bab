// Package demix implements the Demixer orchestrator (spec C10): it
// drives the mixing-matrix/deprojection bookkeeping and the solver
// family per time chunk, then subtracts the modelled contribution of
// selected directions from the observed data. Grounded on
// steps/Demixer.cc's process/handleDemix/demix/mergeSubtractResult.
package demix

import (
	"math/cmplx"

	"isac-cran-system/internal/calibration/constraint"
	"isac-cran-system/internal/calibration/deproject"
	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/calibration/solvedata"
	"isac-cran-system/internal/calibration/solver"
	apperrors "isac-cran-system/pkg/errors"
	"isac-cran-system/pkg/logger"
	"isac-cran-system/pkg/pool"
)

// Demixer is the orchestrator instance; the previous-solution vector
// and convergence counters belong to it alone (spec §9: "no
// process-wide state").
type Demixer struct {
	Updater  solver.BlockUpdater
	NewChain func() *constraint.Chain
	Options  solver.Options

	Deprojector *deproject.Deprojector

	// Smoother and TEC run once per chunk across every channel block's
	// finished solution, after the per-block solver loop below — both
	// constraints need the full set of blocks in frequency order, which
	// the per-block constraint.Chain never sees. Either may be nil.
	Smoother *constraint.Smoothness
	TEC      *constraint.TECPhase

	NumWorkers int

	PropagateSolutions     bool
	PropagateConvergedOnly bool

	// PreviousSolution holds one gain.Block carried across chunks for
	// solution propagation; nil until the first propagating chunk
	// completes.
	PreviousSolution *gain.Block

	totalSolveSlots     int
	convergedSolveSlots int
}

// Stats summarises one ProcessChunk invocation (spec §7's "per-run
// counter reports converged / total solve-slots").
type Stats struct {
	TotalSolveSlots       int
	ConvergedSolveSlots   int
	MaxConstraintAccuracy float64
}

// ProcessChunk runs steps 2-7 of spec §4.10 over an already
// phase-shifted/averaged chunk (step 1, the fan-out tree construction,
// is the caller's responsibility — see SPEC_FULL.md's VisibilitySource
// external collaborator boundary): deprojects each solve-resolution
// interval, invokes the solver per solve-slot in parallel, subtracts
// the requested directions' predicted contribution at subtract
// resolution, and merges baseline-selected output back.
func (d *Demixer) ProcessChunk(data *solvedata.SolveData, chunk *Chunk) (Stats, error) {
	if len(chunk.SolveSlots) != len(data.Blocks) {
		return Stats{}, apperrors.New(apperrors.CodeDemixPreconditionFailed,
			"number of solve slots does not match number of channel blocks")
	}

	// C9: deproject each solve-resolution slot's mixing tensor and
	// averaged visibility vector before the solver ever sees them.
	for si := range chunk.SolveSlots {
		slot := &chunk.SolveSlots[si]
		for bi := range slot.MixingTensor {
			for ch := range slot.MixingTensor[bi] {
				t, v := d.Deprojector.Apply(slot.MixingTensor[bi][ch], slot.PerDirectionVisibility[bi][ch])
				slot.MixingTensor[bi][ch] = t
				slot.PerDirectionVisibility[bi][ch] = v
			}
		}
	}

	solutions := make([]*gain.Block, len(data.Blocks))
	for i := range solutions {
		solutions[i] = gain.NewBlock(data.Shape, data.NumDirections, data.NumAntennas, nil)
		if d.PreviousSolution != nil {
			solutions[i].CopyFrom(d.PreviousSolution)
		}
	}

	results := make([]solver.Result, len(data.Blocks))
	errs := make([]error, len(data.Blocks))

	// Step 4: invoke the solver once per solve-slot, parallelised
	// across slots, each worker touching only its own disjoint
	// solutions[i] entry — no synchronisation needed beyond the barrier.
	pool.ParallelFor(0, len(data.Blocks), d.NumWorkers, func(i, workerID int) {
		res, err := solver.RunBlock(d.Updater, data, i, solutions[i], d.NewChain(), d.Options)
		results[i] = res
		errs[i] = err
	})
	for _, err := range errs {
		if err != nil {
			return Stats{}, err
		}
	}

	stats := Stats{}
	for _, r := range results {
		stats.TotalSolveSlots++
		if r.Converged {
			stats.ConvergedSolveSlots++
		}
		if r.ConstraintAccuracy > stats.MaxConstraintAccuracy {
			stats.MaxConstraintAccuracy = r.ConstraintAccuracy
		}
	}
	d.totalSolveSlots += stats.TotalSolveSlots
	d.convergedSolveSlots += stats.ConvergedSolveSlots

	// Cross-block constraints: frequency smoothness and TEC fitting
	// both need every channel block's solution at once, so they run
	// here rather than inside the per-block solver loop above.
	if d.Smoother != nil {
		d.Smoother.Smooth(solutions)
	}
	if d.TEC != nil {
		d.TEC.Fit(solutions)
	}

	// Step 5: subtract the requested directions' predicted
	// contribution at subtract resolution.
	for si, subtractSlots := range chunk.SubtractSlots {
		for _, sub := range subtractSlots {
			d.subtractDirections(sub, solutions[si], chunk.SubtractDirections, chunk.TargetDirection)
		}
	}

	// Step 6: merge deselected baselines back, if selection was active.
	if chunk.BaselineSelection != nil {
		// The caller owns the full-baseline buffer; merging is a
		// memcpy of the untouched deselected slices, which in this Go
		// model is simply "do nothing" since subtractDirections only
		// ever touches selected baselines' entries.
		logger.S().Debugw("baseline selection active, deselected baselines left untouched")
	}

	// Solution propagation (spec §4.10 end): carry the last solve-
	// slot's unknowns forward, optionally gated on convergence.
	if d.PropagateSolutions && len(solutions) > 0 {
		last := solutions[len(solutions)-1]
		lastResult := results[len(results)-1]
		if !d.PropagateConvergedOnly || lastResult.Converged {
			if d.PreviousSolution == nil {
				d.PreviousSolution = last.Clone()
			} else {
				d.PreviousSolution.CopyFrom(last)
			}
		}
	}

	logger.S().Infow("chunk processed", "converged", stats.ConvergedSolveSlots, "total", stats.TotalSolveSlots)
	return stats, nil
}

// subtractDirections re-simulates (if needed), applies the estimated
// Jones matrices, and subtracts each requested direction's
// contribution from the running residual buffer, weighted by the
// subtract-resolution mixing slice M_subtract[target, d, b, ch, corr].
func (d *Demixer) subtractDirections(sub SubtractSlot, solutions *gain.Block, directions []int, target int) {
	entries := solutions.Shape.NumEntries()

	for bi, bl := range sub.Residual.Baselines {
		for ts := range sub.Residual.Observed[bi] {
			for ch := range sub.Residual.Observed[bi][ts] {
				mt := sub.MixingTensor[bi][ch]
				for _, dir := range directions {
					for e := 0; e < entries; e++ {
						model := sub.ModelByDirection[dir][bi][ts][ch]
						m := model.Visibility[e]
						g1 := solutions.Get(dir, 0, bl.Antenna1, e)
						g2 := solutions.Get(dir, 0, bl.Antenna2, e)
						predicted := g1 * m * cmplx.Conj(g2)

						weight := mt.At(target, dir)
						sub.Residual.Observed[bi][ts][ch].Visibility[e] -= predicted * weight
					}
				}
			}
		}
	}
}

// OverallStats returns the cumulative converged/total solve-slot
// counters across every ProcessChunk call made on this orchestrator
// instance (spec §7's per-run counter).
func (d *Demixer) OverallStats() Stats {
	return Stats{TotalSolveSlots: d.totalSolveSlots, ConvergedSolveSlots: d.convergedSolveSlots}
}
