// Package solver implements the shared iteration driver (SolverBase,
// spec C4) and the concrete solver families built on top of it:
// direction-solve (C5), direction-iterative (C6) and hybrid (C7).
package solver

import (
	"math"

	"isac-cran-system/internal/calibration/constraint"
	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/calibration/solvedata"
	"isac-cran-system/pkg/logger"
	"isac-cran-system/pkg/pool"
)

// Result is the outcome of running a solver over one channel block.
type Result struct {
	Iterations         int
	Converged          bool
	ConstraintAccuracy float64
}

// Options configures SolverBase's loop (spec §4.4 and the ddecal
// configuration table in §6).
type Options struct {
	Tolerance      float64
	StepSize       float64 // damping factor alpha in (0,1]; 0 freezes gains (see DESIGN.md open question a)
	MaxIterations  int
	MinIterations  int
	DetectStalling bool
	StallWindow    int // consecutive non-decreasing steps before declaring a stall; default 3

	FlagUnconverged  bool
	FlagDivergedOnly bool
}

func (o Options) withDefaults() Options {
	if o.StallWindow <= 0 {
		o.StallWindow = 3
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 50
	}
	return o
}

// BlockUpdater computes one proposed, undamped update for a single
// channel block given the current solution estimate; C5 and C6 each
// provide their own implementation of this hook.
type BlockUpdater interface {
	ComputeUpdate(data *solvedata.SolveData, blockIndex int, current *gain.Block) (*gain.Block, error)
}

// RunBlock executes the SolverBase loop (damp -> constrain -> converge
// test) for a single channel block, mutating current in place.
func RunBlock(updater BlockUpdater, data *solvedata.SolveData, blockIndex int, current *gain.Block, chain *constraint.Chain, opts Options) (Result, error) {
	opts = opts.withDefaults()
	alpha := complex(opts.StepSize, 0)

	history := make([]float64, 0, opts.MaxIterations)
	iter := 0
	converged := false
	var constraintAccuracy float64

	for ; iter < opts.MaxIterations; iter++ {
		proposed, err := updater.ComputeUpdate(data, blockIndex, current)
		if err != nil {
			return Result{Iterations: iter, Converged: false}, err
		}

		old := current.Clone()
		for i := range current.Values {
			current.Values[i] = (1-alpha)*old.Values[i] + alpha*proposed.Values[i]
		}

		stable, stats := chain.Apply(current, iter)
		constraintAccuracy = lastAccuracy(stats, constraintAccuracy)

		change := current.RelativeChange(old)
		history = append(history, change)

		if opts.DetectStalling && isStalling(history, opts.StallWindow) {
			logger.S().Debugw("solver stalled", "block", blockIndex, "iteration", iter, "change", change)
			break
		}

		if change < opts.Tolerance && stable && iter+1 >= opts.MinIterations {
			converged = true
			iter++
			break
		}
	}

	if !converged {
		applyFailureFlags(current, opts)
	}

	return Result{Iterations: iter, Converged: converged, ConstraintAccuracy: constraintAccuracy}, nil
}

func lastAccuracy(stats []constraint.Stats, fallback float64) float64 {
	if len(stats) == 0 {
		return fallback
	}
	for _, s := range stats {
		for _, vs := range s.Values {
			if len(vs) > 0 {
				return vs[len(vs)-1]
			}
		}
	}
	return fallback
}

// isStalling reports whether the last `window` relative-change values
// are monotonically non-decreasing, which SolverBase treats as a
// stall regardless of max_iterations.
func isStalling(history []float64, window int) bool {
	if len(history) < window+1 {
		return false
	}
	tail := history[len(history)-window-1:]
	for i := 1; i < len(tail); i++ {
		if tail[i] < tail[i-1] {
			return false
		}
	}
	return true
}

// applyFailureFlags implements the numerical-failure surfacing rules
// of spec §4.4/§7: never throw, only flag or retain the last iterate.
func applyFailureFlags(block *gain.Block, opts Options) {
	if !opts.FlagUnconverged && !opts.FlagDivergedOnly {
		return
	}
	nan := complex(math.NaN(), math.NaN())
	for i := range block.Values {
		block.Values[i] = nan
	}
}

// RunAllBlocks runs RunBlock across every channel block in data,
// spread across numWorkers goroutines via pool.ParallelFor since
// channel blocks are embarrassingly parallel (spec §5/§9). Each
// worker only ever touches its own block's Solutions entry, so no
// synchronisation beyond the barrier is required.
func RunAllBlocks(updater BlockUpdater, data *solvedata.SolveData, solutions []*gain.Block, newChain func() *constraint.Chain, opts Options, numWorkers int) ([]Result, error) {
	results := make([]Result, len(data.Blocks))
	errs := make([]error, len(data.Blocks))

	pool.ParallelFor(0, len(data.Blocks), numWorkers, func(i, workerID int) {
		res, err := RunBlock(updater, data, i, solutions[i], newChain(), opts)
		results[i] = res
		errs[i] = err
	})

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	total, converged := 0, 0
	for _, r := range results {
		total++
		if r.Converged {
			converged++
		}
	}
	logger.S().Infow("solver run complete", "converged", converged, "total", total, "workers", numWorkers)
	return results, nil
}
