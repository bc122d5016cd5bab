package solver

import (
	"isac-cran-system/internal/calibration/constraint"
	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/calibration/solvedata"
)

// Child is one member of a Hybrid sequence: an updater plus its own
// iteration options (typically its own max_iterations).
type Child struct {
	Updater BlockUpdater
	Options Options
}

// Hybrid holds an ordered list of child solvers (spec C7). It runs
// them in order, feeding child i's final solution as child i+1's
// initial guess. Total iteration count is the sum across children;
// the final convergence flag is that of the last child. Typical
// composition: a fast DirectionIterative solver to approach the
// basin, then a DirectionSolve solver to polish.
type Hybrid struct {
	Children []Child
}

func (h *Hybrid) RunBlock(data *solvedata.SolveData, blockIndex int, current *gain.Block, chain *constraint.Chain) (Result, error) {
	total := Result{}
	for _, child := range h.Children {
		r, err := RunBlock(child.Updater, data, blockIndex, current, chain, child.Options)
		if err != nil {
			return total, err
		}
		total.Iterations += r.Iterations
		total.Converged = r.Converged
		total.ConstraintAccuracy = r.ConstraintAccuracy
	}
	return total, nil
}
