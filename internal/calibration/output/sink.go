// Package output defines the calibration pipeline's persisted-solution
// boundary, decoupling the Demixer/service layer from any one storage
// backend (spec's h5parm/ParmDB external interface).
package output

import (
	"context"

	"isac-cran-system/internal/calibration/gain"
)

// SolutionSink persists one channel block's solved gains for a run.
// internal/repository/mysql.SolutionSink satisfies this structurally.
type SolutionSink interface {
	Write(ctx context.Context, runID string, block *gain.Block) error
}

// NoopSolutionSink discards every write — used by cmd/benchmark and
// tests that only care about convergence behaviour, not persistence.
type NoopSolutionSink struct{}

func (NoopSolutionSink) Write(ctx context.Context, runID string, block *gain.Block) error {
	return nil
}
