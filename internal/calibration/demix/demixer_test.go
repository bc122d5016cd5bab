package demix

import (
	"context"
	"testing"

	"isac-cran-system/internal/calibration/constraint"
	"isac-cran-system/internal/calibration/deproject"
	"isac-cran-system/internal/calibration/lls"
	"isac-cran-system/internal/calibration/solver"
	"isac-cran-system/internal/calibration/source"
	"isac-cran-system/internal/calibration/solvedata"
)

func newTestDemixer() *Demixer {
	return &Demixer{
		Updater: &solver.DirectionSolve{Method: lls.QR},
		NewChain: func() *constraint.Chain {
			return constraint.NewChain(&constraint.PhaseReference{ReferenceAntenna: 0})
		},
		Options:     solver.Options{Tolerance: 0.1, StepSize: 1, MaxIterations: 5, MinIterations: 1},
		Deprojector: &deproject.Deprojector{},
		NumWorkers:  2,
	}
}

func TestProcessChunkRunsEndToEnd(t *testing.T) {
	src := source.NewSimulatedSource(3, 2, 2, 2, 1, solvedata.Scalar)
	data, chunk, err := src.NextChunk(context.Background())
	if err != nil {
		t.Fatalf("NextChunk returned error: %v", err)
	}

	d := newTestDemixer()
	stats, err := d.ProcessChunk(data, chunk)
	if err != nil {
		t.Fatalf("ProcessChunk returned error: %v", err)
	}
	if stats.TotalSolveSlots != 1 {
		t.Errorf("TotalSolveSlots = %d, want 1", stats.TotalSolveSlots)
	}
}

func TestProcessChunkSubtractsModelFromResidual(t *testing.T) {
	src := source.NewSimulatedSource(3, 2, 2, 2, 1, solvedata.Scalar)
	data, chunk, err := src.NextChunk(context.Background())
	if err != nil {
		t.Fatalf("NextChunk returned error: %v", err)
	}

	d := newTestDemixer()
	if _, err := d.ProcessChunk(data, chunk); err != nil {
		t.Fatalf("ProcessChunk returned error: %v", err)
	}

	residual := chunk.SubtractSlots[0][0].Residual
	found := false
	for bi := range residual.Observed {
		for ts := range residual.Observed[bi] {
			for ch := range residual.Observed[bi][ts] {
				if residual.Observed[bi][ts][ch].Visibility[0] != 0 {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("expected subtraction to leave a nonzero residual visibility somewhere in the block")
	}
}

func TestProcessChunkRejectsSlotBlockMismatch(t *testing.T) {
	src := source.NewSimulatedSource(2, 1, 1, 1, 1, solvedata.Scalar)
	data, chunk, err := src.NextChunk(context.Background())
	if err != nil {
		t.Fatalf("NextChunk returned error: %v", err)
	}
	chunk.SolveSlots = append(chunk.SolveSlots, chunk.SolveSlots[0])

	d := newTestDemixer()
	if _, err := d.ProcessChunk(data, chunk); err == nil {
		t.Fatal("expected an error when solve-slot count does not match channel-block count")
	}
}

func TestProcessChunkPropagatesSolutionsAcrossCalls(t *testing.T) {
	src := source.NewSimulatedSource(3, 1, 1, 2, 2, solvedata.Scalar)
	d := newTestDemixer()
	d.PropagateSolutions = true

	for i := 0; i < 2; i++ {
		data, chunk, err := src.NextChunk(context.Background())
		if err != nil {
			t.Fatalf("NextChunk returned error: %v", err)
		}
		if _, err := d.ProcessChunk(data, chunk); err != nil {
			t.Fatalf("ProcessChunk returned error on chunk %d: %v", i, err)
		}
	}

	if d.PreviousSolution == nil {
		t.Fatal("expected PreviousSolution to be populated once PropagateSolutions is set")
	}

	overall := d.OverallStats()
	if overall.TotalSolveSlots != 2 {
		t.Errorf("OverallStats().TotalSolveSlots = %d, want 2 (one per chunk)", overall.TotalSolveSlots)
	}
}
