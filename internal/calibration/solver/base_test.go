package solver

import (
	"testing"

	"isac-cran-system/internal/calibration/constraint"
	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/calibration/solvedata"
)

// constantUpdater always proposes the same fixed gain value, letting
// RunBlock's convergence/stall logic be tested in isolation from any
// particular solver family's numerics.
type constantUpdater struct {
	value complex128
}

func (c *constantUpdater) ComputeUpdate(data *solvedata.SolveData, blockIndex int, current *gain.Block) (*gain.Block, error) {
	proposed := current.Clone()
	for i := range proposed.Values {
		proposed.Values[i] = c.value
	}
	return proposed, nil
}

func newTestBlock() *gain.Block {
	return gain.NewBlock(solvedata.Scalar, 1, 2, nil)
}

func TestRunBlockConvergesWhenUpdateStopsChanging(t *testing.T) {
	current := newTestBlock()
	updater := &constantUpdater{value: 1} // identity block already holds 1s
	chain := constraint.NewChain()
	opts := Options{Tolerance: 1e-6, StepSize: 1, MaxIterations: 10, MinIterations: 1}

	res, err := RunBlock(updater, nil, 0, current, chain, opts)
	if err != nil {
		t.Fatalf("RunBlock returned error: %v", err)
	}
	if !res.Converged {
		t.Fatal("expected convergence when the update equals the current value immediately")
	}
	if res.Iterations != 1 {
		t.Errorf("expected exactly 1 iteration, got %d", res.Iterations)
	}
}

func TestRunBlockHonoursMinIterations(t *testing.T) {
	current := newTestBlock()
	updater := &constantUpdater{value: 1}
	chain := constraint.NewChain()
	opts := Options{Tolerance: 1e-6, StepSize: 1, MaxIterations: 10, MinIterations: 5}

	res, err := RunBlock(updater, nil, 0, current, chain, opts)
	if err != nil {
		t.Fatalf("RunBlock returned error: %v", err)
	}
	if res.Iterations < 5 {
		t.Errorf("expected at least MinIterations=5 iterations, got %d", res.Iterations)
	}
	if !res.Converged {
		t.Error("expected eventual convergence once MinIterations is satisfied")
	}
}

func TestRunBlockStopsAtMaxIterationsWithoutConvergence(t *testing.T) {
	current := newTestBlock()
	// Oscillate so relative change never drops below tolerance.
	updater := &flippingUpdater{even: true}
	chain := constraint.NewChain()
	opts := Options{Tolerance: 1e-9, StepSize: 1, MaxIterations: 4, MinIterations: 1}

	res, err := RunBlock(updater, nil, 0, current, chain, opts)
	if err != nil {
		t.Fatalf("RunBlock returned error: %v", err)
	}
	if res.Converged {
		t.Fatal("an oscillating update should never converge")
	}
	if res.Iterations != 4 {
		t.Errorf("expected to run the full MaxIterations=4, got %d", res.Iterations)
	}
}

// flippingUpdater alternates between two distinct values every call so
// the relative change between consecutive iterations never shrinks.
type flippingUpdater struct {
	even bool
}

func (f *flippingUpdater) ComputeUpdate(data *solvedata.SolveData, blockIndex int, current *gain.Block) (*gain.Block, error) {
	proposed := current.Clone()
	var v complex128 = 1
	if f.even {
		v = 2
	}
	f.even = !f.even
	for i := range proposed.Values {
		proposed.Values[i] = v
	}
	return proposed, nil
}

func TestRunBlockDetectsStalling(t *testing.T) {
	current := newTestBlock()
	updater := &nonDecreasingUpdater{}
	chain := constraint.NewChain()
	opts := Options{Tolerance: 1e-9, StepSize: 1, MaxIterations: 20, MinIterations: 1, DetectStalling: true, StallWindow: 3}

	res, err := RunBlock(updater, nil, 0, current, chain, opts)
	if err != nil {
		t.Fatalf("RunBlock returned error: %v", err)
	}
	if res.Converged {
		t.Fatal("a non-decreasing change sequence should be declared stalled, not converged")
	}
	if res.Iterations >= opts.MaxIterations {
		t.Errorf("stall detection should break before MaxIterations, got %d iterations", res.Iterations)
	}
}

// nonDecreasingUpdater doubles the current value every call, holding
// the relative change at a constant 1.0 so the history never decreases
// and StallWindow's consecutive-non-decrease rule should trip.
type nonDecreasingUpdater struct{}

func (n *nonDecreasingUpdater) ComputeUpdate(data *solvedata.SolveData, blockIndex int, current *gain.Block) (*gain.Block, error) {
	proposed := current.Clone()
	for i := range proposed.Values {
		proposed.Values[i] = current.Values[i] * 2
	}
	return proposed, nil
}
