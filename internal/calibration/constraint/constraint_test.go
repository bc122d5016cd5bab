package constraint

import (
	"math"
	"math/cmplx"
	"testing"

	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/calibration/solvedata"
)

func TestNewAntennaGroupRejectsSingletonGroup(t *testing.T) {
	if _, err := NewAntennaGroup([][]int{{0}}); err == nil {
		t.Fatal("expected an error for a size-1 antenna group")
	}
}

func TestAntennaGroupAveragesGroupMembers(t *testing.T) {
	ag, err := NewAntennaGroup([][]int{{0, 1}})
	if err != nil {
		t.Fatalf("NewAntennaGroup returned error: %v", err)
	}
	b := gain.NewBlock(solvedata.Scalar, 1, 2, nil)
	b.Set(0, 0, 0, 0, complex(2, 0))
	b.Set(0, 0, 1, 0, complex(4, 0))

	res := ag.Apply(b, 0)
	if !res.Stable {
		t.Error("AntennaGroup should always report stable")
	}
	want := complex(3, 0)
	if b.Get(0, 0, 0, 0) != want || b.Get(0, 0, 1, 0) != want {
		t.Errorf("group members = (%v, %v), want both %v", b.Get(0, 0, 0, 0), b.Get(0, 0, 1, 0), want)
	}
}

func TestNewCoreStationEmptyWhenRadiusNonPositive(t *testing.T) {
	ag, err := NewCoreStation([]float64{1, 2, 3}, 0)
	if err != nil {
		t.Fatalf("NewCoreStation returned error: %v", err)
	}
	if len(ag.Groups) != 0 {
		t.Error("a non-positive radius should produce no groups")
	}
}

func TestNewCoreStationGroupsWithinRadius(t *testing.T) {
	ag, err := NewCoreStation([]float64{1, 2, 100}, 5)
	if err != nil {
		t.Fatalf("NewCoreStation returned error: %v", err)
	}
	if len(ag.Groups) != 1 || len(ag.Groups[0]) != 2 {
		t.Fatalf("expected one group of 2 antennas within radius, got %v", ag.Groups)
	}
}

func TestNewCoreStationSkipsSoleMember(t *testing.T) {
	ag, err := NewCoreStation([]float64{1, 100, 100}, 5)
	if err != nil {
		t.Fatalf("NewCoreStation returned error: %v", err)
	}
	if len(ag.Groups) != 0 {
		t.Error("a single antenna within radius should not form a group")
	}
}

func TestPhaseReferenceZeroesReferencePhase(t *testing.T) {
	b := gain.NewBlock(solvedata.Scalar, 1, 2, nil)
	b.Set(0, 0, 0, 0, cmplx.Rect(1, 0.7))
	b.Set(0, 0, 1, 0, cmplx.Rect(2, 1.1))

	p := &PhaseReference{ReferenceAntenna: 0}
	res := p.Apply(b, 0)
	if !res.Stable {
		t.Error("PhaseReference should always report stable")
	}

	if math.Abs(cmplx.Phase(b.Get(0, 0, 0, 0))) > 1e-9 {
		t.Errorf("reference antenna phase = %v, want 0", cmplx.Phase(b.Get(0, 0, 0, 0)))
	}
	wantOtherPhase := 1.1 - 0.7
	gotOtherPhase := cmplx.Phase(b.Get(0, 0, 1, 0))
	if math.Abs(gotOtherPhase-wantOtherPhase) > 1e-9 {
		t.Errorf("other antenna phase = %v, want %v", gotOtherPhase, wantOtherPhase)
	}
}

func TestPhaseReferenceSkipsZeroReference(t *testing.T) {
	b := gain.NewBlock(solvedata.Scalar, 1, 1, nil)
	b.Set(0, 0, 0, 0, 0)
	p := &PhaseReference{ReferenceAntenna: 0}
	res := p.Apply(b, 0)
	if !res.Stable {
		t.Error("PhaseReference should report stable even when skipping a zero reference")
	}
	if b.Get(0, 0, 0, 0) != 0 {
		t.Error("a zero reference gain should be left untouched, not rotated")
	}
}

func TestDiagonalProjectionZeroesOffDiagonal(t *testing.T) {
	b := gain.NewBlock(solvedata.FullJones, 1, 1, nil)
	b.Set(0, 0, 0, 1, complex(0.3, 0.1))
	b.Set(0, 0, 0, 2, complex(0.2, -0.1))

	dp := DiagonalProjection{}
	dp.Apply(b, 0)

	if b.Get(0, 0, 0, 1) != 0 || b.Get(0, 0, 0, 2) != 0 {
		t.Error("DiagonalProjection should zero the XY and YX entries")
	}
	if b.Get(0, 0, 0, 0) != 1 || b.Get(0, 0, 0, 3) != 1 {
		t.Error("DiagonalProjection should leave the diagonal entries untouched")
	}
}

func TestDiagonalProjectionNoopOutsideFullJones(t *testing.T) {
	b := gain.NewBlock(solvedata.Scalar, 1, 1, nil)
	b.Set(0, 0, 0, 0, complex(5, 5))
	dp := DiagonalProjection{}
	res := dp.Apply(b, 0)
	if !res.Stable {
		t.Error("DiagonalProjection should report stable for non-FullJones shapes")
	}
	if b.Get(0, 0, 0, 0) != complex(5, 5) {
		t.Error("DiagonalProjection must not touch a non-FullJones block")
	}
}

func TestChainApplyReportsUnstableFromAnyMember(t *testing.T) {
	b := gain.NewBlock(solvedata.Scalar, 1, 1, nil)
	chain := NewChain(alwaysStable{}, alwaysUnstable{})
	stable, _ := chain.Apply(b, 0)
	if stable {
		t.Error("Chain.Apply should report unstable if any member reports unstable")
	}
}

type alwaysStable struct{}

func (alwaysStable) Apply(block *gain.Block, _ int) Result { return Result{Stable: true} }

type alwaysUnstable struct{}

func (alwaysUnstable) Apply(block *gain.Block, _ int) Result { return Result{Stable: false} }

func TestRotationDiagonalLeavesAlreadyDiagonalUnchanged(t *testing.T) {
	b := gain.NewBlock(solvedata.FullJones, 1, 1, nil)
	b.Set(0, 0, 0, 0, complex(3, 0))
	b.Set(0, 0, 0, 3, complex(4, 0))

	r := &RotationDiagonal{}
	res := r.Apply(b, 0)
	if !res.Stable {
		t.Error("RotationDiagonal should always report stable")
	}
	if b.Get(0, 0, 0, 0) != complex(3, 0) || b.Get(0, 0, 0, 3) != complex(4, 0) {
		t.Errorf("an already-diagonal block should be a fixed point, got xx=%v yy=%v", b.Get(0, 0, 0, 0), b.Get(0, 0, 0, 3))
	}
	if b.Get(0, 0, 0, 1) != 0 || b.Get(0, 0, 0, 2) != 0 {
		t.Error("RotationDiagonal should zero the off-diagonal entries")
	}
}

func TestRotationDiagonalOnlyIgnoresRotationAngle(t *testing.T) {
	b := gain.NewBlock(solvedata.FullJones, 1, 1, nil)
	b.Set(0, 0, 0, 0, complex(3, 0))
	b.Set(0, 0, 0, 1, complex(1, 0))
	b.Set(0, 0, 0, 2, complex(2, 0))
	b.Set(0, 0, 0, 3, complex(4, 0))

	r := &RotationDiagonal{DiagonalOnly: true}
	r.Apply(b, 0)

	if b.Get(0, 0, 0, 0) != complex(3, 0) || b.Get(0, 0, 0, 3) != complex(4, 0) {
		t.Errorf("DiagonalOnly should keep the existing diagonal, got xx=%v yy=%v", b.Get(0, 0, 0, 0), b.Get(0, 0, 0, 3))
	}
	if b.Get(0, 0, 0, 1) != 0 || b.Get(0, 0, 0, 2) != 0 {
		t.Error("DiagonalOnly should still zero the off-diagonal entries")
	}
}

func TestSmoothnessSequencePreservesConstantInput(t *testing.T) {
	sm := &Smoothness{Bandwidth: 2, ChannelFreqs: []float64{100, 101, 102, 103}}
	in := []complex128{cmplx.Rect(1.5, 0.3), cmplx.Rect(1.5, 0.3), cmplx.Rect(1.5, 0.3), cmplx.Rect(1.5, 0.3)}

	out := sm.SmoothSequence(in)
	for i, v := range out {
		if cmplx.Abs(v-in[i]) > 1e-9 {
			t.Errorf("index %d: smoothing a constant sequence changed it: got %v, want %v", i, v, in[i])
		}
	}
}

func TestSmoothnessSmoothAppliesAcrossBlocks(t *testing.T) {
	freqs := []float64{100, 110, 120}
	blocks := make([]*gain.Block, len(freqs))
	value := cmplx.Rect(2, -0.4)
	for i := range blocks {
		blocks[i] = gain.NewBlock(solvedata.Scalar, 1, 1, nil)
		blocks[i].Set(0, 0, 0, 0, value)
	}

	sm := &Smoothness{Bandwidth: 5, ChannelFreqs: freqs}
	sm.Smooth(blocks)

	for i, b := range blocks {
		if got := b.Get(0, 0, 0, 0); cmplx.Abs(got-value) > 1e-9 {
			t.Errorf("block %d: expected constant value preserved, got %v", i, got)
		}
	}
}

func TestSmoothnessSmoothNoopOnBlockCountMismatch(t *testing.T) {
	blocks := []*gain.Block{gain.NewBlock(solvedata.Scalar, 1, 1, nil)}
	original := blocks[0].Get(0, 0, 0, 0)

	sm := &Smoothness{Bandwidth: 5, ChannelFreqs: []float64{100, 110}}
	sm.Smooth(blocks)

	if blocks[0].Get(0, 0, 0, 0) != original {
		t.Error("Smooth should leave blocks untouched when the block count does not match ChannelFreqs")
	}
}

func TestTECPhaseFitAntennaRecoversExactCurve(t *testing.T) {
	freqs := []float64{1.0e8, 1.2e8, 1.5e8, 2.0e8}
	tec := &TECPhase{ChannelFreqs: freqs, WithPhaseTerm: true, Tolerance: 1e-6}

	const trueTEC = 0.05
	const truePhaseOffset = 0.2
	const amp = 1.7
	phases := make([]complex128, len(freqs))
	for i, f := range freqs {
		phase := trueTEC*tecConstant/f + truePhaseOffset
		phases[i] = cmplx.Rect(amp, phase)
	}

	fitted, residual := tec.FitAntenna(phases)
	if residual > 1e-9 {
		t.Errorf("expected near-zero residual fitting a noiseless TEC curve, got %v", residual)
	}
	for i, f := range fitted {
		if cmplx.Abs(f-phases[i]) > 1e-6 {
			t.Errorf("channel %d: fitted phase %v diverges from input %v", i, f, phases[i])
		}
	}
}

func TestTECPhaseFitWritesBackAcrossBlocks(t *testing.T) {
	freqs := []float64{1.0e8, 1.5e8, 2.0e8}
	blocks := make([]*gain.Block, len(freqs))
	const trueTEC = 0.03
	for i, f := range freqs {
		blocks[i] = gain.NewBlock(solvedata.Scalar, 1, 1, nil)
		blocks[i].Set(0, 0, 0, 0, cmplx.Rect(1, trueTEC*tecConstant/f))
	}

	tec := &TECPhase{ChannelFreqs: freqs, Tolerance: 1e-6}
	stable := tec.Fit(blocks)
	if !stable {
		t.Error("expected a noiseless TEC curve to fit within tolerance")
	}
	for i, b := range blocks {
		want := trueTEC * tecConstant / freqs[i]
		got := cmplx.Phase(b.Get(0, 0, 0, 0))
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("block %d: fitted phase %v, want %v", i, got, want)
		}
	}
}
