package gain

import (
	"testing"

	"isac-cran-system/internal/calibration/solvedata"
)

func TestNewBlockIsIdentityScalar(t *testing.T) {
	b := NewBlock(solvedata.Scalar, 2, 3, nil)
	for d := 0; d < 2; d++ {
		for ant := 0; ant < 3; ant++ {
			if b.Get(d, 0, ant, 0) != 1 {
				t.Errorf("scalar identity at (%d,_,%d,0) = %v, want 1", d, ant, b.Get(d, 0, ant, 0))
			}
		}
	}
}

func TestNewBlockIsIdentityFullJones(t *testing.T) {
	b := NewBlock(solvedata.FullJones, 1, 1, nil)
	want := []complex128{1, 0, 0, 1}
	for e, w := range want {
		if b.Get(0, 0, 0, e) != w {
			t.Errorf("full-Jones identity entry %d = %v, want %v", e, b.Get(0, 0, 0, e), w)
		}
	}
}

func TestBlockSubIntervalsDefaultToOne(t *testing.T) {
	b := NewBlock(solvedata.Scalar, 3, 2, nil)
	for _, si := range b.SubIntervals {
		if si != 1 {
			t.Errorf("default sub-interval count = %d, want 1", si)
		}
	}
}

func TestBlockSubIntervalsHonoursOverride(t *testing.T) {
	b := NewBlock(solvedata.Scalar, 2, 2, []int{3, 1})
	if b.SubIntervals[0] != 3 || b.SubIntervals[1] != 1 {
		t.Fatalf("sub-intervals = %v, want [3 1]", b.SubIntervals)
	}
	// Direction 0 gets 3 independent sub-interval slots per antenna.
	b.Set(0, 2, 0, 0, complex(5, 0))
	if b.Get(0, 2, 0, 0) != complex(5, 0) {
		t.Error("Set/Get round-trip failed for a non-default sub-interval index")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBlock(solvedata.Scalar, 1, 1, nil)
	c := b.Clone()
	c.Set(0, 0, 0, 0, complex(2, 0))
	if b.Get(0, 0, 0, 0) == c.Get(0, 0, 0, 0) {
		t.Error("mutating a clone should not affect the original block")
	}
}

func TestCopyFromOverwritesValues(t *testing.T) {
	a := NewBlock(solvedata.Scalar, 1, 1, nil)
	b := NewBlock(solvedata.Scalar, 1, 1, nil)
	b.Set(0, 0, 0, 0, complex(9, 9))
	a.CopyFrom(b)
	if a.Get(0, 0, 0, 0) != complex(9, 9) {
		t.Error("CopyFrom should overwrite destination values with source values")
	}
}

func TestRelativeChangeZeroForIdenticalBlocks(t *testing.T) {
	a := NewBlock(solvedata.Scalar, 2, 2, nil)
	b := a.Clone()
	if rc := b.RelativeChange(a); rc != 0 {
		t.Errorf("RelativeChange between identical blocks = %v, want 0", rc)
	}
}

func TestRelativeChangeNonzeroAfterPerturbation(t *testing.T) {
	a := NewBlock(solvedata.Scalar, 1, 1, nil)
	b := a.Clone()
	b.Set(0, 0, 0, 0, complex(2, 0))
	if rc := b.RelativeChange(a); rc <= 0 {
		t.Errorf("RelativeChange after perturbation = %v, want > 0", rc)
	}
}
