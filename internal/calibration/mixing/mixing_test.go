package mixing

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestNewIdentityTensor(t *testing.T) {
	tensor := NewIdentityTensor(3)
	for d0 := 0; d0 < 3; d0++ {
		for d1 := 0; d1 < 3; d1++ {
			want := complex(0.0, 0.0)
			if d0 == d1 {
				want = 1
			}
			if tensor.At(d0, d1) != want {
				t.Errorf("At(%d,%d) = %v, want %v", d0, d1, tensor.At(d0, d1), want)
			}
		}
	}
}

func TestBuilderFinalizeNoWeight(t *testing.T) {
	b := NewBuilder(2)
	tensor := b.Finalize()
	if tensor.At(0, 0) != 1 || tensor.At(1, 1) != 1 {
		t.Fatal("no-weight finalize should emit identity diagonal")
	}
	if tensor.At(0, 1) != 0 {
		t.Errorf("no-weight finalize should emit zero off-diagonal, got %v", tensor.At(0, 1))
	}
}

func TestBuilderAccumulateAndFinalizeIsHermitian(t *testing.T) {
	b := NewBuilder(3)
	phasor := []complex128{
		cmplx.Rect(1, 0.1),
		cmplx.Rect(1, 0.4),
		cmplx.Rect(1, -0.2),
	}
	b.Accumulate(phasor, 1.0, false)
	b.Accumulate(phasor, 2.0, false)

	tensor := b.Finalize()
	for d0 := 0; d0 < 3; d0++ {
		if tensor.At(d0, d0) != 1 {
			t.Errorf("diagonal entry (%d,%d) should stay 1, got %v", d0, d0, tensor.At(d0, d0))
		}
		for d1 := d0 + 1; d1 < 3; d1++ {
			got := tensor.At(d1, d0)
			want := cmplx.Conj(tensor.At(d0, d1))
			if cmplx.Abs(got-want) > 1e-9 {
				t.Errorf("tensor not Hermitian at (%d,%d): got %v want %v", d1, d0, got, want)
			}
		}
	}
}

func TestBuilderAccumulateIgnoresFlaggedAndZeroWeight(t *testing.T) {
	b := NewBuilder(2)
	phasor := []complex128{1, complex(math.Cos(1), math.Sin(1))}
	b.Accumulate(phasor, 1.0, true)  // flagged, ignored
	b.Accumulate(phasor, 0.0, false) // zero weight, ignored

	tensor := b.Finalize()
	if tensor.At(0, 1) != 0 {
		t.Errorf("expected zero mixing factor when every sample is excluded, got %v", tensor.At(0, 1))
	}
}

func TestPairIndexCoversAllUnorderedPairs(t *testing.T) {
	n := 4
	seen := make(map[int]bool)
	for d0 := 0; d0 < n; d0++ {
		for d1 := d0 + 1; d1 < n; d1++ {
			idx := pairIndex(n, d0, d1)
			if seen[idx] {
				t.Fatalf("duplicate pair index %d for (%d,%d)", idx, d0, d1)
			}
			seen[idx] = true
			if pairIndex(n, d1, d0) != idx {
				t.Errorf("pairIndex should be symmetric in argument order for (%d,%d)", d0, d1)
			}
		}
	}
	want := n * (n - 1) / 2
	if len(seen) != want {
		t.Errorf("expected %d distinct pair indices, got %d", want, len(seen))
	}
}
