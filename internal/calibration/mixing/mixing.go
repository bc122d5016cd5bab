// Package mixing implements the MixingMatrixBuilder (spec C8): it
// accumulates weighted inter-direction phase-decorrelation factors
// across input samples and emits the per-interval NxN mixing tensor,
// grounded line-for-line on steps/Demixer.cc's addFactors/makeFactors.
package mixing

import "math/cmplx"

// Tensor is the per-(baseline, output-channel, correlation) NxN
// complex mixing matrix for one solution interval: diagonal entries
// are always 1; M[d1,d0] = conj(M[d0,d1]).
type Tensor struct {
	NumDirections int
	// Values[d0*NumDirections+d1] is the mixing factor from d1 into d0.
	Values []complex128
}

func NewIdentityTensor(numDirections int) *Tensor {
	t := &Tensor{NumDirections: numDirections, Values: make([]complex128, numDirections*numDirections)}
	for d := 0; d < numDirections; d++ {
		t.Values[d*numDirections+d] = 1
	}
	return t
}

func (t *Tensor) At(d0, d1 int) complex128 { return t.Values[d0*t.NumDirections+d1] }
func (t *Tensor) Set(d0, d1 int, v complex128) {
	t.Values[d0*t.NumDirections+d1] = v
}

// pairIndex returns the accumulator slot for the unordered pair
// (d0 < d1), matching Demixer.cc's N_dir*(N_dir-1)/2 packing.
func pairIndex(numDirections, d0, d1 int) int {
	if d0 > d1 {
		d0, d1 = d1, d0
	}
	// Sum of (numDirections-1)+(numDirections-2)+...: offset of rows
	// before d0, plus the column position within row d0.
	offset := 0
	for i := 0; i < d0; i++ {
		offset += numDirections - 1 - i
	}
	return offset + (d1 - d0 - 1)
}

// Builder accumulates phasor products per direction pair across input
// samples for one (baseline, output-channel, correlation) cell until
// an averaging boundary is reached, then emits the full NxN Tensor.
type Builder struct {
	NumDirections int

	numerator   []complex128 // per pair
	weightSum   []float64    // per pair
	anyWeight   bool
}

func NewBuilder(numDirections int) *Builder {
	numPairs := numDirections * (numDirections - 1) / 2
	return &Builder{
		NumDirections: numDirections,
		numerator:     make([]complex128, numPairs),
		weightSum:     make([]float64, numPairs),
	}
}

// Accumulate adds one input sample's contribution. phasor[d] is the
// phase-shift phasor applied to direction d at this sample (identity
// for the target direction, per spec §4.8); weight and flag gate the
// contribution exactly as the observed-visibility weight does.
func (b *Builder) Accumulate(phasor []complex128, weight float64, flagged bool) {
	if flagged || weight <= 0 {
		return
	}
	b.anyWeight = true
	for d0 := 0; d0 < b.NumDirections; d0++ {
		for d1 := d0 + 1; d1 < b.NumDirections; d1++ {
			idx := pairIndex(b.NumDirections, d0, d1)
			b.numerator[idx] += phasor[d0] * cmplx.Conj(phasor[d1]) * complex(weight, 0)
			b.weightSum[idx] += weight
		}
	}
}

// Finalize averages the accumulated numerator by its weight sum,
// expands by symmetry into the full NxN tensor (unit diagonal,
// Hermitian off-diagonal), and clears the accumulator for the next
// interval.
//
// Numerical invariants (spec §4.8): an all-zero-weight block emits
// identity (no coupling measurable); a zero weight sum with nonzero
// numerator (should not occur, but guarded) emits zero for that pair.
func (b *Builder) Finalize() *Tensor {
	t := NewIdentityTensor(b.NumDirections)

	if !b.anyWeight {
		b.reset()
		return t
	}

	for d0 := 0; d0 < b.NumDirections; d0++ {
		for d1 := d0 + 1; d1 < b.NumDirections; d1++ {
			idx := pairIndex(b.NumDirections, d0, d1)
			var mean complex128
			if b.weightSum[idx] > 0 {
				mean = b.numerator[idx] / complex(b.weightSum[idx], 0)
			}
			t.Set(d0, d1, mean)
			t.Set(d1, d0, cmplx.Conj(mean))
		}
	}

	b.reset()
	return t
}

func (b *Builder) reset() {
	for i := range b.numerator {
		b.numerator[i] = 0
		b.weightSum[i] = 0
	}
	b.anyWeight = false
}
