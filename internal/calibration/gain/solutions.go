// Package gain defines the solution tensor shared by the solver family
// and the constraint plug-ins (spec's "Unknown vector" / "Gain/Jones"
// data model): one complex value per (channel-block, direction,
// antenna, sub-interval, polarisation entry).
package gain

import (
	"math"

	"isac-cran-system/internal/calibration/solvedata"
)

// Block holds one channel block's solutions. Values is flat, indexed
// by index(). SubIntervals[d] gives the sub-interval count for
// direction d (>= 1, defaults to 1); the chunk's solve-resolution
// sub-intervals are divided as evenly as possible across that count.
type Block struct {
	Shape         solvedata.PolarisationShape
	NumDirections int
	NumAntennas   int
	SubIntervals  []int
	Values        []complex128
}

// NewBlock allocates a block initialised to identity gains (diagonal
// entries = 1, off-diagonals = 0, scalar = 1).
func NewBlock(shape solvedata.PolarisationShape, numDirections, numAntennas int, subIntervals []int) *Block {
	si := make([]int, numDirections)
	for d := range si {
		si[d] = 1
		if d < len(subIntervals) && subIntervals[d] > 0 {
			si[d] = subIntervals[d]
		}
	}
	total := 0
	for _, s := range si {
		total += s
	}
	b := &Block{
		Shape:         shape,
		NumDirections: numDirections,
		NumAntennas:   numAntennas,
		SubIntervals:  si,
		Values:        make([]complex128, total*numAntennas*shape.NumEntries()),
	}
	b.SetIdentity()
	return b
}

func (b *Block) entriesPerAntenna() int { return b.Shape.NumEntries() }

// subIntervalOffset returns the flat sub-interval index of direction d
// sub-interval s, counting sub-intervals of earlier directions first.
func (b *Block) subIntervalOffset(d, s int) int {
	off := 0
	for i := 0; i < d; i++ {
		off += b.SubIntervals[i]
	}
	return off + s
}

func (b *Block) index(d, s, ant, entry int) int {
	si := b.subIntervalOffset(d, s)
	return (si*b.NumAntennas+ant)*b.entriesPerAntenna() + entry
}

// Get returns the complex value at (direction, sub-interval, antenna, entry).
func (b *Block) Get(d, s, ant, entry int) complex128 {
	return b.Values[b.index(d, s, ant, entry)]
}

// Set stores the complex value at (direction, sub-interval, antenna, entry).
func (b *Block) Set(d, s, ant, entry int, v complex128) {
	b.Values[b.index(d, s, ant, entry)] = v
}

// SetIdentity resets every antenna's gain to the identity Jones matrix
// for its shape: 1 for scalar, [1,1] for diagonal, [1,0,0,1] for
// full-Jones (XX, XY, YX, YY).
func (b *Block) SetIdentity() {
	n := b.entriesPerAntenna()
	total := len(b.Values) / n
	for i := 0; i < total; i++ {
		base := i * n
		switch b.Shape {
		case solvedata.Scalar:
			b.Values[base] = 1
		case solvedata.Diagonal:
			b.Values[base] = 1
			b.Values[base+1] = 1
		case solvedata.FullJones:
			b.Values[base] = 1
			b.Values[base+1] = 0
			b.Values[base+2] = 0
			b.Values[base+3] = 1
		}
	}
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	out := &Block{
		Shape:         b.Shape,
		NumDirections: b.NumDirections,
		NumAntennas:   b.NumAntennas,
		SubIntervals:  append([]int(nil), b.SubIntervals...),
		Values:        append([]complex128(nil), b.Values...),
	}
	return out
}

// CopyFrom overwrites b's values with src's (shapes must match).
func (b *Block) CopyFrom(src *Block) {
	copy(b.Values, src.Values)
}

// RelativeChange returns ||b - old|| / ||old|| (Frobenius norm over
// all entries), used by SolverBase's per-iteration convergence test.
func (b *Block) RelativeChange(old *Block) float64 {
	var num, den float64
	for i := range b.Values {
		d := b.Values[i] - old.Values[i]
		num += real(d)*real(d) + imag(d)*imag(d)
		den += real(old.Values[i])*real(old.Values[i]) + imag(old.Values[i])*imag(old.Values[i])
	}
	if den == 0 {
		if num == 0 {
			return 0
		}
		return 1
	}
	return math.Sqrt(num / den)
}
