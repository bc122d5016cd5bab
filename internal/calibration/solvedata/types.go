// Package solvedata holds the read-only per-channel-block view of
// observed and per-direction model visibilities that the solver family
// consumes (SolveData, spec component C1).
package solvedata

// PolarisationShape selects how many complex entries a Jones matrix
// carries in its transport form; interior storage is always 2x2.
type PolarisationShape int

const (
	Scalar PolarisationShape = iota
	Diagonal
	FullJones
)

// ParseShape maps a request/config string onto a PolarisationShape,
// defaulting to Scalar.
func ParseShape(s string) PolarisationShape {
	switch s {
	case "diagonal":
		return Diagonal
	case "fulljones":
		return FullJones
	default:
		return Scalar
	}
}

// NumEntries returns the number of complex unknowns per (antenna,
// direction, sub-interval) slot for the given shape.
func (p PolarisationShape) NumEntries() int {
	switch p {
	case Scalar:
		return 1
	case Diagonal:
		return 2
	case FullJones:
		return 4
	default:
		return 1
	}
}

// Baseline is an ordered pair of compacted antenna indices.
type Baseline struct {
	Antenna1 int
	Antenna2 int
}

// Sample is one (time, channel, correlation) observed visibility with
// its companion weight and flag. Correlation count is fixed at 4.
type Sample struct {
	Visibility [4]complex128
	Weight     [4]float64
	Flag       [4]bool
}

// ChannelBlock is a contiguous run of solver-resolution channels
// treated as one independent-gain unit.
type ChannelBlock struct {
	FirstChannel int
	NumChannels  int

	// Baselines lists, in order, the baselines that have at least one
	// unflagged sample somewhere in this block. Baselines with zero
	// unflagged samples are dropped from the block entirely.
	Baselines []Baseline

	// Observed[baselineIndex][timeSlot][channel] is the observed
	// visibility/weight/flag for that baseline within the block.
	Observed [][][]Sample

	// Model[direction][baselineIndex][timeSlot][channel] is the
	// per-direction model visibility for that baseline.
	Model [][][][]Sample
}

// SolveData is the read-only view handed to a solver for one chunk: a
// set of independent channel blocks plus the direction/antenna shape
// metadata the solver needs to size its unknown vectors.
type SolveData struct {
	NumAntennas  int
	NumDirections int
	Shape        PolarisationShape
	Blocks       []ChannelBlock
}

// NumUnflaggedSamples counts samples in a block with nonzero weight
// across all baselines, time slots and channels — used by callers to
// decide whether a block has any signal to solve for.
func (b *ChannelBlock) NumUnflaggedSamples() int {
	n := 0
	for _, bl := range b.Observed {
		for _, ts := range bl {
			for _, s := range ts {
				for c := 0; c < 4; c++ {
					if !s.Flag[c] && s.Weight[c] > 0 {
						n++
					}
				}
			}
		}
	}
	return n
}
