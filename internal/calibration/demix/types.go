package demix

import (
	"isac-cran-system/internal/calibration/mixing"
	"isac-cran-system/internal/calibration/solvedata"
)

// SolveSlot is one solve-resolution time slot's fully averaged,
// phase-shifted, per-direction data plus its finalised mixing tensor
// — the output of step 1/2 of spec §4.10 (phase-shift/average fan-out
// plus C8 accumulation), already deprojected by the time it reaches
// the solver (step C9 runs between Builder.Finalize and here).
type SolveSlot struct {
	// PerDirectionVisibility[baseline][channel] holds the averaged,
	// phase-shifted visibility vector across directions for one cell;
	// index order matches mixing.Tensor's direction indexing.
	PerDirectionVisibility [][][]complex128
	MixingTensor           [][]*mixing.Tensor // [baseline][channel]
}

// SubtractSlot is one subtract-resolution time slot: the unfiltered
// residual buffer to subtract predicted model contributions from, and
// its own (coarser-cadence) mixing tensor.
type SubtractSlot struct {
	Residual     *solvedata.ChannelBlock // reuses the Observed cube as the running residual
	MixingTensor [][]*mixing.Tensor      // [baseline][channel]
	// ModelByDirection[dir] is the re-simulated (or reused) model
	// visibility at subtract resolution for the direction being
	// subtracted, same shape as Residual.Observed.
	ModelByDirection [][][][]solvedata.Sample
}

// Chunk bundles N_time_chunk solve-resolution slots and the subtract-
// resolution slots nested inside them (spec §4.10 step 5: "iterate
// over all subtract-resolution slots that fall inside it").
type Chunk struct {
	SolveSlots         []SolveSlot
	SubtractSlots      [][]SubtractSlot // per solve-slot, its nested subtract-resolution slots
	BaselineSelection  []bool           // true = selected (kept in the filtered buffer); nil = no selection active
	SubtractDirections []int            // direction indices whose contribution is removed
	TargetDirection    int
}
