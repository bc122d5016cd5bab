// Package constraint implements the post-iteration projections a
// solver applies to its current gain estimate every iteration (spec
// component C2): antenna-group averaging, core-station constraint,
// frequency smoothness, phase reference, rotation(+diagonal),
// diagonal projection, and TEC/TEC+phase fitting.
package constraint

import (
	"math"
	"math/cmplx"

	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/calibration/solvedata"
	apperrors "isac-cran-system/pkg/errors"
)

// Stats carries per-iteration diagnostics a constraint may emit (e.g.
// fitted TEC values, phases); nil entries mean "not applicable".
type Stats struct {
	Name   string
	Values map[string][]float64
}

// Result reports whether the constraint considers its own state
// stable; the outer solver will not declare convergence while any
// registered constraint reports false here.
type Result struct {
	Stable bool
	Stats  *Stats
}

// Constraint mutates the solution tensor in place after every solver
// iteration. Implementations must be safe to call once per iteration,
// in registration order.
type Constraint interface {
	Apply(block *gain.Block, stepIndex int) Result
}

// Chain is an ordered, owned list of constraints applied in sequence;
// kept flat rather than a tree for cache locality, matching the
// spec's "prefer flat sum-type dispatch" design note.
type Chain struct {
	constraints []Constraint
}

func NewChain(cs ...Constraint) *Chain {
	return &Chain{constraints: cs}
}

// Apply runs every constraint in order and returns true only if all
// reported stable.
func (c *Chain) Apply(block *gain.Block, stepIndex int) (bool, []Stats) {
	stable := true
	var stats []Stats
	for _, cons := range c.constraints {
		r := cons.Apply(block, stepIndex)
		if !r.Stable {
			stable = false
		}
		if r.Stats != nil {
			stats = append(stats, *r.Stats)
		}
	}
	return stable, stats
}

// AntennaGroup replaces each antenna's gain by the weighted mean gain
// of its group, for every direction/sub-interval/entry slot. Groups of
// size 1 are rejected at construction, mirroring ddecal's
// ReadAntennaConstraint validation.
type AntennaGroup struct {
	// Groups[i] lists antenna indices belonging to group i.
	Groups [][]int
}

func NewAntennaGroup(groups [][]int) (*AntennaGroup, error) {
	for _, g := range groups {
		if len(g) == 1 {
			return nil, apperrors.New(apperrors.CodeInvalidConstraint,
				"antennaconstraint group with a single antenna does not make sense")
		}
	}
	return &AntennaGroup{Groups: groups}, nil
}

func (a *AntennaGroup) Apply(block *gain.Block, _ int) Result {
	entries := block.Shape.NumEntries()
	for d := 0; d < block.NumDirections; d++ {
		for s := 0; s < block.SubIntervals[d]; s++ {
			for _, group := range a.Groups {
				for e := 0; e < entries; e++ {
					var mean complex128
					for _, ant := range group {
						mean += block.Get(d, s, ant, e)
					}
					mean /= complex(float64(len(group)), 0)
					for _, ant := range group {
						block.Set(d, s, ant, e, mean)
					}
				}
			}
		}
	}
	return Result{Stable: true}
}

// CoreStation is AntennaGroup specialised to "all antennas within a
// fixed radius of the array centre form one group", per ddecal's
// coreconstraint key.
func NewCoreStation(distances []float64, radius float64) (*AntennaGroup, error) {
	if radius <= 0 {
		return &AntennaGroup{}, nil
	}
	var group []int
	for ant, dist := range distances {
		if dist <= radius {
			group = append(group, ant)
		}
	}
	if len(group) <= 1 {
		return &AntennaGroup{}, nil
	}
	return &AntennaGroup{Groups: [][]int{group}}, nil
}

// PhaseReference subtracts the phase of a reference antenna from all
// antennas, per direction, leaving amplitudes untouched.
type PhaseReference struct {
	ReferenceAntenna int
}

func (p *PhaseReference) Apply(block *gain.Block, _ int) Result {
	entries := block.Shape.NumEntries()
	for d := 0; d < block.NumDirections; d++ {
		for s := 0; s < block.SubIntervals[d]; s++ {
			for e := 0; e < entries; e++ {
				ref := block.Get(d, s, p.ReferenceAntenna, e)
				if ref == 0 {
					continue
				}
				refPhase := cmplx.Phase(ref)
				rot := cmplx.Exp(complex(0, -refPhase))
				for ant := 0; ant < block.NumAntennas; ant++ {
					block.Set(d, s, ant, e, block.Get(d, s, ant, e)*rot)
				}
			}
		}
	}
	return Result{Stable: true}
}

// DiagonalProjection zeroes the off-diagonal (XY, YX) entries of a
// full-Jones solution, reducing it to an effective diagonal gain.
type DiagonalProjection struct{}

func (DiagonalProjection) Apply(block *gain.Block, _ int) Result {
	if block.Shape != solvedata.FullJones {
		return Result{Stable: true}
	}
	for d := 0; d < block.NumDirections; d++ {
		for s := 0; s < block.SubIntervals[d]; s++ {
			for ant := 0; ant < block.NumAntennas; ant++ {
				block.Set(d, s, ant, 1, 0)
				block.Set(d, s, ant, 2, 0)
			}
		}
	}
	return Result{Stable: true}
}

// RotationDiagonal reduces a full-Jones solution to a rotation angle
// plus diagonal amplitudes: decompose the 2x2 Jones matrix into a
// rotation R(theta) times a diagonal matrix, keep only that factored
// form. Used for ionospheric Faraday-rotation calibration.
type RotationDiagonal struct {
	DiagonalOnly bool // when true, drop the rotation (equivalent to DiagonalProjection)
}

func (r *RotationDiagonal) Apply(block *gain.Block, _ int) Result {
	for d := 0; d < block.NumDirections; d++ {
		for s := 0; s < block.SubIntervals[d]; s++ {
			for ant := 0; ant < block.NumAntennas; ant++ {
				xx := block.Get(d, s, ant, 0)
				xy := block.Get(d, s, ant, 1)
				yx := block.Get(d, s, ant, 2)
				yy := block.Get(d, s, ant, 3)

				theta := 0.5 * math.Atan2(real(yx-xy), real(xx+yy))
				if r.DiagonalOnly {
					theta = 0
				}
				cosT := complex(math.Cos(theta), 0)
				sinT := complex(math.Sin(theta), 0)

				// R(theta) = [cos -sin; sin cos]; new diagonal = R^T * J.
				newXX := cosT*xx + sinT*yx
				newYY := -sinT*xy + cosT*yy

				block.Set(d, s, ant, 0, newXX)
				block.Set(d, s, ant, 1, 0)
				block.Set(d, s, ant, 2, 0)
				block.Set(d, s, ant, 3, newYY)
			}
		}
	}
	return Result{Stable: true}
}

