package solver

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/calibration/lls"
	"isac-cran-system/internal/calibration/solvedata"
	apperrors "isac-cran-system/pkg/errors"
)

// DirectionSolve implements the C5 "direction-solve" family: for each
// (channel block, antenna) it builds one overdetermined least-squares
// system covering every baseline/sample/direction that involves that
// antenna, and solves it via the configured LLS back end (C3). The
// per-iteration update is the concatenation of the per-antenna
// solutions.
//
// The mixing-tensor weighting is assumed already folded into
// ChannelBlock.Model by the caller (the demix orchestrator multiplies
// model visibilities by the relevant mixing-tensor slice before
// constructing a SolveData view), so the system solved here is the
// antenna-linearised form of spec §4.5's equation with M absorbed into
// m_{d,b}.
type DirectionSolve struct {
	Method lls.Method
}

// ComputeUpdate implements BlockUpdater.
func (d *DirectionSolve) ComputeUpdate(data *solvedata.SolveData, blockIndex int, current *gain.Block) (*gain.Block, error) {
	block := data.Blocks[blockIndex]
	entries := data.Shape.NumEntries()

	proposed := current.Clone()

	for ant := 0; ant < data.NumAntennas; ant++ {
		for entry := 0; entry < entries; entry++ {
			if err := d.solveAntennaEntry(data, &block, ant, entry, current, proposed); err != nil {
				return nil, err
			}
		}
	}
	return proposed, nil
}

// solveAntennaEntry builds and solves the per-antenna, per-polarisation
// system described above, writing the result (for every direction with
// sub-interval 0 — direction-solve does not sub-divide intervals) into
// proposed. One row is built per unflagged (baseline, time, channel)
// sample, with a coefficient column per direction: the observed
// visibility is the SUM of every direction's contribution, so all
// NumDirections unknowns for this antenna are solved jointly from that
// one row rather than attributing the whole sample to one direction at
// a time.
func (d *DirectionSolve) solveAntennaEntry(data *solvedata.SolveData, block *solvedata.ChannelBlock, ant, entry int, current, proposed *gain.Block) error {
	type eqn struct {
		coef []complex128 // per direction
		rhs  complex128
	}
	var rows []eqn

	for bi, bl := range block.Baselines {
		var otherAnt int
		var isAnt1 bool
		switch ant {
		case bl.Antenna1:
			otherAnt, isAnt1 = bl.Antenna2, true
		case bl.Antenna2:
			otherAnt, isAnt1 = bl.Antenna1, false
		default:
			continue
		}

		for ts := range block.Observed[bi] {
			for ch := range block.Observed[bi][ts] {
				obs := block.Observed[bi][ts][ch]
				if obs.Flag[entry] || obs.Weight[entry] <= 0 {
					continue
				}

				coef := make([]complex128, data.NumDirections)
				rhs := obs.Visibility[entry]
				if isAnt1 {
					// V ~= sum_dir x_dir * m_dir * conj(gOther_dir); unknowns x_dir.
					for dir := 0; dir < data.NumDirections; dir++ {
						m := block.Model[dir][bi][ts][ch].Visibility[entry]
						gOther := current.Get(dir, 0, otherAnt, entry)
						coef[dir] = m * cmplx.Conj(gOther)
					}
				} else {
					// V ~= sum_dir gOther_dir * m_dir * conj(x_dir); conjugate both
					// sides so every unknown appears un-conjugated:
					// conj(V) ~= sum_dir conj(gOther_dir*m_dir) * x_dir.
					rhs = cmplx.Conj(rhs)
					for dir := 0; dir < data.NumDirections; dir++ {
						m := block.Model[dir][bi][ts][ch].Visibility[entry]
						gOther := current.Get(dir, 0, otherAnt, entry)
						coef[dir] = cmplx.Conj(gOther * m)
					}
				}
				rows = append(rows, eqn{coef: coef, rhs: rhs})
			}
		}
	}

	if len(rows) < data.NumDirections {
		// Not enough constraints for this antenna/entry; leave the
		// current gain untouched rather than fail the whole block.
		for dir := 0; dir < data.NumDirections; dir++ {
			proposed.Set(dir, 0, ant, entry, current.Get(dir, 0, ant, entry))
		}
		return nil
	}

	a := mat.NewCDense(len(rows), data.NumDirections, nil)
	b := make([]complex128, len(rows))
	for i, eq := range rows {
		for dir, c := range eq.coef {
			a.Set(i, dir, c)
		}
		b[i] = eq.rhs
	}

	x, err := lls.Solve(d.Method, a, b)
	if err != nil {
		if _, ok := err.(*lls.RankDeficientError); ok {
			return apperrors.Wrap(apperrors.CodeLLSRankDeficient, "direction-solve system is rank deficient", err)
		}
		return err
	}

	// Both antenna-1 and antenna-2 rows now solve directly for x_dir
	// (antenna-2 rows were conjugated above), so the two roles mix
	// freely into one consistent overdetermined system per direction.
	for dir := 0; dir < data.NumDirections; dir++ {
		proposed.Set(dir, 0, ant, entry, x[dir])
	}
	return nil
}
