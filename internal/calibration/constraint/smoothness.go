package constraint

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"isac-cran-system/internal/calibration/gain"
)

// Smoothness convolves each antenna/direction gain sequence along
// frequency with a Gaussian kernel whose full-width scales as
// bandwidth * (refFrequency / channelFrequency) when refFrequency is
// set. The kernel is expressed as a dense Gram matrix via gonum/mat so
// the same weighted-average machinery used elsewhere in the pipeline
// (mat.Dense) drives the convolution, rather than a hand-rolled loop.
type Smoothness struct {
	Bandwidth      float64
	RefFrequency   float64 // 0 disables frequency scaling
	ChannelFreqs   []float64
	DistanceWeight []float64 // optional per-baseline distance modulation; nil disables it
}

func (sm *Smoothness) kernelWidth(freq float64) float64 {
	if sm.RefFrequency <= 0 || freq <= 0 {
		return sm.Bandwidth
	}
	return sm.Bandwidth * (sm.RefFrequency / freq)
}

// kernelMatrix builds the NxN Gaussian smoothing kernel (row-normalised)
// over the channel frequency axis for one antenna/direction sequence.
func (sm *Smoothness) kernelMatrix() *mat.Dense {
	n := len(sm.ChannelFreqs)
	k := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		width := sm.kernelWidth(sm.ChannelFreqs[i])
		if width <= 0 {
			k.Set(i, i, 1)
			continue
		}
		sigma := width / 2.3548 // FWHM -> sigma
		var rowSum float64
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			df := sm.ChannelFreqs[i] - sm.ChannelFreqs[j]
			w := math.Exp(-0.5 * (df / sigma) * (df / sigma))
			row[j] = w
			rowSum += w
		}
		if rowSum == 0 {
			row[i] = 1
			rowSum = 1
		}
		for j := 0; j < n; j++ {
			k.Set(i, j, row[j]/rowSum)
		}
	}
	return k
}

// Smooth applies the Gaussian frequency kernel across a chunk's full
// set of channel-block solutions, one block per entry in ChannelFreqs,
// in frequency order. Unlike the per-iteration Constraint chain (which
// only ever sees one channel block), smoothing is inherently a
// cross-block operation, so Demixer calls this once per chunk after
// every block has finished its own solver loop rather than wiring it
// into a per-block constraint.Chain.
func (sm *Smoothness) Smooth(blocks []*gain.Block) {
	if len(blocks) == 0 || len(blocks) != len(sm.ChannelFreqs) {
		return
	}
	first := blocks[0]
	entries := first.Shape.NumEntries()
	seq := make([]complex128, len(blocks))
	for d := 0; d < first.NumDirections; d++ {
		for s := 0; s < first.SubIntervals[d]; s++ {
			for ant := 0; ant < first.NumAntennas; ant++ {
				for e := 0; e < entries; e++ {
					for bi, b := range blocks {
						seq[bi] = b.Get(d, s, ant, e)
					}
					smoothed := sm.SmoothSequence(seq)
					for bi, b := range blocks {
						b.Set(d, s, ant, e, smoothed[bi])
					}
				}
			}
		}
	}
}

// SmoothSequence applies the Gaussian kernel to one complex gain
// sequence indexed by channel block, returning the smoothed sequence.
func (sm *Smoothness) SmoothSequence(values []complex128) []complex128 {
	if len(values) != len(sm.ChannelFreqs) {
		return values
	}
	k := sm.kernelMatrix()
	n := len(values)
	reIn := mat.NewVecDense(n, nil)
	imIn := mat.NewVecDense(n, nil)
	for i, v := range values {
		reIn.SetVec(i, real(v))
		imIn.SetVec(i, imag(v))
	}
	var reOut, imOut mat.VecDense
	reOut.MulVec(k, reIn)
	imOut.MulVec(k, imIn)

	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(reOut.AtVec(i), imOut.AtVec(i))
	}
	return out
}

// TECPhase fits a 1/freq phase curve (optionally with an additive
// constant phase) across frequency for each antenna, replacing the
// per-channel phases with the fitted model. Stability is reported once
// the fit residual falls below Tolerance.
type TECPhase struct {
	ChannelFreqs  []float64
	WithPhaseTerm bool
	Tolerance     float64

	lastResidual float64
}

const tecConstant = -8.4479745e9 // rad*Hz per TECU, matches dp3's TEC-to-phase conversion

// FitAntenna fits TEC (and optional phase offset) to one antenna's
// per-channel phase sequence via a linear least-squares in (1/freq, 1)
// space, then returns the fitted phase sequence and the residual RMS.
func (t *TECPhase) FitAntenna(phases []complex128) ([]complex128, float64) {
	n := len(phases)
	if n != len(t.ChannelFreqs) || n == 0 {
		return phases, 0
	}

	cols := 1
	if t.WithPhaseTerm {
		cols = 2
	}
	design := mat.NewDense(n, cols, nil)
	target := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, tecConstant/t.ChannelFreqs[i])
		if t.WithPhaseTerm {
			design.Set(i, 1, 1)
		}
		target.SetVec(i, cmplx.Phase(phases[i]))
	}

	var qr mat.QR
	qr.Factorize(design)
	coeffs := mat.NewVecDense(cols, nil)
	if err := qr.SolveVecTo(coeffs, false, target); err != nil {
		return phases, math.Inf(1)
	}

	out := make([]complex128, n)
	var residualSq float64
	for i := 0; i < n; i++ {
		fitted := coeffs.AtVec(0) * tecConstant / t.ChannelFreqs[i]
		if t.WithPhaseTerm {
			fitted += coeffs.AtVec(1)
		}
		out[i] = cmplx.Rect(cmplx.Abs(phases[i]), fitted)
		d := cmplx.Phase(phases[i]) - fitted
		residualSq += d * d
	}
	residual := math.Sqrt(residualSq / float64(n))
	t.lastResidual = residual
	return out, residual
}

// Fit fits a TEC (+ optional phase offset) curve per antenna/direction
// across a chunk's channel-block solutions — one block per entry in
// ChannelFreqs, in frequency order — and writes the fitted phase back
// into each block, preserving amplitude. Scalar-mode only: callers
// solving full-Jones should apply DiagonalProjection first so entry 0
// carries the scalar-equivalent gain. Like Smoothness, this is
// inherently cross-block and is invoked by Demixer once per chunk
// rather than through the per-block constraint.Chain.
func (t *TECPhase) Fit(blocks []*gain.Block) bool {
	if len(blocks) == 0 || len(blocks) != len(t.ChannelFreqs) {
		return true
	}
	first := blocks[0]
	stable := true
	phases := make([]complex128, len(blocks))
	for d := 0; d < first.NumDirections; d++ {
		for s := 0; s < first.SubIntervals[d]; s++ {
			for ant := 0; ant < first.NumAntennas; ant++ {
				for bi, b := range blocks {
					phases[bi] = b.Get(d, s, ant, 0)
				}
				fitted, residual := t.FitAntenna(phases)
				if residual > t.Tolerance {
					stable = false
				}
				for bi, b := range blocks {
					b.Set(d, s, ant, 0, fitted[bi])
				}
			}
		}
	}
	return stable
}
