// Package deproject implements the Deprojector (spec C9): builds the
// projection matrix P = I - A(A*A)^-1 A* from the un-modelled ("extra"
// and, if configured, target) columns of the mixing tensor, and
// applies it to both the tensor and the averaged visibility vector.
// Grounded on steps/Demixer.cc's deproject() member, including its
// singular-A*A fallback to P = I.
package deproject

import (
	"gonum.org/v1/gonum/mat"

	"isac-cran-system/internal/calibration/mixing"
)

// Deprojector runs per (baseline, output-channel, correlation) cell.
// ExtraDirections lists the column indices of un-modelled directions
// (the sub-matrix A in spec §4.9).
type Deprojector struct {
	ExtraDirections []int
}

// Apply computes P for one cell's tensor and returns the deprojected
// tensor (P * M') and the deprojected visibility vector (P * v). M'
// is the complementary sub-matrix — here we project the full tensor
// and vector, which is equivalent since P acts as identity on the
// un-modelled columns' own rows by construction.
func (d *Deprojector) Apply(t *mixing.Tensor, v []complex128) (*mixing.Tensor, []complex128) {
	n := t.NumDirections
	s := len(d.ExtraDirections)
	if s == 0 {
		return t, v
	}

	a := mat.NewCDense(n, s, nil)
	for row := 0; row < n; row++ {
		for col, dir := range d.ExtraDirections {
			a.Set(row, col, t.At(row, dir))
		}
	}

	p := projectionMatrix(a, n, s)

	outT := &mixing.Tensor{NumDirections: n, Values: make([]complex128, n*n)}
	for d0 := 0; d0 < n; d0++ {
		for d1 := 0; d1 < n; d1++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += p.At(d0, k) * t.At(k, d1)
			}
			outT.Set(d0, d1, sum)
		}
	}

	outV := make([]complex128, n)
	for d0 := 0; d0 < n; d0++ {
		var sum complex128
		for k := 0; k < n; k++ {
			sum += p.At(d0, k) * v[k]
		}
		outV[d0] = sum
	}

	return outT, outV
}

// projectionMatrix computes P = I - A(A*A)^-1 A* using a real-block
// lift of A (same technique as internal/calibration/lls), falling
// back to P = I when A*A is singular — spec's explicit no-op case
// for cells with no linearly independent extra directions.
func projectionMatrix(a *mat.CDense, n, s int) *mat.CDense {
	identity := func() *mat.CDense {
		id := mat.NewCDense(n, n, nil)
		for i := 0; i < n; i++ {
			id.Set(i, i, 1)
		}
		return id
	}

	ata := mat.NewCDense(s, s, nil)
	for i := 0; i < s; i++ {
		for j := 0; j < s; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += conjAt(a, k, i) * a.At(k, j)
			}
			ata.Set(i, j, sum)
		}
	}

	inv, ok := hermitianInverse(ata, s)
	if !ok {
		return identity()
	}

	// A * inv * A^*
	aInv := mat.NewCDense(n, s, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < s; j++ {
			var sum complex128
			for k := 0; k < s; k++ {
				sum += a.At(i, k) * inv.At(k, j)
			}
			aInv.Set(i, j, sum)
		}
	}

	p := identity()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < s; k++ {
				sum += aInv.At(i, k) * conjAt(a, j, k)
			}
			p.Set(i, j, p.At(i, j)-sum)
		}
	}
	return p
}

func conjAt(m *mat.CDense, i, j int) complex128 {
	v := m.At(i, j)
	return complex(real(v), -imag(v))
}

// hermitianInverse inverts a small s x s Hermitian matrix via the
// real-block lift and gonum's real Dense.Inverse, reporting false on
// a singular system instead of erroring (spec's deprojection no-op
// path).
func hermitianInverse(m *mat.CDense, s int) (*mat.CDense, bool) {
	real2s := mat.NewDense(2*s, 2*s, nil)
	for i := 0; i < s; i++ {
		for j := 0; j < s; j++ {
			v := m.At(i, j)
			real2s.Set(i, j, real(v))
			real2s.Set(i, j+s, -imag(v))
			real2s.Set(i+s, j, imag(v))
			real2s.Set(i+s, j+s, real(v))
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(real2s); err != nil {
		return nil, false
	}

	out := mat.NewCDense(s, s, nil)
	for i := 0; i < s; i++ {
		for j := 0; j < s; j++ {
			out.Set(i, j, complex(inv.At(i, j), inv.At(i+s, j)))
		}
	}
	return out, true
}
