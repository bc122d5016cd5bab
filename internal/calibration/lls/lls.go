// Package lls implements the dense complex linear-least-squares back
// end used by the direction-solve solver family (spec component C3):
// min ||A*x - b|| for complex A (M x N, M >= N) and b (M), selectable
// between QR, normal-equations and SVD.
//
// gonum's mat package does not expose complex QR/Cholesky/SVD
// factorisations directly, so each complex system is lifted to the
// equivalent real block system of twice the size, following the same
// real/imaginary-stacking trick internal/algorithm/doa/esprit.go uses
// to drive mat.Eigen and mat.SVD over complex covariance data:
//
//	[ Re(A)  -Im(A) ] [ Re(x) ]   [ Re(b) ]
//	[ Im(A)   Re(A) ] [ Im(x) ] = [ Im(b) ]
package lls

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	apperrors "isac-cran-system/pkg/errors"
)

// Method selects the LLS back-end algorithm.
type Method int

const (
	QR Method = iota
	NormalEquations
	SVD
)

// ParseMethod maps a configuration string (ddecal.llssolver) onto a
// Method, defaulting to QR on empty input.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "qr":
		return QR, nil
	case "normalequations":
		return NormalEquations, nil
	case "svd":
		return SVD, nil
	default:
		return QR, apperrors.New(apperrors.CodeInvalidParam, "unknown llssolver: "+s)
	}
}

// RankDeficientError is returned when the chosen method detects a
// singular or rank-deficient system; callers treat this as a failed
// iteration, not a fatal error.
type RankDeficientError struct {
	Method Method
}

func (e *RankDeficientError) Error() string {
	return fmt.Sprintf("lls: rank deficient system under method %d", e.Method)
}

// Solve solves min||Ax-b|| for complex A (rows x cols, rows >= cols)
// and complex b (rows), returning x (cols).
func Solve(method Method, a *mat.CDense, b []complex128) ([]complex128, error) {
	rows, cols := a.Dims()
	if len(b) != rows {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "lls: b length does not match A rows")
	}
	if rows < cols {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "lls: underdetermined system (rows < cols)")
	}

	ra := realBlockMatrix(a, rows, cols)
	rb := realBlockVector(b, rows)

	var xReal *mat.VecDense
	var err error
	switch method {
	case NormalEquations:
		xReal, err = solveNormalEquations(ra, rb, 2*cols)
	case SVD:
		xReal, err = solveSVD(ra, rb, 2*cols)
	default:
		xReal, err = solveQR(ra, rb, 2*cols)
	}
	if err != nil {
		return nil, err
	}

	x := make([]complex128, cols)
	for j := 0; j < cols; j++ {
		x[j] = complex(xReal.AtVec(j), xReal.AtVec(j+cols))
	}
	return x, nil
}

func solveQR(a *mat.Dense, b *mat.VecDense, n int) (*mat.VecDense, error) {
	var qr mat.QR
	qr.Factorize(a)

	x := mat.NewVecDense(n, nil)
	err := qr.SolveVecTo(x, false, b)
	if err != nil {
		return nil, &RankDeficientError{Method: QR}
	}
	return x, nil
}

func solveNormalEquations(a *mat.Dense, b *mat.VecDense, n int) (*mat.VecDense, error) {
	var ata mat.Dense
	ata.Mul(a.T(), a)

	var atb mat.VecDense
	atb.MulVec(a.T(), b)

	var chol mat.Cholesky
	ok := chol.Factorize(mat.NewSymDense(n, ata.RawMatrix().Data))
	if !ok {
		return nil, &RankDeficientError{Method: NormalEquations}
	}

	x := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(x, &atb); err != nil {
		return nil, &RankDeficientError{Method: NormalEquations}
	}
	return x, nil
}

func solveSVD(a *mat.Dense, b *mat.VecDense, n int) (*mat.VecDense, error) {
	var svd mat.SVD
	ok := svd.Factorize(a, mat.SVDThin)
	if !ok {
		return nil, &RankDeficientError{Method: SVD}
	}

	values := svd.Values(nil)
	const relTol = 1e-12
	maxSV := 0.0
	for _, v := range values {
		if v > maxSV {
			maxSV = v
		}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// x = V * Sigma^+ * U^T * b, truncating singular values below tol.
	var utb mat.VecDense
	utb.MulVec(u.T(), b)

	sInv := mat.NewVecDense(len(values), nil)
	rank := 0
	for i, s := range values {
		if s > relTol*maxSV {
			sInv.SetVec(i, utb.AtVec(i)/s)
			rank++
		}
	}
	if rank == 0 {
		return nil, &RankDeficientError{Method: SVD}
	}

	x := mat.NewVecDense(n, nil)
	x.MulVec(&v, sInv)
	return x, nil
}

func realBlockMatrix(a *mat.CDense, rows, cols int) *mat.Dense {
	m := mat.NewDense(2*rows, 2*cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := a.At(i, j)
			m.Set(i, j, real(v))
			m.Set(i, j+cols, -imag(v))
			m.Set(i+rows, j, imag(v))
			m.Set(i+rows, j+cols, real(v))
		}
	}
	return m
}

func realBlockVector(b []complex128, rows int) *mat.VecDense {
	v := mat.NewVecDense(2*rows, nil)
	for i, c := range b {
		v.SetVec(i, real(c))
		v.SetVec(i+rows, imag(c))
	}
	return v
}
