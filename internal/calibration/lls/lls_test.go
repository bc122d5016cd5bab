package lls

import (
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestParseMethodDefaultsToQR(t *testing.T) {
	m, err := ParseMethod("")
	if err != nil {
		t.Fatalf("ParseMethod(\"\") returned error: %v", err)
	}
	if m != QR {
		t.Errorf("ParseMethod(\"\") = %v, want QR", m)
	}
}

func TestParseMethodRecognisesAll(t *testing.T) {
	cases := map[string]Method{
		"qr":              QR,
		"QR":              QR,
		"normalequations": NormalEquations,
		"svd":             SVD,
	}
	for in, want := range cases {
		got, err := ParseMethod(in)
		if err != nil {
			t.Fatalf("ParseMethod(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseMethod(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseMethodRejectsUnknown(t *testing.T) {
	if _, err := ParseMethod("not-a-method"); err == nil {
		t.Fatal("expected an error for an unrecognised llssolver name")
	}
}

// TestSolveRecoversExactSolution builds a well-conditioned complex
// system with a known solution x and checks each method recovers it.
func TestSolveRecoversExactSolution(t *testing.T) {
	a := mat.NewCDense(3, 2, []complex128{
		1, 0,
		0, 1,
		1, 1,
	})
	x := []complex128{complex(2, 1), complex(-1, 3)}

	b := make([]complex128, 3)
	for i := 0; i < 3; i++ {
		var sum complex128
		for j := 0; j < 2; j++ {
			sum += a.At(i, j) * x[j]
		}
		b[i] = sum
	}

	for _, method := range []Method{QR, NormalEquations, SVD} {
		got, err := Solve(method, a, b)
		if err != nil {
			t.Fatalf("Solve(method=%v) returned error: %v", method, err)
		}
		for j := range x {
			if cmplx.Abs(got[j]-x[j]) > 1e-8 {
				t.Errorf("method %v: x[%d] = %v, want %v", method, j, got[j], x[j])
			}
		}
	}
}

func TestSolveRejectsMismatchedLength(t *testing.T) {
	a := mat.NewCDense(2, 2, nil)
	if _, err := Solve(QR, a, []complex128{1}); err == nil {
		t.Fatal("expected an error when b's length does not match A's row count")
	}
}

func TestSolveRejectsUnderdetermined(t *testing.T) {
	a := mat.NewCDense(1, 2, nil)
	if _, err := Solve(QR, a, []complex128{1}); err == nil {
		t.Fatal("expected an error for an underdetermined system (rows < cols)")
	}
}

func TestSolveSingularSystemReportsRankDeficient(t *testing.T) {
	// Both columns identical: rank-deficient 2-column system.
	a := mat.NewCDense(2, 2, []complex128{1, 1, 1, 1})
	b := []complex128{1, 1}

	for _, method := range []Method{NormalEquations, SVD} {
		_, err := Solve(method, a, b)
		if err == nil {
			t.Errorf("method %v: expected a rank-deficient error for a singular system", method)
			continue
		}
		if _, ok := err.(*RankDeficientError); !ok {
			t.Errorf("method %v: expected *RankDeficientError, got %T", method, err)
		}
	}
}
