// SPDX-License-Identifier: MIT
// Package matrix: linear algebra kernels over *Dense.
//
// Purpose:
//   - MatVec (the explicit-coefficient tensor path), Mul, Transpose, Add/Sub,
//     Scale and AllClose.
//
// Determinism & Performance:
//   - Fixed i→k→j loop orders. MatVec and Mul fan out over disjoint row
//     ranges via parallel.Rows, so each output row has exactly one writer.
//   - Per-row dot products use vek (SIMD where available).
//
// AI-Hints:
//   - Results are always freshly allocated; operands are never mutated.

package matrix

import (
	"fmt"
	"math"

	"github.com/viterin/vek"

	"github.com/katalvlaran/vecspace/parallel"
)

// Operation tags for error wrapping (grep-able, stable).
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opScale     = "Scale"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opAllClose  = "AllClose"
)

// matrixErrorf wraps err as "<tag>: <err>". err must be non-nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec computes y = m·x.
// MAIN DESCRIPTION:
//   - y[i] = Σⱼ m[i,j]·x[j]; rows are computed in parallel once
//     rows × cols reaches the process-wide threshold.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	c, data := m.c, m.data
	parallel.Rows(m.r, c, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			y[i] = vek.Dot(data[i*c:(i+1)*c], x)
		}
	})

	return y, nil
}

// Mul returns a·b.
// Errors: ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
// Complexity: Time O(r*k*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(a.r, b.c, policyOf(a))
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	k, c := a.c, b.c
	parallel.Rows(a.r, k*c, func(lo, hi int) {
		var i, p int
		var aip float64
		for i = lo; i < hi; i++ {
			out := res.data[i*c : (i+1)*c]
			for p = 0; p < k; p++ {
				aip = a.data[i*k+p]
				if aip == 0 {
					continue // skip zero rows of the update
				}
				vek.Add_Inplace(out, vek.MulNumber(b.data[p*c:(p+1)*c], aip))
			}
		}
	})

	return res, nil
}

// Transpose returns mᵀ.
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(m.c, m.r, policyOf(m)) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// Add returns a + b. Errors: ErrNilMatrix, ErrDimensionMismatch.
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, opAdd, vek.Add_Into) }

// Sub returns a - b. Errors: ErrNilMatrix, ErrDimensionMismatch.
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, opSub, vek.Sub_Into) }

// addSub shares validation and allocation for Add/Sub.
func addSub(a, b *Dense, tag string, kernel func(dst, x, y []float64) []float64) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	res, err := NewDense(a.r, a.c, policyOf(a))
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	kernel(res.data, a.data, b.data)

	return res, nil
}

// Scale returns alpha·m.
// Errors: ErrNilMatrix.
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res := m.Clone()
	vek.MulNumber_Inplace(res.data, alpha)

	return res, nil
}

// AllClose reports whether |a[i,j] - b[i,j]| <= eps for every element,
// with eps from WithEpsilon (DefaultEpsilon otherwise).
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func AllClose(a, b *Dense, opts ...Option) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	eps := gatherOptions(opts...).eps
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > eps {
			return false, nil
		}
	}

	return true, nil
}

// policyOf carries m's numeric policy to a derived result.
func policyOf(m *Dense) Option {
	if m.validateNaNInf {
		return WithValidateNaNInf()
	}

	return WithNoValidateNaNInf()
}
