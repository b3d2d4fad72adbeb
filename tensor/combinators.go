// SPDX-License-Identifier: MIT

package tensor

import (
	"github.com/katalvlaran/vecspace/matrix"
	"github.com/katalvlaran/vecspace/vector"
)

// Compose returns x ↦ outer(inner(x)).
func Compose(outer, inner Tensor) (Tensor, error) {
	if outer == nil || inner == nil {
		return nil, tensorErrorf("Compose", ErrNilTensor)
	}

	return func(x *vector.Dense) (*vector.Dense, error) {
		mid, err := inner(x)
		if err != nil {
			return nil, err
		}

		return outer(mid)
	}, nil
}

// Sum returns x ↦ a(x) + b(x). Both results must have equal length.
func Sum(a, b Tensor) (Tensor, error) {
	if a == nil || b == nil {
		return nil, tensorErrorf("Sum", ErrNilTensor)
	}

	return func(x *vector.Dense) (*vector.Dense, error) {
		ya, err := a(x)
		if err != nil {
			return nil, err
		}
		yb, err := b(x)
		if err != nil {
			return nil, err
		}

		return ya.Add(yb)
	}, nil
}

// Scaled returns x ↦ alpha·t(x).
func Scaled(t Tensor, alpha float64) (Tensor, error) {
	if t == nil {
		return nil, tensorErrorf("Scaled", ErrNilTensor)
	}

	return func(x *vector.Dense) (*vector.Dense, error) {
		y, err := t(x)
		if err != nil {
			return nil, err
		}

		return y.Scale(alpha), nil
	}, nil
}

// Materialize evaluates t on the n standard basis vectors and returns the
// coefficient matrix whose column j is t(e_j).
//
// Errors:
//   - ErrNilTensor; ErrInvalidShape when n <= 0, when t yields an empty
//     vector, or when output lengths differ between basis vectors.
//   - Anything t itself reports.
//
// Complexity: n applications of t plus O(rows·n).
func Materialize(t Tensor, n int) (*matrix.Dense, error) {
	if t == nil {
		return nil, tensorErrorf(opMaterialize, ErrNilTensor)
	}
	if n <= 0 {
		return nil, tensorErrorf(opMaterialize, ErrInvalidShape)
	}
	var m *matrix.Dense
	basis := make([]float64, n)
	for j := 0; j < n; j++ {
		basis[j] = 1
		col, err := t(vector.NewDenseFrom(basis))
		basis[j] = 0
		if err != nil {
			return nil, tensorErrorf(opMaterialize, err)
		}
		if m == nil {
			if m, err = matrix.NewDense(col.Len(), n, matrix.WithNoValidateNaNInf()); err != nil {
				return nil, tensorErrorf(opMaterialize, ErrInvalidShape)
			}
		}
		if col.Len() != m.Rows() {
			return nil, tensorErrorf(opMaterialize, ErrInvalidShape)
		}
		for i, v := range col.Values() {
			if err = m.Set(i, j, v); err != nil {
				return nil, tensorErrorf(opMaterialize, err)
			}
		}
	}

	return m, nil
}
