// SPDX-License-Identifier: MIT

// Package tensor models linear operators as immutable functions from a dense
// vector to a dense vector.
//
// A Tensor never exposes storage. Constructors capture what they need
// (a copied diagonal, a cloned coefficient matrix, copied Vandermonde nodes),
// so later changes to caller-owned inputs do not leak into the operator.
// Linearity is the caller's contract; FromFunc accepts any coefficient rule.
//
// Row-based operators (FromFunc, FromMatrix, FromRows, Vandermonde) compute
// output rows in parallel once rows × len(x) reaches the process-wide
// threshold of package parallel; below it they run sequentially.
package tensor

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/vecspace/matrix"
	"github.com/katalvlaran/vecspace/parallel"
	"github.com/katalvlaran/vecspace/vector"
)

var (
	// ErrNilTensor indicates a nil Tensor (receiver or argument).
	ErrNilTensor = errors.New("tensor: nil tensor")

	// ErrInvalidShape indicates a negative row count, or an operator whose
	// output length changes with the basis vector during Materialize.
	ErrInvalidShape = errors.New("tensor: invalid shape")
)

// Operation tags for error wrapping.
const (
	opApply       = "Apply"
	opDiagonal    = "Diagonal"
	opFromFunc    = "FromFunc"
	opFromMatrix  = "FromMatrix"
	opFromRows    = "FromRows"
	opMaterialize = "Materialize"
)

func tensorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Tensor maps a dense vector to a dense vector. Implementations must not
// mutate x.
type Tensor func(x *vector.Dense) (*vector.Dense, error)

// Apply evaluates t at x.
// Errors: ErrNilTensor, vector.ErrNilArgument, plus whatever t reports
// (vector.ErrLengthMismatch for shape-bound operators).
func (t Tensor) Apply(x *vector.Dense) (*vector.Dense, error) {
	if t == nil {
		return nil, tensorErrorf(opApply, ErrNilTensor)
	}
	if x == nil {
		return nil, tensorErrorf(opApply, vector.ErrNilArgument)
	}

	return t(x)
}

// Identity returns the operator that hands back its input unchanged.
func Identity() Tensor {
	return func(x *vector.Dense) (*vector.Dense, error) { return x, nil }
}

// Zero returns the operator producing a zero vector of the input's length.
func Zero() Tensor {
	return func(x *vector.Dense) (*vector.Dense, error) { return vector.NewDense(x.Len()) }
}

// Diagonal returns y[i] = d[i]·x[i]. d is copied.
// Apply fails with vector.ErrLengthMismatch when len(x) != len(d).
func Diagonal(d []float64) Tensor {
	diag := vector.NewDenseFrom(d)

	return func(x *vector.Dense) (*vector.Dense, error) {
		y, err := diag.Mul(x)
		if err != nil {
			return nil, tensorErrorf(opDiagonal, err)
		}

		return y, nil
	}
}

// FromFunc returns the operator y[i] = Σⱼ f(i,j)·x[j] for i in [0, rows).
// The column count is taken from each input. f must be safe for concurrent
// calls once rows × len(x) reaches the parallel threshold.
// A negative rows value makes every Apply fail with ErrInvalidShape.
//
// Complexity: O(rows·len(x)) calls to f per Apply.
func FromFunc(rows int, f func(i, j int) float64) Tensor {
	return func(x *vector.Dense) (*vector.Dense, error) {
		if rows < 0 {
			return nil, tensorErrorf(opFromFunc, ErrInvalidShape)
		}
		xs := x.Values()
		n := len(xs)
		y := make([]float64, rows)
		parallel.Rows(rows, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				var acc float64
				for j := 0; j < n; j++ {
					acc += f(i, j) * xs[j]
				}
				y[i] = acc
			}
		})

		return vector.NewDenseFrom(y), nil
	}
}

// FromMatrix returns the operator y = m·x over precomputed coefficients.
// m is cloned, so later writes to m are not observed.
// Apply fails with vector.ErrLengthMismatch when len(x) != m.Cols().
// Errors: matrix.ErrNilMatrix.
func FromMatrix(m *matrix.Dense) (Tensor, error) {
	if m == nil {
		return nil, tensorErrorf(opFromMatrix, matrix.ErrNilMatrix)
	}

	return fromOwnedMatrix(m.Clone()), nil
}

// FromRows builds the coefficient matrix from rows and returns FromMatrix of it.
// Errors: those of matrix.NewDenseFromRows (ErrInvalidDimensions, ErrRaggedRows, ErrNaNInf).
func FromRows(rows [][]float64) (Tensor, error) {
	m, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return nil, tensorErrorf(opFromRows, err)
	}

	return fromOwnedMatrix(m), nil
}

func fromOwnedMatrix(m *matrix.Dense) Tensor {
	return func(x *vector.Dense) (*vector.Dense, error) {
		if x.Len() != m.Cols() {
			return nil, tensorErrorf(opFromMatrix, vector.ErrLengthMismatch)
		}
		y, err := matrix.MatVec(m, x.Values())
		if err != nil {
			return nil, tensorErrorf(opFromMatrix, err)
		}

		return vector.NewDenseFrom(y), nil
	}
}

// Vandermonde returns the operator y[i] = Σⱼ betas[i]^j · x[j].
// Powers are built incrementally per row (one multiply per column).
// betas is copied.
func Vandermonde(betas []float64) Tensor {
	nodes := append([]float64(nil), betas...)

	return func(x *vector.Dense) (*vector.Dense, error) {
		xs := x.Values()
		n := len(xs)
		y := make([]float64, len(nodes))
		parallel.Rows(len(nodes), n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				beta, pow, acc := nodes[i], 1.0, 0.0
				for j := 0; j < n; j++ {
					acc += pow * xs[j]
					pow *= beta
				}
				y[i] = acc
			}
		})

		return vector.NewDenseFrom(y), nil
	}
}
