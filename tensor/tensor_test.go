// SPDX-License-Identifier: MIT

package tensor_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/vecspace/matrix"
	"github.com/katalvlaran/vecspace/parallel"
	"github.com/katalvlaran/vecspace/tensor"
	"github.com/katalvlaran/vecspace/vector"
	"github.com/stretchr/testify/require"
)

func dense(vals ...float64) *vector.Dense { return vector.NewDenseFrom(vals) }

// TestIdentityZero covers the trivial operators.
func TestIdentityZero(t *testing.T) {
	t.Parallel()

	x := dense(1, 2, 3)
	y, err := tensor.Identity().Apply(x)
	require.NoError(t, err)
	require.Same(t, x, y)

	z, err := tensor.Zero().Apply(x)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, z.Values())

	_, err = tensor.Identity().Apply(nil)
	require.ErrorIs(t, err, vector.ErrNilArgument)
	var nilT tensor.Tensor
	_, err = nilT.Apply(x)
	require.ErrorIs(t, err, tensor.ErrNilTensor)
}

// TestDiagonal checks the element-wise product and the length guard.
func TestDiagonal(t *testing.T) {
	t.Parallel()

	d := []float64{2, 0, -1}
	op := tensor.Diagonal(d)
	d[0] = 100 // copied at construction

	y, err := op.Apply(dense(1, 5, 3))
	require.NoError(t, err)
	require.Equal(t, []float64{2, 0, -3}, y.Values())

	_, err = op.Apply(dense(1, 2))
	require.ErrorIs(t, err, vector.ErrLengthMismatch)
}

// TestFromFuncMatchesMatrix checks the functional and explicit forms agree.
func TestFromFuncMatchesMatrix(t *testing.T) {
	t.Parallel()

	rows := [][]float64{{1, 2, 3}, {0, -1, 4}}
	f := func(i, j int) float64 { return rows[i][j] }

	fn := tensor.FromFunc(2, f)
	mt, err := tensor.FromRows(rows)
	require.NoError(t, err)

	x := dense(1, 1, 2)
	a, err := fn.Apply(x)
	require.NoError(t, err)
	b, err := mt.Apply(x)
	require.NoError(t, err)
	require.Equal(t, []float64{9, 7}, a.Values())
	require.Equal(t, a.Values(), b.Values())

	_, err = mt.Apply(dense(1, 2))
	require.ErrorIs(t, err, vector.ErrLengthMismatch)

	_, err = tensor.FromFunc(-1, f).Apply(x)
	require.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = tensor.FromRows([][]float64{{1}, {1, 2}})
	require.ErrorIs(t, err, matrix.ErrRaggedRows)
}

// TestFromMatrixIsImmutable checks the coefficients are cloned.
func TestFromMatrixIsImmutable(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDenseFromRows([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	op, err := tensor.FromMatrix(m)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 0, 50))

	y, err := op.Apply(dense(3, 4))
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4}, y.Values())

	_, err = tensor.FromMatrix(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestVandermonde evaluates polynomials with coefficients x at each beta.
func TestVandermonde(t *testing.T) {
	t.Parallel()

	// p(b) = 1 + 2b + 3b²
	op := tensor.Vandermonde([]float64{0, 1, 2, -1})
	y, err := op.Apply(dense(1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 6, 17, 2}, y.Values())

	empty, err := op.Apply(dense())
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 0}, empty.Values())
}

// TestRowOperatorsAcrossThreshold compares sequential and parallel row fan-out.
func TestRowOperatorsAcrossThreshold(t *testing.T) {
	const rows, cols = 40, 30
	betas := make([]float64, rows)
	for i := range betas {
		betas[i] = 0.9 + 0.005*float64(i)
	}
	xs := make([]float64, cols)
	for j := range xs {
		xs[j] = math.Cos(float64(j))
	}
	x := vector.NewDenseFrom(xs)
	fn := tensor.FromFunc(rows, func(i, j int) float64 { return math.Pow(betas[i], float64(j)) })
	vd := tensor.Vandermonde(betas)

	parallel.Reset()
	seqF, err := fn.Apply(x)
	require.NoError(t, err)
	seqV, err := vd.Apply(x)
	require.NoError(t, err)

	_, err = parallel.SetThreshold(10)
	require.NoError(t, err)
	t.Cleanup(parallel.Reset)
	parF, err := fn.Apply(x)
	require.NoError(t, err)
	parV, err := vd.Apply(x)
	require.NoError(t, err)

	require.InDeltaSlice(t, seqF.Values(), parF.Values(), 1e-12)
	require.InDeltaSlice(t, seqV.Values(), parV.Values(), 1e-12)
	require.InDeltaSlice(t, parF.Values(), parV.Values(), 1e-9) // incremental powers vs math.Pow
}
