// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/vecspace/matrix"
	"github.com/katalvlaran/vecspace/parallel"
	"github.com/stretchr/testify/require"
)

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)
	return m
}

// TestMatVec covers the product and its validation.
func TestMatVec(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	y, err := matrix.MatVec(m, []float64{1, 0, -1})
	require.NoError(t, err)
	require.Equal(t, []float64{-2, -2}, y)

	_, err = matrix.MatVec(m, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatVec(nil, []float64{1})
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMatVecParallelAgrees compares MatVec across the threshold.
func TestMatVecParallelAgrees(t *testing.T) {
	const r, c = 64, 48
	rows := make([][]float64, r)
	x := make([]float64, c)
	for j := range x {
		x[j] = float64(j%5) - 2
	}
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = float64((i*j)%7) * 0.25
		}
	}
	m := mustRows(t, rows)

	parallel.Reset()
	seq, err := matrix.MatVec(m, x)
	require.NoError(t, err)

	_, err = parallel.SetThreshold(16)
	require.NoError(t, err)
	t.Cleanup(parallel.Reset)
	par, err := matrix.MatVec(m, x)
	require.NoError(t, err)
	require.InDeltaSlice(t, seq, par, 1e-12)
}

// TestMulTranspose checks (AB)ᵀ == BᵀAᵀ on a small case.
func TestMulTranspose(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	b := mustRows(t, [][]float64{{1, 0, 2}, {0, 1, 3}})

	ab, err := matrix.Mul(a, b)
	require.NoError(t, err)
	require.Equal(t, "[1, 2, 8]\n[3, 4, 18]\n[5, 6, 28]\n", ab.String())

	abT, err := matrix.Transpose(ab)
	require.NoError(t, err)
	bT, err := matrix.Transpose(b)
	require.NoError(t, err)
	aT, err := matrix.Transpose(a)
	require.NoError(t, err)
	btat, err := matrix.Mul(bT, aT)
	require.NoError(t, err)

	ok, err := matrix.AllClose(abT, btat)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = matrix.Mul(a, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestAddSubScale covers the element-wise kernels.
func TestAddSubScale(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{4, 3}, {2, 1}})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	require.Equal(t, "[5, 5]\n[5, 5]\n", sum.String())

	diff, err := matrix.Sub(a, b)
	require.NoError(t, err)
	require.Equal(t, "[-3, -1]\n[1, 3]\n", diff.String())

	sc, err := matrix.Scale(a, 2)
	require.NoError(t, err)
	require.Equal(t, "[2, 4]\n[6, 8]\n", sc.String())
	require.Equal(t, "[1, 2]\n[3, 4]\n", a.String()) // operand untouched

	_, err = matrix.Add(a, mustRows(t, [][]float64{{1}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Scale(nil, 1)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestAllCloseEpsilon honors WithEpsilon.
func TestAllCloseEpsilon(t *testing.T) {
	a := mustRows(t, [][]float64{{1}})
	b := mustRows(t, [][]float64{{1.01}})

	ok, err := matrix.AllClose(a, b)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = matrix.AllClose(a, b, matrix.WithEpsilon(0.1))
	require.NoError(t, err)
	require.True(t, ok)
}
