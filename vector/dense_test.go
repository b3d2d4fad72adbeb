// SPDX-License-Identifier: MIT

// Package vector_test contains unit tests for the Dense vector.
package vector_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/vecspace/parallel"
	"github.com/katalvlaran/vecspace/vector"
	"github.com/stretchr/testify/require"
)

// ramp returns [start, start+1, ..., start+n-1].
func ramp(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

// withThreshold installs t for the duration of the test.
func withThreshold(t *testing.T, th int) {
	t.Helper()
	_, err := parallel.SetThreshold(th)
	require.NoError(t, err)
	t.Cleanup(parallel.Reset)
}

// TestNewDense covers construction by length and by copy.
func TestNewDense(t *testing.T) {
	d, err := vector.NewDense(4) // zero-filled
	require.NoError(t, err)
	require.Equal(t, 4, d.Len())
	require.Equal(t, []float64{0, 0, 0, 0}, d.Values())

	_, err = vector.NewDense(-1)
	require.ErrorIs(t, err, vector.ErrInvalidLength)

	empty, err := vector.NewDense(0)
	require.NoError(t, err)
	require.Zero(t, empty.Len())

	src := []float64{1.0, 2.0, 3.0}
	c := vector.NewDenseFrom(src)
	require.Equal(t, []float64{1.0, 2.0, 3.0}, c.Values()) // backing sequence unchanged
	src[0] = 99                                            // caller keeps ownership
	v, err := c.At(0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

// TestDenseAtSet checks bounds and norm invalidation.
func TestDenseAtSet(t *testing.T) {
	d := vector.NewDenseFrom([]float64{3, 4})
	require.Equal(t, 25.0, d.Norm2())
	require.Equal(t, 5.0, d.Norm())

	require.NoError(t, d.Set(0, 0))
	require.Equal(t, 16.0, d.Norm2()) // cache dropped by Set

	_, err := d.At(2)
	require.ErrorIs(t, err, vector.ErrOutOfRange)
	require.ErrorIs(t, d.Set(-1, 1), vector.ErrOutOfRange)
	require.Equal(t, "[0, 4]", d.String())
}

// TestDenseArithmetic covers the allocating operators on a small vector.
func TestDenseArithmetic(t *testing.T) {
	t.Parallel()

	a := vector.NewDenseFrom([]float64{1, 2, 3})
	b := vector.NewDenseFrom([]float64{4, 5, 6})

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 7, 9}, sum.Values())
	rev, err := b.Add(a)
	require.NoError(t, err)
	require.Equal(t, sum.Values(), rev.Values()) // a+b == b+a

	diff, err := a.Sub(b)
	require.NoError(t, err)
	require.Equal(t, []float64{-3, -3, -3}, diff.Values())

	prod, err := a.Mul(b)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 10, 18}, prod.Values())

	dot, err := a.Dot(b)
	require.NoError(t, err)
	require.Equal(t, 32.0, dot)

	require.Equal(t, []float64{2, 4, 6}, a.Scale(2).Values())
	require.Equal(t, []float64{-1, -2, -3}, a.Neg().Values())

	q, err := b.Div(2)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2.5, 3}, q.Values())

	_, err = a.Div(0)
	require.ErrorIs(t, err, vector.ErrDivisionByZero)

	require.Equal(t, []float64{1, 2, 3}, a.Values()) // inputs untouched
}

// TestDenseErrors checks length and nil validation.
func TestDenseErrors(t *testing.T) {
	t.Parallel()

	a := vector.NewDenseFrom([]float64{1, 2})
	b := vector.NewDenseFrom([]float64{1, 2, 3})

	_, err := a.Add(b)
	require.ErrorIs(t, err, vector.ErrLengthMismatch)
	_, err = a.Dot(b)
	require.ErrorIs(t, err, vector.ErrLengthMismatch)
	_, err = a.Sub(nil)
	require.ErrorIs(t, err, vector.ErrNilArgument)

	_, err = a.AddInPlace(b)
	require.ErrorIs(t, err, vector.ErrLengthMismatch)
	require.Equal(t, []float64{1, 2}, a.Values()) // unchanged on failure

	_, err = a.AddInPlace(nil)
	require.ErrorIs(t, err, vector.ErrNilArgument)
	var ns *vector.Sparse
	_, err = a.SubInPlace(ns)
	require.ErrorIs(t, err, vector.ErrNilArgument)
}

// TestDenseInPlace verifies chaining and cache invalidation.
func TestDenseInPlace(t *testing.T) {
	t.Parallel()

	d := vector.NewDenseFrom([]float64{1, 2, 3})
	require.Equal(t, 14.0, d.Norm2())

	out, err := d.AddInPlace(vector.NewDenseFrom([]float64{1, 1, 1}))
	require.NoError(t, err)
	require.Same(t, d, out)
	require.Equal(t, []float64{2, 3, 4}, d.Values())
	require.Equal(t, 29.0, d.Norm2())

	_, err = d.SubInPlace(vector.NewDenseFrom([]float64{2, 3, 4}))
	require.NoError(t, err)
	require.Equal(t, 0.0, d.Norm2())

	d = vector.NewDenseFrom([]float64{2, -4})
	d.ScaleInPlace(3).NegInPlace()
	require.Equal(t, []float64{-6, 12}, d.Values())
	_, err = d.DivInPlace(6)
	require.NoError(t, err)
	require.Equal(t, []float64{-1, 2}, d.Values())

	_, err = d.DivInPlace(0)
	require.ErrorIs(t, err, vector.ErrDivisionByZero)
	require.Equal(t, []float64{-1, 2}, d.Values())
}

// TestDenseInPlaceSparse adds a sparse operand into a dense vector.
func TestDenseInPlaceSparse(t *testing.T) {
	t.Parallel()

	d := vector.NewDenseFrom([]float64{1, 1, 1, 1})
	s, err := vector.NewSparse(vector.Entry{Index: 1, Value: 2}, vector.Entry{Index: 3, Value: -1})
	require.NoError(t, err)

	_, err = d.AddInPlace(s)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3, 1, 0}, d.Values())

	_, err = d.SubInPlace(s)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 1, 1}, d.Values())

	long, err := vector.NewSparse(vector.Entry{Index: 4, Value: 1})
	require.NoError(t, err)
	_, err = d.AddInPlace(long)
	require.ErrorIs(t, err, vector.ErrLengthMismatch)
	require.Equal(t, []float64{1, 1, 1, 1}, d.Values())
}

// TestWiden materializes a sparse vector.
func TestWiden(t *testing.T) {
	s, err := vector.NewSparse(vector.Entry{Index: 0, Value: 2}, vector.Entry{Index: 3, Value: 4})
	require.NoError(t, err)

	d, err := vector.Widen(s, 5)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 0, 0, 4, 0}, d.Values())

	_, err = vector.Widen(s, 3)
	require.ErrorIs(t, err, vector.ErrLengthMismatch)
	_, err = vector.Widen(nil, 3)
	require.ErrorIs(t, err, vector.ErrNilArgument)
	_, err = vector.Widen(s, -1)
	require.ErrorIs(t, err, vector.ErrInvalidLength)
}

// TestDenseThresholdModes sums length 5 (sequential) and 20 (parallel) with T=10.
func TestDenseThresholdModes(t *testing.T) {
	withThreshold(t, 10)

	for _, n := range []int{5, 20} {
		a := vector.NewDenseFrom(ramp(n, 0))
		b := vector.NewDenseFrom(ramp(n, 100))

		sum, err := a.Add(b)
		require.NoError(t, err)
		for i, v := range sum.Values() {
			require.InDelta(t, float64(i)+100+float64(i), v, 1e-12, "n=%d i=%d", n, i)
		}

		dot, err := a.Dot(b)
		require.NoError(t, err)
		var want float64
		for i := 0; i < n; i++ {
			want += float64(i) * (100 + float64(i))
		}
		require.InDelta(t, want, dot, 1e-9)

		_, err = a.AddInPlace(b)
		require.NoError(t, err)
		require.Equal(t, sum.Values(), a.Values())
	}
}

// TestDenseSequentialParallelAgree compares Dot/Norm2 across modes on a larger input.
func TestDenseSequentialParallelAgree(t *testing.T) {
	const n = 5000
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(float64(i))
	}
	a := vector.NewDenseFrom(x)

	parallel.Reset() // n < 32768 → sequential
	seq := a.Clone().Norm2()

	withThreshold(t, 16)
	par := a.Clone().Norm2()
	require.InDelta(t, seq, par, 1e-9)
	require.Equal(t, par, a.Clone().Norm2()) // repeated calls are deterministic
}
