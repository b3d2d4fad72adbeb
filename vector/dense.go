// SPDX-License-Identifier: MIT

// Package vector - Dense storage & safe accessors.
//
// Purpose:
//   - Own one contiguous []float64 whose length is fixed at construction.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Cache the squared Euclidean norm; every mutation invalidates it.
//
// AI-Hints:
//   - Hot kernels (dense_ops.go) work on sub-slices of data directly.
//   - Values() returns a copy; the backing slice never escapes, so the norm
//     cache cannot be bypassed.
//
// Complexity quicksheet:
//   - NewDense: O(n) zero-init; At/Set: O(1); Clone/Values: O(n); Norm2: O(n) first call, O(1) cached.

package vector

import (
	"fmt"
	"math"
	"strings"

	"github.com/viterin/vek"

	"github.com/katalvlaran/vecspace/parallel"
)

// ---------- error context tags ----------

const (
	ctxAt  = "At"  // method tag used in error wrappers
	ctxSet = "Set" // method tag used in error wrappers
)

// ---------- Formatting literals ----------
const (
	_fmtOpen  = "["
	_fmtClose = "]"
	_fmtSep   = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite index.
func denseErrorf(method string, i int, err error) error {
	return fmt.Errorf("Dense.%s(%d): %w", method, i, err)
}

// Dense is a fixed-length, slice-backed vector.
//   - data is the backing sequence; len(data) never changes after construction.
//   - norm2/normOK cache the squared norm; normOK=false means "recompute".
type Dense struct {
	data   []float64 // backing storage
	norm2  float64   // cached Σ data[i]²
	normOK bool      // cache validity flag
}

// NewDense creates a zero-filled vector of length n.
// MAIN DESCRIPTION:
//   - Public constructor; n == 0 is legal (empty vector).
//
// Errors:
//   - ErrInvalidLength when n < 0.
//
// Complexity:
//   - Time O(n), Space O(n).
func NewDense(n int) (*Dense, error) {
	if n < 0 {
		return nil, vectorErrorf("NewDense", ErrInvalidLength)
	}

	return &Dense{data: make([]float64, n)}, nil
}

// NewDenseFrom copies values into a new vector (the caller keeps ownership of values).
// nil and empty slices both produce an empty vector.
// Complexity: Time O(n), Space O(n).
func NewDenseFrom(values []float64) *Dense {
	cp := make([]float64, len(values))
	copy(cp, values)

	return &Dense{data: cp}
}

// Widen materializes s as a dense vector of length n.
// MAIN DESCRIPTION:
//   - Explicit positions of s are copied; every other position is 0.
//
// Errors:
//   - ErrNilArgument (nil s), ErrInvalidLength (n < 0),
//     ErrLengthMismatch (some stored index >= n).
//
// Complexity:
//   - Time O(n + nnz), Space O(n).
func Widen(s *Sparse, n int) (*Dense, error) {
	if s == nil {
		return nil, vectorErrorf("Widen", ErrNilArgument)
	}
	if n < 0 {
		return nil, vectorErrorf("Widen", ErrInvalidLength)
	}
	out := &Dense{data: make([]float64, n)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := validateFits(s, n); err != nil {
		return nil, vectorErrorf("Widen", err)
	}
	for l := s.head; l != nilLink; l = s.nodes[l-1].next {
		nd := &s.nodes[l-1]
		out.data[nd.index] = nd.value
	}

	return out, nil
}

// Kind reports KindDense.
func (d *Dense) Kind() Kind { return KindDense }

func (d *Dense) sealed() {}

// Len returns the fixed length.
// Complexity: O(1).
func (d *Dense) Len() int { return len(d.data) }

// At returns the value at index i or ErrOutOfRange.
// Complexity: O(1).
func (d *Dense) At(i int) (float64, error) {
	if i < 0 || i >= len(d.data) {
		return 0, denseErrorf(ctxAt, i, ErrOutOfRange)
	}

	return d.data[i], nil
}

// Set stores v at index i and invalidates the norm cache.
// Errors: ErrOutOfRange for a bad index (vector unchanged).
// Complexity: O(1).
func (d *Dense) Set(i int, v float64) error {
	if i < 0 || i >= len(d.data) {
		return denseErrorf(ctxSet, i, ErrOutOfRange)
	}
	d.data[i] = v
	d.normOK = false // any write invalidates Σx²

	return nil
}

// Values returns a copy of the backing sequence.
// Complexity: O(n).
func (d *Dense) Values() []float64 {
	cp := make([]float64, len(d.data))
	copy(cp, d.data)

	return cp
}

// Clone returns a deep copy; the cached norm travels with it.
// Complexity: O(n).
func (d *Dense) Clone() *Dense {
	cp := make([]float64, len(d.data))
	copy(cp, d.data)

	return &Dense{data: cp, norm2: d.norm2, normOK: d.normOK}
}

// Norm2 returns Σ x[i]², computed lazily (threshold-gated) and cached until
// the next mutation.
// Complexity: O(n) on a cache miss, O(1) otherwise.
func (d *Dense) Norm2() float64 {
	if d.normOK {
		return d.norm2
	}
	x := d.data
	d.norm2 = parallel.Sum(len(x), func(lo, hi int) float64 {
		return vek.Dot(x[lo:hi], x[lo:hi])
	})
	d.normOK = true

	return d.norm2
}

// Norm returns the Euclidean norm √Norm2().
func (d *Dense) Norm() float64 { return math.Sqrt(d.Norm2()) }

// invalidate marks the norm cache stale. Called by every in-place kernel.
func (d *Dense) invalidate() { d.normOK = false }

// String renders "[v0, v1, ...]" with %g. Intended for diagnostics.
// Complexity: O(n).
func (d *Dense) String() string {
	var b strings.Builder
	b.WriteString(_fmtOpen)
	for i, v := range d.data {
		if i > 0 {
			b.WriteString(_fmtSep)
		}
		fmt.Fprintf(&b, "%g", v)
	}
	b.WriteString(_fmtClose)

	return b.String()
}
