// SPDX-License-Identifier: MIT
// Package vector: Dense arithmetic kernels.
//
// Purpose:
//   - Allocating operators (Add, Sub, Mul, Dot, Scale, Div, Neg) and their
//     in-place twins (AddInPlace, SubInPlace, ScaleInPlace, DivInPlace, NegInPlace).
//   - One sequential/parallel branch for all of them, selected by the
//     package parallel threshold snapshot taken once per call.
//
// Determinism & Performance:
//   - Below T: one pass over the whole slice. At or above T: the index range
//     is split into fixed partitions, each writing only its own window.
//   - Dot/Norm2 partitions produce local partial sums, folded in partition order.
//   - Inner loops are vek kernels over contiguous sub-slices (SIMD where available).
//
// AI-Hints:
//   - Floating-point reassociation across the sequential/parallel boundary
//     may change the last bits of Dot; compare with a tolerance.
//   - In-place methods return the receiver so calls can be chained.

package vector

import (
	"github.com/viterin/vek"

	"github.com/katalvlaran/vecspace/parallel"
)

// Operation tags for error wrapping (grep-able, stable).
const (
	opAdd        = "Add"
	opSub        = "Sub"
	opMul        = "Mul"
	opDot        = "Dot"
	opDiv        = "Div"
	opAddInPlace = "AddInPlace"
	opSubInPlace = "SubInPlace"
	opDivInPlace = "DivInPlace"
)

// zip runs out[lo:hi] = kernel(a[lo:hi], b[lo:hi]) over the policy branch.
func zip(out, a, b []float64, kernel func(dst, x, y []float64) []float64) {
	parallel.For(len(out), func(lo, hi int) {
		kernel(out[lo:hi], a[lo:hi], b[lo:hi])
	})
}

// Add returns d + o as a new vector.
// Errors: ErrNilArgument, ErrLengthMismatch.
// Complexity: Time O(n), Space O(n).
func (d *Dense) Add(o *Dense) (*Dense, error) {
	if err := validateDensePair(d, o); err != nil {
		return nil, vectorErrorf(opAdd, err)
	}
	out := &Dense{data: make([]float64, len(d.data))}
	zip(out.data, d.data, o.data, vek.Add_Into)

	return out, nil
}

// Sub returns d - o as a new vector.
// Errors: ErrNilArgument, ErrLengthMismatch.
// Complexity: Time O(n), Space O(n).
func (d *Dense) Sub(o *Dense) (*Dense, error) {
	if err := validateDensePair(d, o); err != nil {
		return nil, vectorErrorf(opSub, err)
	}
	out := &Dense{data: make([]float64, len(d.data))}
	zip(out.data, d.data, o.data, vek.Sub_Into)

	return out, nil
}

// Mul returns the element-wise (Hadamard) product d ⊙ o.
// Errors: ErrNilArgument, ErrLengthMismatch.
func (d *Dense) Mul(o *Dense) (*Dense, error) {
	if err := validateDensePair(d, o); err != nil {
		return nil, vectorErrorf(opMul, err)
	}
	out := &Dense{data: make([]float64, len(d.data))}
	zip(out.data, d.data, o.data, vek.Mul_Into)

	return out, nil
}

// Dot returns Σ d[i]·o[i].
// MAIN DESCRIPTION:
//   - Sequential below T; above T each partition computes a local partial sum
//     and the partials are combined after all partitions complete.
//
// Errors:
//   - ErrNilArgument, ErrLengthMismatch.
//
// Complexity:
//   - Time O(n), Space O(p) for p partitions.
func (d *Dense) Dot(o *Dense) (float64, error) {
	if err := validateDensePair(d, o); err != nil {
		return 0, vectorErrorf(opDot, err)
	}
	a, b := d.data, o.data

	return parallel.Sum(len(a), func(lo, hi int) float64 {
		return vek.Dot(a[lo:hi], b[lo:hi])
	}), nil
}

// Scale returns alpha·d as a new vector; a nil receiver yields nil.
// Complexity: Time O(n), Space O(n).
func (d *Dense) Scale(alpha float64) *Dense {
	if d == nil {
		return nil
	}
	out := &Dense{data: make([]float64, len(d.data))}
	x, y := d.data, out.data
	parallel.For(len(y), func(lo, hi int) {
		vek.MulNumber_Into(y[lo:hi], x[lo:hi], alpha)
	})

	return out
}

// Div returns d/alpha as a new vector.
// Errors: ErrNilArgument, ErrDivisionByZero when alpha == 0.
func (d *Dense) Div(alpha float64) (*Dense, error) {
	if d == nil {
		return nil, vectorErrorf(opDiv, ErrNilArgument)
	}
	if alpha == 0 {
		return nil, vectorErrorf(opDiv, ErrDivisionByZero)
	}
	out := &Dense{data: make([]float64, len(d.data))}
	x, y := d.data, out.data
	parallel.For(len(y), func(lo, hi int) {
		vek.DivNumber_Into(y[lo:hi], x[lo:hi], alpha)
	})

	return out, nil
}

// Neg returns -d as a new vector; a nil receiver yields nil.
func (d *Dense) Neg() *Dense {
	if d == nil {
		return nil
	}
	out := &Dense{data: make([]float64, len(d.data))}
	x, y := d.data, out.data
	parallel.For(len(y), func(lo, hi int) {
		vek.Neg_Into(y[lo:hi], x[lo:hi])
	})
	out.norm2, out.normOK = d.norm2, d.normOK // ‖-x‖ = ‖x‖

	return out
}

// ---------- In-place (mutate, invalidate, return receiver) ----------

// AddInPlace performs d += o and returns d.
// MAIN DESCRIPTION:
//   - o may be *Dense (equal length) or *Sparse (every stored index < d.Len()).
//
// Implementation:
//   - Stage 1: dispatch on o's variant and validate (no mutation yet).
//   - Stage 2: dense → partitioned vek.Add_Inplace; sparse → walk stored entries only.
//   - Stage 3: invalidate the norm cache.
//
// Errors:
//   - ErrNilArgument, ErrLengthMismatch, ErrUnsupportedVectorType.
//     On error d is unchanged.
//
// Complexity:
//   - Dense operand: O(n). Sparse operand: O(nnz).
func (d *Dense) AddInPlace(o Vector) (*Dense, error) {
	if err := d.accumulate(o, +1); err != nil {
		return nil, vectorErrorf(opAddInPlace, err)
	}

	return d, nil
}

// SubInPlace performs d -= o and returns d. Same contract as AddInPlace.
func (d *Dense) SubInPlace(o Vector) (*Dense, error) {
	if err := d.accumulate(o, -1); err != nil {
		return nil, vectorErrorf(opSubInPlace, err)
	}

	return d, nil
}

// accumulate is the shared in-place body of AddInPlace/SubInPlace (sign ∈ {+1,-1}).
func (d *Dense) accumulate(o Vector, sign float64) error {
	if d == nil {
		return ErrNilArgument
	}
	switch v := o.(type) {
	case *Dense:
		if err := validateDensePair(d, v); err != nil {
			return err
		}
		x, y := d.data, v.data
		kernel := vek.Add_Inplace
		if sign < 0 {
			kernel = vek.Sub_Inplace
		}
		parallel.For(len(x), func(lo, hi int) {
			kernel(x[lo:hi], y[lo:hi])
		})
		d.invalidate()

		return nil
	case *Sparse:
		if v == nil {
			return ErrNilArgument
		}

		return d.accumulateSparse(v, sign)
	case nil:
		return ErrNilArgument
	default:
		return ErrUnsupportedVectorType
	}
}

// accumulateSparse adds sign·s into d, touching only the stored entries of s.
// Fails with ErrLengthMismatch (before any write) if s does not fit d.
func (d *Dense) accumulateSparse(s *Sparse, sign float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := validateFits(s, len(d.data)); err != nil {
		return err
	}
	for l := s.head; l != nilLink; l = s.nodes[l-1].next {
		nd := &s.nodes[l-1]
		d.data[nd.index] += sign * nd.value
	}
	d.invalidate()

	return nil
}

// ScaleInPlace performs d *= alpha and returns d (nil stays nil).
// Complexity: O(n).
func (d *Dense) ScaleInPlace(alpha float64) *Dense {
	if d == nil {
		return nil
	}
	x := d.data
	parallel.For(len(x), func(lo, hi int) {
		vek.MulNumber_Inplace(x[lo:hi], alpha)
	})
	d.invalidate()

	return d
}

// DivInPlace performs d /= alpha and returns d.
// Errors: ErrNilArgument, ErrDivisionByZero (d unchanged).
func (d *Dense) DivInPlace(alpha float64) (*Dense, error) {
	if d == nil {
		return nil, vectorErrorf(opDivInPlace, ErrNilArgument)
	}
	if alpha == 0 {
		return nil, vectorErrorf(opDivInPlace, ErrDivisionByZero)
	}
	x := d.data
	parallel.For(len(x), func(lo, hi int) {
		vek.DivNumber_Inplace(x[lo:hi], alpha)
	})
	d.invalidate()

	return d, nil
}

// NegInPlace performs d = -d and returns d (nil stays nil).
func (d *Dense) NegInPlace() *Dense {
	if d == nil {
		return nil
	}
	x := d.data
	parallel.For(len(x), func(lo, hi int) {
		vek.Neg_Inplace(x[lo:hi])
	})
	d.invalidate()

	return d
}
