// SPDX-License-Identifier: MIT
// Package vector: cross-type dispatch over the closed union {*Dense, *Sparse}.
//
// Result rule:
//   - dense ∘ dense   → dense
//   - sparse ∘ sparse → sparse
//   - mixed           → dense; the dense operand fixes the length and every
//     stored sparse index must be < that length (else ErrLengthMismatch).
//
// In-place functions keep the destination's variant.
//
// AI-Hints:
//   - variantOf is the one exhaustive type switch; a new variant added to the
//     union fails every call with ErrUnsupportedVectorType until each
//     function below handles it.

package vector

// Operation tags used only by dispatch.
const (
	opScale = "Scale"
	opNeg   = "Neg"
	opClone = "Clone"
)

// variantOf unpacks v into exactly one non-nil concrete pointer.
func variantOf(v Vector) (*Dense, *Sparse, error) {
	switch x := v.(type) {
	case *Dense:
		if x == nil {
			return nil, nil, ErrNilArgument
		}

		return x, nil, nil
	case *Sparse:
		if x == nil {
			return nil, nil, ErrNilArgument
		}

		return nil, x, nil
	case nil:
		return nil, nil, ErrNilArgument
	default:
		return nil, nil, ErrUnsupportedVectorType
	}
}

// variantsOf unpacks a pair, failing on the first bad operand.
func variantsOf(a, b Vector) (da *Dense, sa *Sparse, db *Dense, sb *Sparse, err error) {
	if da, sa, err = variantOf(a); err != nil {
		return
	}
	db, sb, err = variantOf(b)

	return
}

// lift converts a concrete (result, error) pair into (Vector, error) without
// leaking a typed-nil interface on failure.
func lift[T Vector](v T, err error) (Vector, error) {
	if err != nil {
		return nil, err
	}

	return v, nil
}

// Add returns a + b following the result rule.
// Errors: ErrNilArgument, ErrUnsupportedVectorType, ErrLengthMismatch.
func Add(a, b Vector) (Vector, error) {
	return combine(opAdd, a, b, +1)
}

// Sub returns a - b following the result rule.
// Errors: ErrNilArgument, ErrUnsupportedVectorType, ErrLengthMismatch.
func Sub(a, b Vector) (Vector, error) {
	return combine(opSub, a, b, -1)
}

func combine(tag string, a, b Vector, sign float64) (Vector, error) {
	da, sa, db, sb, err := variantsOf(a, b)
	if err != nil {
		return nil, vectorErrorf(tag, err)
	}
	switch {
	case da != nil && db != nil:
		if sign > 0 {
			return lift(da.Add(db))
		}
		return lift(da.Sub(db))
	case sa != nil && sb != nil:
		return lift(sa.merge(sb, sign), nil)
	case da != nil: // dense ∘ sparse
		out := da.Clone()
		if err = out.accumulate(sb, sign); err != nil {
			return nil, vectorErrorf(tag, err)
		}
		return out, nil
	default: // sparse ∘ dense: sign·db + sa
		out := db.Clone()
		if sign < 0 {
			out.NegInPlace()
		}
		if err = out.accumulate(sa, +1); err != nil {
			return nil, vectorErrorf(tag, err)
		}
		return out, nil
	}
}

// Dot returns the inner product of a and b.
// Any pairing with a sparse operand visits only the stored sparse entries.
// Errors: ErrNilArgument, ErrUnsupportedVectorType, ErrLengthMismatch.
func Dot(a, b Vector) (float64, error) {
	da, sa, db, sb, err := variantsOf(a, b)
	if err != nil {
		return 0, vectorErrorf(opDot, err)
	}
	switch {
	case da != nil && db != nil:
		return da.Dot(db)
	case sa != nil && sb != nil:
		return sa.Dot(sb)
	case sa != nil:
		return sa.DotDense(db)
	default:
		return sb.DotDense(da)
	}
}

// Scale returns alpha·v as a new vector of the same variant.
// Errors: ErrNilArgument, ErrUnsupportedVectorType.
func Scale(v Vector, alpha float64) (Vector, error) {
	d, s, err := variantOf(v)
	if err != nil {
		return nil, vectorErrorf(opScale, err)
	}
	if d != nil {
		return d.Scale(alpha), nil
	}

	return s.Scale(alpha), nil
}

// Div returns v/alpha as a new vector of the same variant.
// Errors: ErrNilArgument, ErrUnsupportedVectorType, ErrDivisionByZero.
func Div(v Vector, alpha float64) (Vector, error) {
	d, s, err := variantOf(v)
	if err != nil {
		return nil, vectorErrorf(opDiv, err)
	}
	if d != nil {
		return lift(d.Div(alpha))
	}

	return lift(s.Div(alpha))
}

// Neg returns -v as a new vector of the same variant.
func Neg(v Vector) (Vector, error) {
	d, s, err := variantOf(v)
	if err != nil {
		return nil, vectorErrorf(opNeg, err)
	}
	if d != nil {
		return d.Neg(), nil
	}

	return s.Neg(), nil
}

// Clone deep-copies v.
func Clone(v Vector) (Vector, error) {
	d, s, err := variantOf(v)
	if err != nil {
		return nil, vectorErrorf(opClone, err)
	}
	if d != nil {
		return d.Clone(), nil
	}

	return s.Clone(), nil
}

// AddInPlace performs dst += src and returns dst (same variant as before).
// On error dst is unchanged.
func AddInPlace(dst, src Vector) (Vector, error) {
	d, s, err := variantOf(dst)
	if err != nil {
		return nil, vectorErrorf(opAddInPlace, err)
	}
	if d != nil {
		return lift(d.AddInPlace(src))
	}

	return lift(s.AddInPlace(src))
}

// SubInPlace performs dst -= src and returns dst. Same contract as AddInPlace.
func SubInPlace(dst, src Vector) (Vector, error) {
	d, s, err := variantOf(dst)
	if err != nil {
		return nil, vectorErrorf(opSubInPlace, err)
	}
	if d != nil {
		return lift(d.SubInPlace(src))
	}

	return lift(s.SubInPlace(src))
}
