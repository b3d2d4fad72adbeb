// SPDX-License-Identifier: MIT
// Package vector: sentinel error set.
//
// Every algorithm returns (possibly wrapped) sentinels from this file and
// tests match them via errors.Is. No exported operation panics on a
// user-triggered condition.

package vector

import (
	"errors"
	"fmt"
)

// Every message is prefixed with "vector: " for grep-ability. Call sites wrap
// with vectorErrorf(tag, err) so the operation name leads the message while
// errors.Is keeps matching the sentinel.

var (
	// ErrNilArgument indicates a nil vector (receiver or operand) was supplied.
	ErrNilArgument = errors.New("vector: nil argument")

	// ErrLengthMismatch indicates operands of incompatible length, including a
	// sparse entry index that does not fit the dense operand's length.
	ErrLengthMismatch = errors.New("vector: length mismatch")

	// ErrOrderViolation indicates sparse entries that are not strictly
	// ascending by index.
	ErrOrderViolation = errors.New("vector: entries not strictly ascending by index")

	// ErrDivisionByZero is returned by Div/DivInPlace with a zero divisor.
	ErrDivisionByZero = errors.New("vector: division by zero")

	// ErrUnsupportedVectorType is returned by dispatch when an operand is not
	// one of the known variants {*Dense, *Sparse}.
	ErrUnsupportedVectorType = errors.New("vector: unsupported vector type")

	// ErrInvalidEnumeratorState is returned by Enumerator.Current before the
	// first Next or after exhaustion.
	ErrInvalidEnumeratorState = errors.New("vector: enumerator not positioned on an entry")

	// ErrOutOfRange indicates an index outside the valid domain
	// ([0, Len) for Dense, [0, ∞) for Sparse).
	ErrOutOfRange = errors.New("vector: index out of range")

	// ErrInvalidLength indicates a negative length was requested.
	ErrInvalidLength = errors.New("vector: length must be >= 0")
)

// vectorErrorf wraps err with an operation tag: "<tag>: <err>".
// err must be non-nil.
func vectorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
