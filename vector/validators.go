// SPDX-License-Identifier: MIT
// Package vector: centralized guards.
//
// Validators return plain (unwrapped) sentinels; call sites wrap them with
// their operation tag. All checks run before any mutation starts.

package vector

// validateDensePair – Composite: NotNil(a) → NotNil(b) → SameLen.
// Complexity: O(1).
func validateDensePair(a, b *Dense) error {
	if a == nil || b == nil {
		return ErrNilArgument
	}
	if len(a.data) != len(b.data) {
		return ErrLengthMismatch
	}

	return nil
}

// validateSparsePair – both operands non-nil.
// Complexity: O(1).
func validateSparsePair(a, b *Sparse) error {
	if a == nil || b == nil {
		return ErrNilArgument
	}

	return nil
}

// validateFits ensures every stored index of s is < n.
// Caller must hold s.mu. Complexity: O(nnz) (walks to the tail).
func validateFits(s *Sparse, n int) error {
	if last, ok := s.lastIndexLocked(); ok && last >= n {
		return ErrLengthMismatch
	}

	return nil
}

// validateEntries checks strict ascending order of non-negative indices.
// Complexity: O(len(entries)).
func validateEntries(entries []Entry) error {
	prev := -1
	for _, e := range entries {
		if e.Index < 0 {
			return ErrOutOfRange
		}
		if e.Index <= prev {
			return ErrOrderViolation
		}
		prev = e.Index
	}

	return nil
}
