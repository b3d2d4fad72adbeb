// SPDX-License-Identifier: MIT

package vector

import "fmt"

// Kind tags the concrete variant behind a Vector.
type Kind uint8

const (
	// KindDense marks *Dense.
	KindDense Kind = iota + 1
	// KindSparse marks *Sparse.
	KindSparse
)

// String returns "dense", "sparse" or "Kind(n)".
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSparse:
		return "sparse"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Vector is the closed union {*Dense, *Sparse}.
//
// The unexported method seals the set: only this package can add a variant,
// and adding one means updating every type switch in dispatch.go, fold.go
// and the in-place methods. That is a known extensibility limit.
type Vector interface {
	// Kind reports the concrete variant.
	Kind() Kind

	// Norm2 returns the squared Euclidean norm (cached until the next mutation).
	Norm2() float64

	sealed()
}

// Entry is one (index, value) pair of a sparse vector.
type Entry struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Compile-time conformance.
var (
	_ Vector       = (*Dense)(nil)
	_ Vector       = (*Sparse)(nil)
	_ fmt.Stringer = (*Dense)(nil)
	_ fmt.Stringer = (*Sparse)(nil)
)
