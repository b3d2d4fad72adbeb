// SPDX-License-Identifier: MIT

// Package vector provides two interoperable float64 vector representations
// sharing one algebraic contract:
//
//   - Dense: a fixed-length, slice-backed vector with O(1) indexed access and
//     threshold-gated sequential/parallel arithmetic (see package parallel).
//   - Sparse: an ordered chain of (index, value) entries, strictly ascending by
//     index, with a lazily built index→entry cache for expected O(1) reads and
//     O(n₁+n₂) merge-walk algebra.
//
// Both satisfy the sealed Vector interface. Package-level Add/Sub/Dot/Scale/
// Clone dispatch over the concrete pair:
//
//	dense  ∘ dense  → dense
//	sparse ∘ sparse → sparse
//	dense  ∘ sparse → dense (the dense operand fixes the length)
//
// Every operation validates its inputs before mutating anything, and every
// failure matches one of the package sentinels via errors.Is.
//
// Concurrency: a Sparse guards its chain, cache and norm with one mutex. A
// Dense has no internal synchronization; concurrent mutation of one Dense is
// the caller's responsibility.
package vector
