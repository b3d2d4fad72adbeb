// SPDX-License-Identifier: MIT

// Package vecspace is an in-process numeric library for finite-dimensional
// vector spaces: dense and sparse vectors, their algebra, and linear
// operators (tensors) that act on them.
//
// 🚀 What is vecspace?
//
//	A small, concurrency-aware library that brings together:
//		• Dense vectors: fixed-length float64 arithmetic, sequential or data-parallel
//		• Sparse vectors: ordered (index, value) chains with a lazy index cache
//		• Closed dispatch: Add/Sub/Dot/Scale/... over any mix of Dense and Sparse
//		• Tensors: identity, zero, diagonal, functional, matrix and Vandermonde operators
//		• Persistence: JSON and a compact binary codec (LZ4 / Zstandard)
//
// ✨ Parallelism policy
//
//   - One process-wide threshold T (default 32768) decides when kernels fan out.
//   - Row-oriented kernels use the derived threshold ceil(sqrt(T)).
//   - Results never depend on the policy beyond floating-point rounding.
//
// Under the hood, everything is organized into subpackages:
//
//	parallel/     - threshold policy and partitioned fan-out
//	vector/       - Dense, Sparse, dispatch, folds, enumerators
//	matrix/       - row-major coefficient matrices backing explicit tensors
//	tensor/       - linear operators and combinators
//	codec/        - binary frames with optional compression
//	config/       - defaults → YAML → environment, slog logger
//	cmd/vecspace/ - command-line front end
//
// Quick example:
//
//	a := vector.NewDenseFrom([]float64{1, 2, 3})
//	s, _ := vector.NewSparse(vector.Entry{Index: 2, Value: 10})
//	sum, _ := vector.Add(a, s) // [1, 2, 13]
//
//	go get github.com/katalvlaran/vecspace
package vecspace
