// SPDX-License-Identifier: MIT
// Package vector: fold helpers.
//
// Sum-style folds accumulate with in-place addition. Without a seed the
// accumulator is a clone of the first vector, so no input is ever mutated;
// an empty input without a seed reports ok == false rather than a zero vector.

package vector

import (
	"github.com/katalvlaran/vecspace/parallel"
)

const (
	opSum         = "Sum"
	opSumInto     = "SumInto"
	opParallelSum = "ParallelSum"
)

// Sum folds vs left to right into a clone of vs[0].
// ok is false when vs is empty.
// Errors: anything AddInPlace reports (ErrNilArgument, ErrLengthMismatch, ...).
func Sum(vs []Vector) (sum Vector, ok bool, err error) {
	if len(vs) == 0 {
		return nil, false, nil
	}
	acc, err := Clone(vs[0])
	if err != nil {
		return nil, false, vectorErrorf(opSum, err)
	}
	if acc, err = foldInto(acc, vs[1:]); err != nil {
		return nil, false, vectorErrorf(opSum, err)
	}

	return acc, true, nil
}

// SumInto adds every vector of vs into seed and returns seed.
// seed keeps its variant. The fold runs on a scratch copy that is written
// back only on success, so a failing operand leaves seed unchanged.
func SumInto(seed Vector, vs []Vector) (Vector, error) {
	scratch, err := Clone(seed)
	if err != nil {
		return nil, vectorErrorf(opSumInto, err)
	}
	if scratch, err = foldInto(scratch, vs); err != nil {
		return nil, vectorErrorf(opSumInto, err)
	}
	assign(seed, scratch)

	return seed, nil
}

// assign overwrites dst with the contents of src, a private vector of the
// same variant produced by in-place folding into a clone of dst.
func assign(dst, src Vector) {
	switch d := dst.(type) {
	case *Dense:
		s := src.(*Dense)
		copy(d.data, s.data)
		d.norm2, d.normOK = s.norm2, s.normOK
	case *Sparse:
		entries := src.(*Sparse).Entries()
		d.mu.Lock()
		d.rebuildLocked(entries)
		d.mu.Unlock()
	}
}

// SumOf maps every item to a vector with f and folds the results like Sum.
func SumOf[T any](items []T, f func(T) Vector) (Vector, bool, error) {
	vs := make([]Vector, len(items))
	for i, it := range items {
		vs[i] = f(it)
	}

	return Sum(vs)
}

// ParallelSum folds contiguous partitions of vs concurrently, then folds the
// partition results in partition order. Vector addition is associative and
// commutative, so the result matches Sum up to floating-point rounding.
func ParallelSum(vs []Vector) (Vector, bool, error) {
	if len(vs) < 2 {
		return Sum(vs)
	}
	parts := parallel.Partitions(len(vs))
	partials := make([]Vector, len(parts))
	err := parallel.Each(parts, func(i int, r parallel.Range) error {
		p, _, err := Sum(vs[r.Lo:r.Hi])
		partials[i] = p

		return err
	})
	if err != nil {
		return nil, false, vectorErrorf(opParallelSum, err)
	}
	acc, err := foldInto(partials[0], partials[1:])
	if err != nil {
		return nil, false, vectorErrorf(opParallelSum, err)
	}

	return acc, true, nil
}

func foldInto(acc Vector, vs []Vector) (Vector, error) {
	var err error
	for _, v := range vs {
		if acc, err = AddInPlace(acc, v); err != nil {
			return nil, err
		}
	}

	return acc, nil
}
