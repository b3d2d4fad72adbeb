// SPDX-License-Identifier: MIT

package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open index window [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns Hi-Lo.
func (r Range) Len() int { return r.Hi - r.Lo }

// Partitions splits [0, n) into at most GOMAXPROCS contiguous, near-equal
// ranges (the first n%p ranges get one extra element).
// Deterministic for a given (n, GOMAXPROCS). Returns nil for n <= 0.
// Complexity: O(p).
func Partitions(n int) []Range {
	if n <= 0 {
		return nil
	}
	p := runtime.GOMAXPROCS(0)
	if p < 2 {
		p = 2 // keep the parallel path observable on single-CPU hosts
	}
	if p > n {
		p = n
	}
	base, extra := n/p, n%p
	out := make([]Range, p)
	lo := 0
	for i := 0; i < p; i++ {
		hi := lo + base
		if i < extra {
			hi++
		}
		out[i] = Range{Lo: lo, Hi: hi}
		lo = hi
	}

	return out
}

// Each runs fn once per range concurrently and blocks until all return.
// The first non-nil error is returned after every partition has finished.
func Each(parts []Range, fn func(part int, r Range) error) error {
	var g errgroup.Group
	for i, r := range parts {
		g.Go(func() error { return fn(i, r) })
	}

	return g.Wait()
}

// For applies body over [0, n): one sequential call below the threshold,
// otherwise one call per partition, concurrently. Partitions are disjoint, so
// body may write its own window of a shared output slice without locking.
func (p Policy) For(n int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if !p.Splits(n) {
		body(0, n)
		return
	}
	_ = Each(Partitions(n), func(_ int, r Range) error {
		body(r.Lo, r.Hi)
		return nil
	})
}

// Sum reduces [0, n) with partial(lo, hi). Below the threshold it is a single
// sequential call. Above it each partition computes a local partial sum into
// its own slot; the slots are folded into the total in partition order once
// all partitions are done, so no two partitions ever write the total.
func (p Policy) Sum(n int, partial func(lo, hi int) float64) float64 {
	if n <= 0 {
		return 0
	}
	if !p.Splits(n) {
		return partial(0, n)
	}
	parts := Partitions(n)
	sums := make([]float64, len(parts))
	_ = Each(parts, func(i int, r Range) error {
		sums[i] = partial(r.Lo, r.Hi)
		return nil
	})
	var total float64
	for _, s := range sums {
		total += s
	}

	return total
}

// Rows applies body over output rows [0, rows) of a rows×cols operation,
// fanning out over row ranges when SplitsGrid(rows, cols) holds.
func (p Policy) Rows(rows, cols int, body func(lo, hi int)) {
	if rows <= 0 {
		return
	}
	if !p.SplitsGrid(rows, cols) {
		body(0, rows)
		return
	}
	_ = Each(Partitions(rows), func(_ int, r Range) error {
		body(r.Lo, r.Hi)
		return nil
	})
}

// For runs body under the current policy snapshot.
func For(n int, body func(lo, hi int)) { Current().For(n, body) }

// Sum reduces under the current policy snapshot.
func Sum(n int, partial func(lo, hi int) float64) float64 { return Current().Sum(n, partial) }

// Rows runs a row-parallel grid operation under the current policy snapshot.
func Rows(rows, cols int, body func(lo, hi int)) { Current().Rows(rows, cols, body) }
