// SPDX-License-Identifier: MIT

// Package parallel holds the process-wide parallelism policy shared by every
// vector, matrix and tensor kernel in vecspace.
//
// Purpose:
//   - Keep ONE tunable integer (the length threshold T) and its derived
//     ceiling square root in a single immutable snapshot.
//   - Let kernels pick sequential vs data-parallel execution per call from a
//     consistent snapshot (never a torn {T, sqrtT} pair).
//   - Provide the fan-out helpers (For, Sum, Rows) that partition an index
//     range and block until every partition completes.
//
// Determinism & Policy:
//   - Partitioning depends only on (n, GOMAXPROCS); repeated identical calls
//     produce identical partitions.
//   - Partial sums are combined in partition order after all partitions end.
//
// AI-Hints:
//   - Call Current() once per operation and pass the snapshot down; do not
//     re-read Threshold() in the middle of a kernel.
//   - Use SetThreshold at startup (config.Apply does it for you).
package parallel

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
)

// DefaultThreshold is the element count at and above which kernels fan out.
const DefaultThreshold = 32768

// ErrInvalidThreshold is returned by SetThreshold for non-positive values.
var ErrInvalidThreshold = errors.New("parallel: threshold must be > 0")

// Policy is an immutable snapshot of the parallelism configuration.
//   - Threshold: minimum element count for element-wise/reduction fan-out.
//   - SqrtThreshold: ceil(sqrt(Threshold)), used by row/column (grid) fan-out.
type Policy struct {
	Threshold     int // T
	SqrtThreshold int // ceil(sqrt(T))
}

// current holds the active snapshot; swapped atomically as a whole.
var current atomic.Pointer[Policy]

// logger receives policy change events; discards by default.
var logger atomic.Pointer[slog.Logger]

func init() {
	current.Store(newPolicy(DefaultThreshold))
	logger.Store(slog.New(slog.DiscardHandler))
}

// newPolicy derives the paired snapshot for threshold t (t > 0).
func newPolicy(t int) *Policy {
	return &Policy{Threshold: t, SqrtThreshold: ceilSqrt(t)}
}

// ceilSqrt returns the smallest s with s*s >= n, for n >= 0.
// The float estimate is corrected in integer space so large n stay exact.
func ceilSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	s := int(math.Ceil(math.Sqrt(float64(n))))
	for s > 0 && (s-1)*(s-1) >= n {
		s--
	}
	for s*s < n {
		s++
	}

	return s
}

// Current returns the active policy snapshot.
// Complexity: O(1), lock-free.
func Current() Policy { return *current.Load() }

// Threshold returns the active length threshold T.
func Threshold() int { return current.Load().Threshold }

// SqrtThreshold returns the active derived threshold ceil(sqrt(T)).
func SqrtThreshold() int { return current.Load().SqrtThreshold }

// SetThreshold installs a new threshold and recomputes its square-root
// counterpart in the same atomic swap. Returns the previous snapshot.
//
// Errors:
//   - ErrInvalidThreshold when t <= 0 (the active policy is left unchanged).
func SetThreshold(t int) (Policy, error) {
	if t <= 0 {
		return Current(), fmt.Errorf("SetThreshold(%d): %w", t, ErrInvalidThreshold)
	}
	next := newPolicy(t)
	prev := current.Swap(next)
	logger.Load().Info("parallel threshold changed",
		"previous", prev.Threshold,
		"threshold", next.Threshold,
		"sqrt_threshold", next.SqrtThreshold,
	)

	return *prev, nil
}

// Reset restores DefaultThreshold.
func Reset() {
	_, _ = SetThreshold(DefaultThreshold) // DefaultThreshold > 0, cannot fail
}

// SetLogger installs the logger used for policy events. nil restores the
// discarding logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger { return logger.Load() }

// Splits reports whether an element-wise operation over n elements runs in
// parallel under this snapshot.
func (p Policy) Splits(n int) bool { return n >= p.Threshold && n >= 2 }

// SplitsGrid reports whether a rows×cols operation fans out over rows.
// The square-root pair short-circuits the common case; otherwise the
// product is compared without overflowing (rows*cols >= T  <=>  rows >= ceil(T/cols)).
func (p Policy) SplitsGrid(rows, cols int) bool {
	if rows < 2 || cols <= 0 {
		return false
	}
	if rows >= p.SqrtThreshold && cols >= p.SqrtThreshold {
		return true
	}

	return rows >= (p.Threshold+cols-1)/cols
}
