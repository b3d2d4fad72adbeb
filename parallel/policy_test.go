// SPDX-License-Identifier: MIT

package parallel_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/katalvlaran/vecspace/parallel"
	"github.com/stretchr/testify/require"
)

// TestDefaultPolicy checks the built-in threshold pair.
func TestDefaultPolicy(t *testing.T) {
	parallel.Reset()
	p := parallel.Current()
	require.Equal(t, parallel.DefaultThreshold, p.Threshold)
	require.Equal(t, 182, p.SqrtThreshold) // 181^2 = 32761 < 32768 <= 182^2
}

// TestSetThresholdRecomputesSqrt verifies the derived ceiling square root.
func TestSetThresholdRecomputesSqrt(t *testing.T) {
	t.Cleanup(parallel.Reset)

	cases := []struct {
		in, sqrt int
	}{
		{1, 1}, {2, 2}, {4, 2}, {5, 3}, {9, 3}, {10, 4}, {100, 10}, {101, 11},
	}
	for _, tc := range cases {
		prev, err := parallel.SetThreshold(tc.in)
		require.NoError(t, err)
		require.Positive(t, prev.Threshold)
		require.Equal(t, tc.in, parallel.Threshold())
		require.Equal(t, tc.sqrt, parallel.SqrtThreshold(), "sqrt(%d)", tc.in)
	}
}

// TestSetThresholdRejectsNonPositive keeps the active policy on error.
func TestSetThresholdRejectsNonPositive(t *testing.T) {
	t.Cleanup(parallel.Reset)
	_, err := parallel.SetThreshold(64)
	require.NoError(t, err)

	for _, bad := range []int{0, -1} {
		_, err = parallel.SetThreshold(bad)
		require.ErrorIs(t, err, parallel.ErrInvalidThreshold)
		require.Equal(t, 64, parallel.Threshold())
	}
}

// TestSnapshotNeverTorn hammers SetThreshold while readers check the pair.
func TestSnapshotNeverTorn(t *testing.T) {
	t.Cleanup(parallel.Reset)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				p := parallel.Current()
				s := p.SqrtThreshold
				if s*s < p.Threshold || (s-1)*(s-1) >= p.Threshold {
					t.Errorf("torn snapshot: %+v", p)
					return
				}
			}
		}()
	}
	for i := 1; i <= 2000; i++ {
		_, _ = parallel.SetThreshold(i)
	}
	close(stop)
	wg.Wait()
}

// TestSetThresholdLogs checks the policy change event reaches the logger.
func TestSetThresholdLogs(t *testing.T) {
	var buf bytes.Buffer
	parallel.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() {
		parallel.SetLogger(nil)
		parallel.Reset()
	})

	_, err := parallel.SetThreshold(77)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "parallel threshold changed")
	require.Contains(t, buf.String(), "threshold=77")
	require.Contains(t, buf.String(), "sqrt_threshold=9")
}

// TestSplitsGrid covers the sqrt short-circuit and the overflow-safe product.
func TestSplitsGrid(t *testing.T) {
	t.Parallel()
	p := parallel.Policy{Threshold: 100, SqrtThreshold: 10}

	require.True(t, p.SplitsGrid(10, 10))
	require.True(t, p.SplitsGrid(50, 2))
	require.False(t, p.SplitsGrid(49, 2))
	require.False(t, p.SplitsGrid(1, 1000)) // single row never splits
	require.False(t, p.SplitsGrid(1000, 0))

	huge := parallel.Policy{Threshold: 1 << 62, SqrtThreshold: 1 << 31}
	require.False(t, huge.SplitsGrid(1<<20, 1<<20))
}
