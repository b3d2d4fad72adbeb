// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy.
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the non-negative tolerance used by AllClose.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true
)

const panicEpsilonInvalid = "matrix: WithEpsilon requires a finite eps >= 0"

// Options is the resolved configuration. Fields are unexported; callers
// compose it through Option setters.
type Options struct {
	eps            float64 // AllClose tolerance
	validateNaNInf bool    // reject NaN/±Inf in Set and constructors
}

// Option mutates an Options under construction.
type Option func(*Options)

// WithEpsilon sets the AllClose tolerance.
// Panics when eps is negative or not finite.
func WithEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithValidateNaNInf enables strict finite-value validation (the default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf lets NaN/±Inf through on newly created matrices.
// Existing matrices keep their policy.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions applies setters on top of the defaults (last writer wins).
// Complexity: O(len(user)).
func gatherOptions(user ...Option) Options {
	o := Options{eps: DefaultEpsilon, validateNaNInf: DefaultValidateNaNInf}
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

func isNonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
