// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/vecspace/vector"
)

// parseVector reads the notation printed by the vector types:
//
//	"[1, 2.5, -3]"  or "1,2.5,-3"   dense
//	"{0:1, 7:-2}"   or "0:1,7:-2"   sparse (ascending indices)
//
// Braces, or any token containing ':', make the literal sparse; "{}" is the
// empty sparse vector.
func parseVector(s string) (vector.Vector, error) {
	body := strings.TrimSpace(s)
	braced := strings.HasPrefix(body, "{")
	body = strings.TrimPrefix(strings.TrimPrefix(body, "["), "{")
	body = strings.TrimSuffix(strings.TrimSuffix(body, "]"), "}")
	body = strings.TrimSpace(body)

	var tokens []string
	if body != "" {
		tokens = strings.Split(body, ",")
	}
	if braced || strings.Contains(body, ":") {
		entries := make([]vector.Entry, 0, len(tokens))
		for _, tok := range tokens {
			idx, val, ok := strings.Cut(strings.TrimSpace(tok), ":")
			if !ok {
				return nil, fmt.Errorf("parse %q: entry %q is not index:value", s, tok)
			}
			i, err := strconv.Atoi(strings.TrimSpace(idx))
			if err != nil {
				return nil, fmt.Errorf("parse %q: index: %w", s, err)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				return nil, fmt.Errorf("parse %q: value: %w", s, err)
			}
			entries = append(entries, vector.Entry{Index: i, Value: v})
		}
		return vector.NewSparse(entries...)
	}

	vals, err := parseFloats(tokens)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", s, err)
	}

	return vector.NewDenseFrom(vals), nil
}

func parseFloats(tokens []string) ([]float64, error) {
	vals := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	return vals, nil
}

// parseDense is parseVector restricted to dense literals.
func parseDense(s string) (*vector.Dense, error) {
	v, err := parseVector(s)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*vector.Dense)
	if !ok {
		return nil, fmt.Errorf("parse %q: %w", s, vector.ErrUnsupportedVectorType)
	}

	return d, nil
}
