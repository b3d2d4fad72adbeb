// SPDX-License-Identifier: MIT
// Package vector: JSON persistence.
//
// Persisted fields only:
//   - Dense  → its value sequence as a JSON array. The norm cache is dropped.
//   - Sparse → {"entries":[{"index":i,"value":v}, ...]}. The lazy index cache
//     is dropped and starts unbuilt after decoding.

package vector

import (
	"encoding/json"
	"fmt"
)

// sparseDoc is the persisted shape of a Sparse vector.
type sparseDoc struct {
	Entries []Entry `json:"entries"`
}

// MarshalJSON encodes the backing values.
func (d *Dense) MarshalJSON() ([]byte, error) {
	if d.data == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(d.data)
}

// UnmarshalJSON replaces d with the decoded values; the norm cache is reset.
func (d *Dense) UnmarshalJSON(b []byte) error {
	var vals []float64
	if err := json.Unmarshal(b, &vals); err != nil {
		return fmt.Errorf("Dense.UnmarshalJSON: %w", err)
	}
	if vals == nil {
		vals = []float64{}
	}
	d.data, d.norm2, d.normOK = vals, 0, false

	return nil
}

// MarshalJSON encodes the stored entries in ascending order.
func (s *Sparse) MarshalJSON() ([]byte, error) {
	return json.Marshal(sparseDoc{Entries: s.Entries()})
}

// UnmarshalJSON replaces s with the decoded entries.
// Errors: ErrOrderViolation / ErrOutOfRange for badly ordered input (s unchanged).
func (s *Sparse) UnmarshalJSON(b []byte) error {
	var doc sparseDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("Sparse.UnmarshalJSON: %w", err)
	}
	if err := validateEntries(doc.Entries); err != nil {
		return vectorErrorf("Sparse.UnmarshalJSON", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildLocked(doc.Entries)

	return nil
}
