// SPDX-License-Identifier: MIT

package vector

// Enumerator walks a sparse vector forward, once, in ascending index order.
//
// It reads a snapshot taken by Enumerate, so later mutations of the vector
// are not observed. Starting over requires a new Enumerator.
type Enumerator struct {
	entries []Entry
	pos     int // -1 before the first Next, len(entries) once exhausted
}

// Enumerate returns a new Enumerator positioned before the first entry.
func (s *Sparse) Enumerate() *Enumerator {
	return &Enumerator{entries: s.Entries(), pos: -1}
}

// Next advances to the following entry and reports whether one exists.
func (e *Enumerator) Next() bool {
	if e.pos < len(e.entries) {
		e.pos++
	}

	return e.pos < len(e.entries)
}

// Current returns the entry under the cursor.
// Errors: ErrInvalidEnumeratorState before the first Next or after exhaustion.
func (e *Enumerator) Current() (Entry, error) {
	if e.pos < 0 || e.pos >= len(e.entries) {
		return Entry{}, ErrInvalidEnumeratorState
	}

	return e.entries[e.pos], nil
}
