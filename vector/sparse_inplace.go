// SPDX-License-Identifier: MIT
// Package vector: Sparse in-place operators.
//
// Every method here validates first, then mutates inside one critical section
// that also drops the lazy index cache and the norm cache. A failed call leaves
// the receiver untouched.

package vector

// AddInPlace performs s += o and returns s.
// MAIN DESCRIPTION:
//   - o sparse: indices unique to o are spliced into the chain in order,
//     shared indices are updated in place.
//   - o dense: every index in [0, o.Len()) becomes stored. Existing entries
//     are combined, the gaps before, between and after them are filled.
//
// Errors:
//   - ErrNilArgument, ErrUnsupportedVectorType.
//   - ErrLengthMismatch when o is dense and a stored index of s is >= o.Len().
//
// Complexity:
//   - Sparse operand: O(n₁+n₂). Dense operand: O(n + nnz).
func (s *Sparse) AddInPlace(o Vector) (*Sparse, error) {
	if err := s.accumulate(o, +1); err != nil {
		return nil, vectorErrorf(opAddInPlace, err)
	}

	return s, nil
}

// SubInPlace performs s -= o and returns s. Same contract as AddInPlace.
func (s *Sparse) SubInPlace(o Vector) (*Sparse, error) {
	if err := s.accumulate(o, -1); err != nil {
		return nil, vectorErrorf(opSubInPlace, err)
	}

	return s, nil
}

func (s *Sparse) accumulate(o Vector, sign float64) error {
	if s == nil {
		return ErrNilArgument
	}
	switch v := o.(type) {
	case *Sparse:
		if v == nil {
			return ErrNilArgument
		}
		s.spliceSparse(v, sign)

		return nil
	case *Dense:
		if v == nil {
			return ErrNilArgument
		}

		return s.fillDense(v, sign)
	case nil:
		return ErrNilArgument
	default:
		return ErrUnsupportedVectorType
	}
}

// spliceSparse merges sign·o into s. The operand is snapshotted first, so
// s.AddInPlace(s) is well defined.
func (s *Sparse) spliceSparse(o *Sparse, sign float64) {
	unlock := lockPair(s, o)
	defer unlock()
	src := o.entriesLocked()

	prev, cur := nilLink, s.head
	for _, e := range src {
		for cur != nilLink && s.nodes[cur-1].index < e.Index {
			prev, cur = cur, s.nodes[cur-1].next
		}
		if cur != nilLink && s.nodes[cur-1].index == e.Index {
			s.nodes[cur-1].value += sign * e.Value
			prev, cur = cur, s.nodes[cur-1].next
			continue
		}
		s.nodes = append(s.nodes, node{index: e.Index, value: sign * e.Value, next: cur})
		link := len(s.nodes)
		s.linkAfterLocked(prev, link)
		prev = link
	}
	s.invalidateLocked()
}

// fillDense rewrites s as s + sign·d over [0, d.Len()) in one pass.
//
// Implementation:
//   - Stage 1: validate that the tail index fits d (no mutation yet).
//   - Stage 2: walk i = 0..n-1 with one chain cursor; at a stored index emit
//     old+sign·d[i] and advance the cursor, otherwise emit sign·d[i].
//   - Stage 3: install the new arena (already linked in order).
func (s *Sparse) fillDense(d *Dense, sign float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(d.data)
	if err := validateFits(s, n); err != nil {
		return err
	}

	nodes := make([]node, n)
	cur := s.head
	for i := 0; i < n; i++ {
		v := sign * d.data[i]
		if cur != nilLink && s.nodes[cur-1].index == i {
			v += s.nodes[cur-1].value
			cur = s.nodes[cur-1].next
		}
		nodes[i] = node{index: i, value: v, next: i + 2}
	}
	if n == 0 {
		s.nodes, s.head = nil, nilLink
	} else {
		nodes[n-1].next = nilLink
		s.nodes, s.head = nodes, 1
	}
	s.invalidateLocked()

	return nil
}

// ScaleInPlace performs s *= alpha and returns s (nil stays nil).
// alpha == 0 clears the chain instead of keeping zero entries.
// Complexity: O(nnz).
func (s *Sparse) ScaleInPlace(alpha float64) *Sparse {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if alpha == 0 {
		s.rebuildLocked(nil)
		return s
	}
	for i := range s.nodes {
		s.nodes[i].value *= alpha
	}
	s.invalidateLocked()

	return s
}

// DivInPlace performs s /= alpha and returns s.
// Errors: ErrNilArgument, ErrDivisionByZero (s unchanged).
func (s *Sparse) DivInPlace(alpha float64) (*Sparse, error) {
	if s == nil {
		return nil, vectorErrorf(opDivInPlace, ErrNilArgument)
	}
	if alpha == 0 {
		return nil, vectorErrorf(opDivInPlace, ErrDivisionByZero)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		s.nodes[i].value /= alpha
	}
	s.invalidateLocked()

	return s, nil
}

// NegInPlace performs s = -s and returns s (nil stays nil).
func (s *Sparse) NegInPlace() *Sparse {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		s.nodes[i].value = -s.nodes[i].value
	}
	s.invalidateLocked()

	return s
}
