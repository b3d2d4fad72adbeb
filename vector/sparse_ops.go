// SPDX-License-Identifier: MIT
// Package vector: Sparse allocating operators (merge-walk algebra).
//
// Purpose:
//   - Add/Sub/Dot between two sparse vectors in O(n₁+n₂) by walking both
//     ascending chains in lock-step; neither input is modified.
//   - DotDense in O(nnz): only stored entries are visited.
//   - Scale/Div/Neg rebuild a fresh chain. Scale(0) yields an empty vector,
//     any other factor keeps zero-valued entries.
//
// Locking:
//   - Two-operand walks hold both mutexes (lockPair) for the whole walk, so
//     the result reflects one consistent view of each chain.

package vector

// mergeLocked walks a and b in index order and emits a[i] + sign·b[i] over
// the union of stored indices. Caller holds both locks.
//
// Stage 1: both cursors live → emit the smaller index, or the combined tie.
// Stage 2: drain the remaining cursor.
func mergeLocked(a, b *Sparse, sign float64) []Entry {
	out := make([]Entry, 0, len(a.nodes)+len(b.nodes))
	la, lb := a.head, b.head
	for la != nilLink && lb != nilLink {
		na, nb := &a.nodes[la-1], &b.nodes[lb-1]
		switch {
		case na.index < nb.index:
			out = append(out, Entry{Index: na.index, Value: na.value})
			la = na.next
		case nb.index < na.index:
			out = append(out, Entry{Index: nb.index, Value: sign * nb.value})
			lb = nb.next
		default: // tie
			out = append(out, Entry{Index: na.index, Value: na.value + sign*nb.value})
			la, lb = na.next, nb.next
		}
	}
	for ; la != nilLink; la = a.nodes[la-1].next {
		na := &a.nodes[la-1]
		out = append(out, Entry{Index: na.index, Value: na.value})
	}
	for ; lb != nilLink; lb = b.nodes[lb-1].next {
		nb := &b.nodes[lb-1]
		out = append(out, Entry{Index: nb.index, Value: sign * nb.value})
	}

	return out
}

// Add returns s + o as a new sparse vector holding the union of both index sets.
// Indices absent from both inputs stay absent.
// Errors: ErrNilArgument.
// Complexity: Time O(n₁+n₂), Space O(n₁+n₂).
func (s *Sparse) Add(o *Sparse) (*Sparse, error) {
	if err := validateSparsePair(s, o); err != nil {
		return nil, vectorErrorf(opAdd, err)
	}

	return s.merge(o, +1), nil
}

// Sub returns s - o as a new sparse vector. Same contract as Add.
func (s *Sparse) Sub(o *Sparse) (*Sparse, error) {
	if err := validateSparsePair(s, o); err != nil {
		return nil, vectorErrorf(opSub, err)
	}

	return s.merge(o, -1), nil
}

func (s *Sparse) merge(o *Sparse, sign float64) *Sparse {
	unlock := lockPair(s, o)
	entries := mergeLocked(s, o, sign)
	unlock()

	out := &Sparse{}
	out.rebuildLocked(entries)

	return out
}

// Dot returns Σ s[i]·o[i] over indices stored in both vectors.
// Errors: ErrNilArgument.
// Complexity: O(n₁+n₂).
func (s *Sparse) Dot(o *Sparse) (float64, error) {
	if err := validateSparsePair(s, o); err != nil {
		return 0, vectorErrorf(opDot, err)
	}
	unlock := lockPair(s, o)
	defer unlock()

	var acc float64
	la, lb := s.head, o.head
	for la != nilLink && lb != nilLink {
		na, nb := &s.nodes[la-1], &o.nodes[lb-1]
		switch {
		case na.index < nb.index:
			la = na.next
		case nb.index < na.index:
			lb = nb.next
		default:
			acc += na.value * nb.value
			la, lb = na.next, nb.next
		}
	}

	return acc, nil
}

// DotDense returns Σ s[i]·d[i], visiting only the stored entries of s.
// Errors:
//   - ErrNilArgument for a nil operand.
//   - ErrLengthMismatch when a stored index is >= d.Len().
//
// Complexity: O(nnz).
func (s *Sparse) DotDense(d *Dense) (float64, error) {
	if s == nil || d == nil {
		return 0, vectorErrorf(opDot, ErrNilArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := validateFits(s, len(d.data)); err != nil {
		return 0, vectorErrorf(opDot, err)
	}
	var acc float64
	for l := s.head; l != nilLink; l = s.nodes[l-1].next {
		nd := &s.nodes[l-1]
		acc += nd.value * d.data[nd.index]
	}

	return acc, nil
}

// Scale returns alpha·s as a fresh chain; a nil receiver yields nil.
// alpha == 0 returns an empty vector; otherwise every stored index survives,
// including those whose value becomes 0.
// Complexity: O(nnz).
func (s *Sparse) Scale(alpha float64) *Sparse {
	if s == nil {
		return nil
	}
	if alpha == 0 {
		return &Sparse{}
	}

	return s.mapValues(func(v float64) float64 { return v * alpha }, false)
}

// Div returns s/alpha as a fresh chain.
// Errors: ErrNilArgument, ErrDivisionByZero.
func (s *Sparse) Div(alpha float64) (*Sparse, error) {
	if s == nil {
		return nil, vectorErrorf(opDiv, ErrNilArgument)
	}
	if alpha == 0 {
		return nil, vectorErrorf(opDiv, ErrDivisionByZero)
	}

	return s.mapValues(func(v float64) float64 { return v / alpha }, false), nil
}

// Neg returns -s (nil for a nil receiver); the cached norm carries over.
func (s *Sparse) Neg() *Sparse {
	if s == nil {
		return nil
	}

	return s.mapValues(func(v float64) float64 { return -v }, true)
}

// mapValues copies the chain applying f to every value. With keepNorm the
// source's norm cache is copied from the same snapshot.
func (s *Sparse) mapValues(f func(float64) float64, keepNorm bool) *Sparse {
	s.mu.Lock()
	entries := s.entriesLocked()
	norm2, normOK := s.norm2, s.normOK
	s.mu.Unlock()
	for i := range entries {
		entries[i].Value = f(entries[i].Value)
	}
	out := &Sparse{}
	out.rebuildLocked(entries)
	if keepNorm {
		out.norm2, out.normOK = norm2, normOK
	}

	return out
}
