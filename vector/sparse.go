// SPDX-License-Identifier: MIT

// Package vector - Sparse storage: ordered entry chain + lazy index cache.
//
// Layout:
//   - nodes is an arena; links are 1-based positions into it (0 == end of chain),
//     so the zero value of Sparse is a valid empty vector.
//   - The chain starting at head is strictly ascending by index. Splices append
//     to the arena and relink; nodes are never orphaned except by a full rebuild.
//   - cache maps index → link. It is valid only in state cacheBuilt, i.e.
//     between the last mutation and the next one.
//
// Concurrency:
//   - mu guards nodes, head, cache and the norm cache. Every mutation and the
//     cache build run inside it. Operations touching two sparse vectors lock
//     them in sequence-id order.

package vector

import (
	"fmt"
	"iter"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// nilLink terminates a chain.
const nilLink = 0

// cacheState is the explicit lazy-cache state machine.
type cacheState uint8

const (
	cacheUnbuilt cacheState = iota // cache must be (re)built before use
	cacheBuilt                     // cache mirrors the current chain
)

// node is one chain element stored in the arena.
type node struct {
	index int     // non-negative, strictly ascending along the chain
	value float64 // explicit value (zero allowed)
	next  int     // 1-based link to the successor, nilLink at the tail
}

// seqCounter hands out lock-ordering ids.
var seqCounter atomic.Uint64

// Sparse is a vector represented only by its stored entries.
// Absent indices read as 0. There is no stored length: cross-type operations
// take it from the dense operand.
type Sparse struct {
	mu sync.Mutex

	seq   atomic.Uint64 // lazily assigned lock-ordering id
	nodes []node        // arena
	head  int           // 1-based link of the first entry

	state cacheState  // lazy cache state
	cache map[int]int // index → link, meaningful only when state == cacheBuilt

	norm2  float64 // cached Σ value²
	normOK bool    // norm cache validity
}

// NewSparse builds a sparse vector from entries already sorted strictly
// ascending by index.
//
// Errors:
//   - ErrOrderViolation when an index is <= its predecessor's.
//   - ErrOutOfRange when an index is negative.
//
// Complexity: Time O(n), Space O(n).
func NewSparse(entries ...Entry) (*Sparse, error) {
	if err := validateEntries(entries); err != nil {
		return nil, vectorErrorf("NewSparse", err)
	}
	s := &Sparse{}
	s.rebuildLocked(entries)

	return s, nil
}

// Sparsify builds a sparse vector holding the non-zero positions of d.
// Errors: ErrNilArgument.
// Complexity: O(n).
func Sparsify(d *Dense) (*Sparse, error) {
	if d == nil {
		return nil, vectorErrorf("Sparsify", ErrNilArgument)
	}
	entries := make([]Entry, 0)
	for i, v := range d.data {
		if v != 0 {
			entries = append(entries, Entry{Index: i, Value: v})
		}
	}
	s := &Sparse{}
	s.rebuildLocked(entries)

	return s, nil
}

// Kind reports KindSparse.
func (s *Sparse) Kind() Kind { return KindSparse }

func (s *Sparse) sealed() {}

// order returns the lock-ordering id, assigning one on first use.
func (s *Sparse) order() uint64 {
	if id := s.seq.Load(); id != 0 {
		return id
	}
	s.seq.CompareAndSwap(0, seqCounter.Add(1))

	return s.seq.Load()
}

// lockPair locks a and b (once if they are the same instance) in a global
// order and returns the matching unlock.
func lockPair(a, b *Sparse) (unlock func()) {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if b.order() < a.order() {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()

	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// ---------- internal helpers (caller holds s.mu) ----------

// rebuildLocked replaces the chain with entries laid out in arena order.
// entries must already be validated.
func (s *Sparse) rebuildLocked(entries []Entry) {
	if len(entries) == 0 {
		s.nodes, s.head = nil, nilLink
		s.invalidateLocked()
		return
	}
	nodes := make([]node, len(entries))
	for i, e := range entries {
		nodes[i] = node{index: e.Index, value: e.Value, next: i + 2}
	}
	nodes[len(nodes)-1].next = nilLink
	s.nodes, s.head = nodes, 1
	s.invalidateLocked()
}

// invalidateLocked drops the lazy cache and the norm cache.
// Must run inside the same critical section as the mutation.
func (s *Sparse) invalidateLocked() {
	s.state = cacheUnbuilt
	s.cache = nil
	s.normOK = false
}

// ensureCacheLocked builds index → link once per mutation epoch.
func (s *Sparse) ensureCacheLocked() {
	if s.state == cacheBuilt {
		return
	}
	c := make(map[int]int, len(s.nodes))
	for l := s.head; l != nilLink; l = s.nodes[l-1].next {
		c[s.nodes[l-1].index] = l
	}
	s.cache, s.state = c, cacheBuilt
}

// entriesLocked snapshots the chain in ascending order.
func (s *Sparse) entriesLocked() []Entry {
	out := make([]Entry, 0, len(s.nodes))
	for l := s.head; l != nilLink; l = s.nodes[l-1].next {
		nd := &s.nodes[l-1]
		out = append(out, Entry{Index: nd.index, Value: nd.value})
	}

	return out
}

// lastIndexLocked returns the largest stored index (the tail's).
func (s *Sparse) lastIndexLocked() (int, bool) {
	if s.head == nilLink {
		return 0, false
	}
	l := s.head
	for s.nodes[l-1].next != nilLink {
		l = s.nodes[l-1].next
	}

	return s.nodes[l-1].index, true
}

// ---------- public surface ----------

// At returns the value stored at index i, or 0 when i is absent.
// MAIN DESCRIPTION:
//   - First read after a mutation builds the index cache under the mutex;
//     later reads are expected O(1) map lookups.
//
// Errors:
//   - ErrOutOfRange when i < 0.
func (s *Sparse) At(i int) (float64, error) {
	if i < 0 {
		return 0, fmt.Errorf("Sparse.At(%d): %w", i, ErrOutOfRange)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureCacheLocked()
	if l, ok := s.cache[i]; ok {
		return s.nodes[l-1].value, nil
	}

	return 0, nil
}

// Set stores v at index i, inserting a new entry in order when i is absent.
// Errors: ErrOutOfRange when i < 0.
// Complexity: O(nnz) walk.
func (s *Sparse) Set(i int, v float64) error {
	if i < 0 {
		return fmt.Errorf("Sparse.Set(%d): %w", i, ErrOutOfRange)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, cur := nilLink, s.head
	for cur != nilLink && s.nodes[cur-1].index < i {
		prev, cur = cur, s.nodes[cur-1].next
	}
	if cur != nilLink && s.nodes[cur-1].index == i {
		s.nodes[cur-1].value = v
	} else {
		s.nodes = append(s.nodes, node{index: i, value: v, next: cur})
		s.linkAfterLocked(prev, len(s.nodes))
	}
	s.invalidateLocked()

	return nil
}

// linkAfterLocked makes link the successor of prev (or the new head).
func (s *Sparse) linkAfterLocked(prev, link int) {
	if prev == nilLink {
		s.head = link
		return
	}
	s.nodes[prev-1].next = link
}

// Nnz returns the number of stored entries (zeros included).
func (s *Sparse) Nnz() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.nodes)
}

// MaxIndex returns the largest stored index; ok is false for an empty vector.
func (s *Sparse) MaxIndex() (idx int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastIndexLocked()
}

// Entries returns a snapshot of the stored entries in ascending index order.
func (s *Sparse) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entriesLocked()
}

// All iterates over a snapshot of (index, value) pairs in ascending order.
func (s *Sparse) All() iter.Seq2[int, float64] {
	entries := s.Entries()

	return func(yield func(int, float64) bool) {
		for _, e := range entries {
			if !yield(e.Index, e.Value) {
				return
			}
		}
	}
}

// Support returns the set of stored indices as a 64-bit roaring bitmap.
// Useful for union/intersection counting without a merge walk.
func (s *Sparse) Support() *roaring64.Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	bm := roaring64.New()
	for l := s.head; l != nilLink; l = s.nodes[l-1].next {
		bm.Add(uint64(s.nodes[l-1].index))
	}

	return bm
}

// Clone deep-copies the chain; no node is shared with s.
// The copy is laid out compactly in ascending order with an unbuilt cache.
func (s *Sparse) Clone() *Sparse {
	s.mu.Lock()
	entries := s.entriesLocked()
	norm2, normOK := s.norm2, s.normOK
	s.mu.Unlock()

	out := &Sparse{}
	out.rebuildLocked(entries)
	out.norm2, out.normOK = norm2, normOK

	return out
}

// Compact removes explicitly stored zeros in place.
func (s *Sparse) Compact() *Sparse {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.entriesLocked()
	kept := entries[:0]
	for _, e := range entries {
		if e.Value != 0 {
			kept = append(kept, e)
		}
	}
	s.rebuildLocked(kept)

	return s
}

// Norm2 returns Σ value², cached until the next mutation.
func (s *Sparse) Norm2() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.normOK {
		var acc float64
		for i := range s.nodes {
			acc += s.nodes[i].value * s.nodes[i].value
		}
		s.norm2, s.normOK = acc, true
	}

	return s.norm2
}

// Norm returns √Norm2().
func (s *Sparse) Norm() float64 { return math.Sqrt(s.Norm2()) }

// cacheReady reports whether the lazy index cache is currently built.
func (s *Sparse) cacheReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state == cacheBuilt
}

// String renders "{i:v, ...}" in ascending index order.
func (s *Sparse) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, e := range s.Entries() {
		if i > 0 {
			b.WriteString(_fmtSep)
		}
		fmt.Fprintf(&b, "%d:%g", e.Index, e.Value)
	}
	b.WriteString("}")

	return b.String()
}
