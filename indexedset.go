package atermgo

import (
	"sync"

	"github.com/atermgo/atermgo/internal/store"
)

// IndexedSet assigns a stable, dense small integer index to each distinct
// term inserted -- supplemental plumbing for client code needing a
// Term<->int correspondence (e.g. a rewriter's substitution vector), rather
// than a core hash-consing requirement. Grounded on
// original_source/libraries/atermpp/include/mcrl2/atermpp/indexed_set.h.
type IndexedSet struct {
	mu    sync.Mutex
	index map[*store.Node]int
	terms []Term
}

// NewIndexedSet creates an empty IndexedSet.
func NewIndexedSet() *IndexedSet {
	return &IndexedSet{index: make(map[*store.Node]int)}
}

// Put inserts t if it is not already present, returning its stable index
// either way, and whether this call performed the insertion.
func (s *IndexedSet) Put(t Term) (index int, inserted bool) {
	n := t.node()
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[n]; ok {
		return i, false
	}
	index = len(s.terms)
	s.index[n] = index
	s.terms = append(s.terms, t)
	return index, true
}

// Index returns the index assigned to t, and whether t is present.
func (s *IndexedSet) Index(t Term) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[t.node()]
	return i, ok
}

// At returns the term assigned index i.
func (s *IndexedSet) At(i int) Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terms[i]
}

// Len returns the number of distinct terms currently held.
func (s *IndexedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.terms)
}
