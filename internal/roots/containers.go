package roots

import (
	"sync"

	"github.com/atermgo/atermgo/internal/busylock"
	"github.com/atermgo/atermgo/internal/store"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Sequence is an ordered, randomly-indexable protected container: the root
// analogue of term_vector in the original source.
type Sequence struct {
	mu        sync.Mutex
	leaser    *busylock.Leaser
	items     []*store.Node
	unprotect func()
}

// NewSequence creates an empty Sequence registered against r. Every
// mutation takes a shared lock on leaser's Group, per spec.md §4.4, so the
// container's view is stable against a concurrent collection.
func NewSequence(r *Registry, leaser *busylock.Leaser) *Sequence {
	s := &Sequence{leaser: leaser}
	s.unprotect = r.ProtectContainer(s)
	return s
}

// Each implements Container.
func (s *Sequence) Each(fn func(*store.Node)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		fn(n)
	}
}

// Len returns the number of elements.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// At returns the element at index i.
func (s *Sequence) At(i int) *store.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[i]
}

// Set overwrites the element at index i.
func (s *Sequence) Set(i int, n *store.Node) {
	l := s.leaser.AcquireShared()
	defer s.leaser.ReleaseShared(l)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[i] = n
}

// Append adds n to the end of the sequence.
func (s *Sequence) Append(n *store.Node) {
	l := s.leaser.AcquireShared()
	defer s.leaser.ReleaseShared(l)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
}

// Insert places n at index i, shifting later elements right.
func (s *Sequence) Insert(i int, n *store.Node) {
	l := s.leaser.AcquireShared()
	defer s.leaser.ReleaseShared(l)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Insert(s.items, i, n)
}

// RemoveAt deletes the element at index i, shifting later elements left.
func (s *Sequence) RemoveAt(i int) {
	l := s.leaser.AcquireShared()
	defer s.leaser.ReleaseShared(l)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Delete(s.items, i, i+1)
}

// Close deregisters the sequence from its registry. Further use is invalid.
func (s *Sequence) Close() { s.unprotect() }

// Deque is a double-ended protected container, the root analogue of
// term_deque.
type Deque struct {
	mu        sync.Mutex
	leaser    *busylock.Leaser
	items     []*store.Node
	unprotect func()
}

// NewDeque creates an empty Deque registered against r.
func NewDeque(r *Registry, leaser *busylock.Leaser) *Deque {
	d := &Deque{leaser: leaser}
	d.unprotect = r.ProtectContainer(d)
	return d
}

// Each implements Container.
func (d *Deque) Each(fn func(*store.Node)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.items {
		fn(n)
	}
}

// Len returns the number of elements.
func (d *Deque) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// PushFront prepends n.
func (d *Deque) PushFront(n *store.Node) {
	l := d.leaser.AcquireShared()
	defer d.leaser.ReleaseShared(l)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = slices.Insert(d.items, 0, n)
}

// PushBack appends n.
func (d *Deque) PushBack(n *store.Node) {
	l := d.leaser.AcquireShared()
	defer d.leaser.ReleaseShared(l)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, n)
}

// PopFront removes and returns the first element.
func (d *Deque) PopFront() *store.Node {
	l := d.leaser.AcquireShared()
	defer d.leaser.ReleaseShared(l)
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.items[0]
	d.items = slices.Delete(d.items, 0, 1)
	return n
}

// PopBack removes and returns the last element.
func (d *Deque) PopBack() *store.Node {
	l := d.leaser.AcquireShared()
	defer d.leaser.ReleaseShared(l)
	d.mu.Lock()
	defer d.mu.Unlock()
	last := len(d.items) - 1
	n := d.items[last]
	d.items = d.items[:last]
	return n
}

// Close deregisters the deque from its registry.
func (d *Deque) Close() { d.unprotect() }

// Stack is a LIFO protected container, the root analogue of term_stack.
type Stack struct {
	mu        sync.Mutex
	leaser    *busylock.Leaser
	items     []*store.Node
	unprotect func()
}

// NewStack creates an empty Stack registered against r.
func NewStack(r *Registry, leaser *busylock.Leaser) *Stack {
	s := &Stack{leaser: leaser}
	s.unprotect = r.ProtectContainer(s)
	return s
}

// Each implements Container.
func (s *Stack) Each(fn func(*store.Node)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		fn(n)
	}
}

// Len returns the number of elements.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Push adds n to the top.
func (s *Stack) Push(n *store.Node) {
	l := s.leaser.AcquireShared()
	defer s.leaser.ReleaseShared(l)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
}

// Pop removes and returns the top element.
func (s *Stack) Pop() *store.Node {
	l := s.leaser.AcquireShared()
	defer s.leaser.ReleaseShared(l)
	s.mu.Lock()
	defer s.mu.Unlock()
	last := len(s.items) - 1
	n := s.items[last]
	s.items = s.items[:last]
	return n
}

// Peek returns the top element without removing it.
func (s *Stack) Peek() *store.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[len(s.items)-1]
}

// Close deregisters the stack from its registry.
func (s *Stack) Close() { s.unprotect() }

// Mapping is a Node-to-Node protected container, the root analogue of
// term_map: both keys and values need tracing, since either may be the only
// reference keeping a term logically alive.
type Mapping struct {
	mu        sync.Mutex
	leaser    *busylock.Leaser
	entries   map[*store.Node]*store.Node
	unprotect func()
}

// NewMapping creates an empty Mapping registered against r.
func NewMapping(r *Registry, leaser *busylock.Leaser) *Mapping {
	m := &Mapping{leaser: leaser, entries: make(map[*store.Node]*store.Node)}
	m.unprotect = r.ProtectContainer(m)
	return m
}

// Each implements Container: every key and every value is offered.
func (m *Mapping) Each(fn func(*store.Node)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.entries {
		fn(k)
		fn(v)
	}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Get returns the value mapped to key, and whether it was present.
func (m *Mapping) Get(key *store.Node) (*store.Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

// Put sets key to value.
func (m *Mapping) Put(key, value *store.Node) {
	l := m.leaser.AcquireShared()
	defer m.leaser.ReleaseShared(l)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// Delete removes key.
func (m *Mapping) Delete(key *store.Node) {
	l := m.leaser.AcquireShared()
	defer m.leaser.ReleaseShared(l)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Keys returns a snapshot of every key currently present.
func (m *Mapping) Keys() []*store.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Keys(m.entries)
}

// Close deregisters the mapping from its registry.
func (m *Mapping) Close() { m.unprotect() }
