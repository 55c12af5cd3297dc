package atermgo

import "github.com/atermgo/atermgo/internal/roots"

// Sequence is a protected, randomly-indexable collection of terms: holding
// one protects every term currently stored in it from collection, without
// registering each element as its own root, per spec.md §4.4.
type Sequence struct {
	pool *Pool
	seq  *roots.Sequence
}

// NewSequence creates an empty Sequence registered with p's root set.
func (p *Pool) NewSequence() *Sequence {
	return &Sequence{pool: p, seq: roots.NewSequence(p.roots, p.leaser)}
}

// Len returns the number of elements.
func (s *Sequence) Len() int { return s.seq.Len() }

// At returns the element at index i as a freshly rooted Term.
func (s *Sequence) At(i int) Term { return s.pool.wrap(s.seq.At(i)) }

// Set overwrites the element at index i.
func (s *Sequence) Set(i int, t Term) { s.seq.Set(i, t.node()) }

// Append adds t to the end.
func (s *Sequence) Append(t Term) { s.seq.Append(t.node()) }

// Insert places t at index i.
func (s *Sequence) Insert(i int, t Term) { s.seq.Insert(i, t.node()) }

// RemoveAt deletes the element at index i.
func (s *Sequence) RemoveAt(i int) { s.seq.RemoveAt(i) }

// Close deregisters the sequence. Further use is invalid.
func (s *Sequence) Close() { s.seq.Close() }

// Deque is a protected double-ended collection of terms.
type Deque struct {
	pool *Pool
	d    *roots.Deque
}

// NewDeque creates an empty Deque registered with p's root set.
func (p *Pool) NewDeque() *Deque {
	return &Deque{pool: p, d: roots.NewDeque(p.roots, p.leaser)}
}

// Len returns the number of elements.
func (d *Deque) Len() int { return d.d.Len() }

// PushFront prepends t.
func (d *Deque) PushFront(t Term) { d.d.PushFront(t.node()) }

// PushBack appends t.
func (d *Deque) PushBack(t Term) { d.d.PushBack(t.node()) }

// PopFront removes and returns the first element.
func (d *Deque) PopFront() Term { return d.pool.wrap(d.d.PopFront()) }

// PopBack removes and returns the last element.
func (d *Deque) PopBack() Term { return d.pool.wrap(d.d.PopBack()) }

// Close deregisters the deque.
func (d *Deque) Close() { d.d.Close() }

// Stack is a protected LIFO collection of terms.
type Stack struct {
	pool *Pool
	s    *roots.Stack
}

// NewStack creates an empty Stack registered with p's root set.
func (p *Pool) NewStack() *Stack {
	return &Stack{pool: p, s: roots.NewStack(p.roots, p.leaser)}
}

// Len returns the number of elements.
func (s *Stack) Len() int { return s.s.Len() }

// Push adds t to the top.
func (s *Stack) Push(t Term) { s.s.Push(t.node()) }

// Pop removes and returns the top element.
func (s *Stack) Pop() Term { return s.pool.wrap(s.s.Pop()) }

// Peek returns the top element without removing it.
func (s *Stack) Peek() Term { return s.pool.wrap(s.s.Peek()) }

// Close deregisters the stack.
func (s *Stack) Close() { s.s.Close() }

// Mapping is a protected term-to-term associative collection: both keys and
// values are protected, since either may be the sole reference keeping a
// term alive.
type Mapping struct {
	pool *Pool
	m    *roots.Mapping
}

// NewMapping creates an empty Mapping registered with p's root set.
func (p *Pool) NewMapping() *Mapping {
	return &Mapping{pool: p, m: roots.NewMapping(p.roots, p.leaser)}
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return m.m.Len() }

// Get returns the term mapped to key, and whether it was present.
func (m *Mapping) Get(key Term) (Term, bool) {
	n, ok := m.m.Get(key.node())
	if !ok {
		return Term{}, false
	}
	return m.pool.wrap(n), true
}

// Put sets key to value.
func (m *Mapping) Put(key, value Term) { m.m.Put(key.node(), value.node()) }

// Delete removes key.
func (m *Mapping) Delete(key Term) { m.m.Delete(key.node()) }

// Keys returns a snapshot of every key currently present, as freshly rooted
// Terms.
func (m *Mapping) Keys() []Term {
	raw := m.m.Keys()
	out := make([]Term, len(raw))
	for i, n := range raw {
		out[i] = m.pool.wrap(n)
	}
	return out
}

// Close deregisters the mapping.
func (m *Mapping) Close() { m.m.Close() }
