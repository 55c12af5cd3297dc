// Package slab implements the fixed-size block allocator backing C3's term
// storages (spec.md §4.3): terms are allocated in contiguous slabs rather
// than one-by-one, and a slab is returned to a recycling pool only once every
// slot within it has been freed.
//
// Grounded on original_source/libraries/utilities/include/mcrl2/utilities/memory_pool.h
// (fixed-size block allocation with an intra-block free list, growing by a
// fresh block once exhausted) and on the teacher's eventloop/ingress.go
// chunk/chunkPool (a sync.Pool-backed pool of fixed-size chunks, recycled
// once drained instead of being freed back to the general allocator).
package slab

import "sync"

// slab is one fixed-size block of T, plus how many of its slots are
// currently allocated.
type slab[T any] struct {
	items []T
	inUse int
}

// Allocator hands out *T slots backed by size-element slabs, recycling
// emptied slabs through a sync.Pool instead of returning them to the general
// heap allocator.
type Allocator[T any] struct {
	size int
	pool sync.Pool

	mu    sync.Mutex
	slabs []*slab[T]
	free  []slot[T]
}

type slot[T any] struct {
	s *slab[T]
	i int
}

// New creates an allocator whose slabs hold size elements each.
func New[T any](size int) *Allocator[T] {
	if size <= 0 {
		size = 1
	}
	a := &Allocator[T]{size: size}
	a.pool.New = func() any {
		return &slab[T]{items: make([]T, size)}
	}
	return a
}

// Alloc returns a pointer to a zero-valued T slot, drawn from a free slot in
// an existing slab or a fresh one pulled from the recycling pool.
func (a *Allocator[T]) Alloc() *T {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n > 0 {
		f := a.free[n-1]
		a.free = a.free[:n-1]
		f.s.inUse++
		return &f.s.items[f.i]
	}

	s := a.pool.Get().(*slab[T])
	s.inUse = 0
	a.slabs = append(a.slabs, s)
	for i := 1; i < a.size; i++ {
		a.free = append(a.free, slot[T]{s: s, i: i})
	}
	s.inUse++
	return &s.items[0]
}

// Free returns a previously allocated slot to the allocator. p must have
// come from this allocator's Alloc. Once every slot of a slab has been
// freed, the slab itself is returned to this Allocator's recycling pool for
// reuse by a later Alloc on the same Allocator.
func (a *Allocator[T]) Free(p *T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range a.slabs {
		off := -1
		for i := range s.items {
			if &s.items[i] == p {
				off = i
				break
			}
		}
		if off < 0 {
			continue
		}
		*p = *new(T)
		s.inUse--
		if s.inUse == 0 {
			a.evictSlabLocked(s)
			return
		}
		a.free = append(a.free, slot[T]{s: s, i: off})
		return
	}
}

// evictSlabLocked removes s from the live slab list, drops every free entry
// pointing into it, and returns it to the pool. Callers must hold a.mu.
func (a *Allocator[T]) evictSlabLocked(s *slab[T]) {
	for i, live := range a.slabs {
		if live == s {
			a.slabs = append(a.slabs[:i], a.slabs[i+1:]...)
			break
		}
	}
	kept := a.free[:0]
	for _, f := range a.free {
		if f.s != s {
			kept = append(kept, f)
		}
	}
	a.free = kept
	a.pool.Put(s)
}

// InUse reports the number of currently allocated slots, for diagnostics.
func (a *Allocator[T]) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, s := range a.slabs {
		n += s.inUse
	}
	return n
}

// SlabCount reports the number of live (non-fully-freed) slabs.
func (a *Allocator[T]) SlabCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.slabs)
}
