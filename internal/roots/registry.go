// Package roots implements C4 of spec.md §4.4: the root-set registry the
// collector consults to discover which interned nodes are still reachable
// from outside the hash-consing tables, plus the protected container
// adapters (Sequence, Deque, Stack, Mapping) that let a goroutine hold many
// terms under a single registered root instead of one registration per term.
//
// Grounded on original_source/libraries/atermpp/include/mcrl2/atermpp/detail/thread_aterm_pool.h,
// whose m_variables and m_containers hash sets hold, respectively, the
// addresses of live term variables and the registered protected containers
// for one thread. This port keeps a single process-wide Registry rather than
// one per goroutine -- Go's lighter-weight concurrency model makes
// per-goroutine registries with their own locks more overhead than benefit
// here -- and protects it with a plain mutex rather than the original's own
// nested locking, noted in DESIGN.md.
package roots

import (
	"sync"

	"github.com/atermgo/atermgo/internal/store"
)

// Slot is a registered root location: a single live handle's current node.
// The collector dereferences every registered Slot during Mark.
type Slot struct {
	registry *Registry
	node     *store.Node
}

// Node returns the node s currently holds, synchronized against concurrent
// Update/collector traversal.
func (s *Slot) Node() *store.Node {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	return s.node
}

// Update repoints s at n. Equivalent to s.registry.Update(s, n).
func (s *Slot) Update(n *store.Node) {
	s.registry.Update(s, n)
}

// Unprotect deregisters s. Equivalent to s.registry.Unprotect(s).
func (s *Slot) Unprotect() {
	s.registry.Unprotect(s)
}

// Container is implemented by every protected container adapter. The
// collector calls Each to discover every node the container currently
// holds.
type Container interface {
	Each(func(*store.Node))
}

// Registry is the process-wide root set: every live Slot plus every
// registered Container.
type Registry struct {
	mu         sync.Mutex
	slots      map[*Slot]struct{}
	containers map[Container]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		slots:      make(map[*Slot]struct{}),
		containers: make(map[Container]struct{}),
	}
}

// Protect registers a new root holding n and returns the Slot the caller
// must pass to Update as the handle's value changes, and to Unprotect when
// the handle is dropped.
func (r *Registry) Protect(n *store.Node) *Slot {
	s := &Slot{registry: r, node: n}
	r.mu.Lock()
	r.slots[s] = struct{}{}
	r.mu.Unlock()
	return s
}

// Update repoints an already-registered Slot at a new node, e.g. when a
// handle is reassigned to a different term.
func (r *Registry) Update(s *Slot, n *store.Node) {
	r.mu.Lock()
	s.node = n
	r.mu.Unlock()
}

// Unprotect deregisters s. After this call s must not be passed to Update.
func (r *Registry) Unprotect(s *Slot) {
	r.mu.Lock()
	delete(r.slots, s)
	r.mu.Unlock()
}

// ProtectContainer registers c as a root container, returning the function
// the caller must invoke when c is no longer in use.
func (r *Registry) ProtectContainer(c Container) (unprotect func()) {
	r.mu.Lock()
	r.containers[c] = struct{}{}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.containers, c)
		r.mu.Unlock()
	}
}

// Each calls fn once for every node currently reachable directly from the
// root set: every registered Slot's node, and every node yielded by every
// registered Container. Callers (the collector) must already hold the
// process's exclusive lock; fn must not register or deregister roots.
func (r *Registry) Each(fn func(*store.Node)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for s := range r.slots {
		if s.node != nil {
			fn(s.node)
		}
	}
	for c := range r.containers {
		c.Each(fn)
	}
}

// SlotCount reports the number of currently registered Slots, for
// diagnostics and tests.
func (r *Registry) SlotCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

// ContainerCount reports the number of currently registered Containers.
func (r *Registry) ContainerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.containers)
}
