package store

import (
	"fmt"

	"github.com/atermgo/atermgo/internal/symtab"
)

// MaxFixedArity is the highest arity with its own dedicated Storage; wider
// applications share DynamicStorage.
const MaxFixedArity = 7

// CreationHook is invoked synchronously, still inside the shared section
// held by whichever operation triggered the creation, whenever a brand new
// Node is interned. DeletionHook is invoked the same way just before a
// Node is reclaimed: n's Sym and Children are still valid and n is still
// linked in its Storage when the hook runs, and is unlinked and freed
// immediately afterward.
type CreationHook func(n *Node)
type DeletionHook func(n *Node)

// Pool aggregates every per-arity Storage plus the dedicated integer table,
// and fires the registered creation/deletion hooks (spec.md §6's
// AddCreationHook/AddDeletionHook) around interning and reclamation. Per
// spec.md §4.3, a storage holds at most one creation hook and one deletion
// hook per function symbol; hooks are therefore keyed by the identity of
// the symbol involved (every Node, integer or applied, carries a Sym).
type Pool struct {
	Int     *Storage
	Fixed   [MaxFixedArity + 1]*Storage
	Dynamic *Storage

	creationHooks map[uintptr]CreationHook
	deletionHooks map[uintptr]DeletionHook

	// onCreate, if set, fires for every newly interned Node regardless of
	// symbol -- plumbing for the collector's creation-threshold counter
	// (internal/collector), which is not a spec.md §4.3 per-symbol hook.
	onCreate func(n *Node)
}

// NewPool creates a Pool whose tables all start at initialBuckets buckets
// and allocate slabSize nodes per slab, resizing past loadFactor.
func NewPool(initialBuckets, slabSize int, loadFactor float64) *Pool {
	p := &Pool{
		Int:           NewStorage(initialBuckets, slabSize, loadFactor),
		Dynamic:       NewStorage(initialBuckets, slabSize, loadFactor),
		creationHooks: make(map[uintptr]CreationHook),
		deletionHooks: make(map[uintptr]DeletionHook),
	}
	for i := range p.Fixed {
		p.Fixed[i] = NewStorage(initialBuckets, slabSize, loadFactor)
	}
	return p
}

// AddCreationHook registers fn to run on every newly interned Node whose
// symbol has the given identity, replacing any hook previously registered
// for that identity.
func (p *Pool) AddCreationHook(symbolIdentity uintptr, fn CreationHook) {
	p.creationHooks[symbolIdentity] = fn
}

// AddDeletionHook registers fn to run just before every reclaimed Node
// whose symbol has the given identity is freed, replacing any hook
// previously registered for that identity.
func (p *Pool) AddDeletionHook(symbolIdentity uintptr, fn DeletionHook) {
	p.deletionHooks[symbolIdentity] = fn
}

// SetCreationObserver registers fn to run on every newly interned Node,
// independent of the per-symbol hooks above.
func (p *Pool) SetCreationObserver(fn func(n *Node)) {
	p.onCreate = fn
}

func (p *Pool) fireCreated(n *Node) {
	if p.onCreate != nil {
		p.onCreate(n)
	}
	if h, ok := p.creationHooks[n.Sym.Identity()]; ok {
		h(n)
	}
}

func (p *Pool) fireDeleted(n *Node) {
	if h, ok := p.deletionHooks[n.Sym.Identity()]; ok {
		h(n)
	}
}

// storageFor returns the Storage responsible for the given arity.
func (p *Pool) storageFor(arity int) *Storage {
	if arity >= 0 && arity <= MaxFixedArity {
		return p.Fixed[arity]
	}
	return p.Dynamic
}

// GetInt interns an integer leaf term. sym is the distinguished Int-tag
// symbol, retained by the caller for this call (consumed per
// Storage.InternInt's contract).
func (p *Pool) GetInt(sym symtab.Symbol, v int64) *Node {
	n, created := p.Int.InternInt(sym, v)
	if created {
		p.fireCreated(n)
	}
	return n
}

// GetAppl interns an application of sym to children. sym must be a handle
// retained by the caller for this call (GetAppl consumes it: stored on
// success, released if redundant). An error is returned, and sym released,
// without mutating any table, if len(children) does not match sym.Arity()
// or any child is nil.
func (p *Pool) GetAppl(sym symtab.Symbol, children []*Node) (*Node, error) {
	if sym.Arity() != len(children) {
		err := fmt.Errorf("store: symbol %q has arity %d, got %d children", sym.Name(), sym.Arity(), len(children))
		sym.Release()
		return nil, err
	}
	for i, c := range children {
		if c == nil {
			sym.Release()
			return nil, fmt.Errorf("store: nil child at index %d", i)
		}
	}
	s := p.storageFor(len(children))
	n, created := s.InternAppl(sym, children)
	if created {
		p.fireCreated(n)
	}
	return n, nil
}

// SetMetricsEnabled toggles hash-consing hit/miss counting across every
// table, per spec.md's EnableCreationMetrics.
func (p *Pool) SetMetricsEnabled(enabled bool) {
	p.Int.SetMetricsEnabled(enabled)
	p.Dynamic.SetMetricsEnabled(enabled)
	for _, s := range p.Fixed {
		s.SetMetricsEnabled(enabled)
	}
}

// Metrics returns the running hash-consing hit/miss counts, summed across
// every table.
func (p *Pool) Metrics() (hits, misses uint64) {
	h, m := p.Int.Metrics()
	hits += h
	misses += m
	h, m = p.Dynamic.Metrics()
	hits += h
	misses += m
	for _, s := range p.Fixed {
		h, m := s.Metrics()
		hits += h
		misses += m
	}
	return hits, misses
}

// Count returns the total number of live nodes across every table.
func (p *Pool) Count() int {
	total := p.Int.Count() + p.Dynamic.Count()
	for _, s := range p.Fixed {
		total += s.Count()
	}
	return total
}

// Each calls fn for every live node across every table.
func (p *Pool) Each(fn func(*Node)) {
	p.Int.Each(fn)
	p.Dynamic.Each(fn)
	for _, s := range p.Fixed {
		s.Each(fn)
	}
}

// Reclaim fires deletion hooks for n, then removes it from its owning
// table. n must currently be unmarked and unreachable from any root, as
// determined by the caller (internal/collector).
func (p *Pool) Reclaim(n *Node) {
	p.fireDeleted(n)
	s := p.Int
	if !n.IsInt {
		s = p.storageFor(n.Arity())
	}
	s.Remove(n)
}
