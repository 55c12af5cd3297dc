package store

import (
	"sync"
	"sync/atomic"

	"github.com/atermgo/atermgo/internal/slab"
	"github.com/atermgo/atermgo/internal/symtab"
)

const defaultLoadFactor = 0.75

// Storage is a single hash-consed table: either the dedicated integer
// table, one of the fixed arity-0..7 tables, or the catch-all dynamic-arity
// table. All three shapes share the same chained-bucket, slab-backed
// implementation.
type Storage struct {
	mu         sync.Mutex
	buckets    []*Node
	count      int
	loadFactor float64
	alloc      *slab.Allocator[Node]

	// metricsEnabled mirrors config.Config.CreationMetricsEnabled /
	// EnableCreationMetrics in the original source: when set, InternInt and
	// InternAppl tally hash-consing hits (a structurally equal term already
	// present) and misses (a new Node allocated) in hits/misses.
	metricsEnabled atomic.Bool
	hits           atomic.Uint64
	misses         atomic.Uint64
}

// SetMetricsEnabled toggles hit/miss counting for subsequent Intern calls.
func (s *Storage) SetMetricsEnabled(enabled bool) {
	s.metricsEnabled.Store(enabled)
}

// Metrics returns the running hash-consing hit/miss counts. Both are zero
// if metrics were never enabled.
func (s *Storage) Metrics() (hits, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}

// NewStorage creates a Storage with the given initial bucket count, slab
// size and resize load factor.
func NewStorage(initialBuckets, slabSize int, loadFactor float64) *Storage {
	if initialBuckets <= 0 {
		initialBuckets = 16
	}
	if loadFactor <= 0 {
		loadFactor = defaultLoadFactor
	}
	return &Storage{
		buckets:    make([]*Node, initialBuckets),
		loadFactor: loadFactor,
		alloc:      slab.New[Node](slabSize),
	}
}

// Count returns the number of live nodes currently interned.
func (s *Storage) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// findIntLocked returns the existing integer node matching hash and v, or nil.
// Callers must hold s.mu.
func (s *Storage) findIntLocked(hash uint64, v int64) *Node {
	idx := hash % uint64(len(s.buckets))
	for n := s.buckets[idx]; n != nil; n = n.next {
		if n.hash == hash && n.IsInt && n.IntVal == v {
			return n
		}
	}
	return nil
}

// InternInt returns the canonical Node for integer value v, creating it if
// absent. sym is the distinguished Int-tag symbol, subject to the same
// ownership contract as InternAppl's sym argument: released if redundant,
// stored as the new Node's own reference otherwise. Every Node, integer or
// applied, therefore carries a valid Sym, which is what lets hook
// registration (spec.md §4.3) key uniformly off Sym.Identity().
func (s *Storage) InternInt(sym symtab.Symbol, v int64) (node *Node, created bool) {
	h := hashIntNode(v)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.findIntLocked(h, v); n != nil {
		sym.Release()
		if s.metricsEnabled.Load() {
			s.hits.Add(1)
		}
		return n, false
	}
	n := s.alloc.Alloc()
	n.IsInt = true
	n.IntVal = v
	n.Sym = sym
	n.hash = h
	s.insertLocked(n)
	if s.metricsEnabled.Load() {
		s.misses.Add(1)
	}
	return n, true
}

func (s *Storage) findApplLocked(hash uint64, sym symtab.Symbol, children []*Node) *Node {
	idx := hash % uint64(len(s.buckets))
	for n := s.buckets[idx]; n != nil; n = n.next {
		if n.hash != hash || n.IsInt {
			continue
		}
		if !n.Sym.Equal(sym) {
			continue
		}
		if len(n.Children) != len(children) {
			continue
		}
		same := true
		for i := range children {
			if n.Children[i] != children[i] {
				same = false
				break
			}
		}
		if same {
			return n
		}
	}
	return nil
}

// InternAppl returns the canonical Node applying sym (already arity-checked
// by the caller) to children, creating it if absent. sym must be a handle
// retained by the caller specifically for this call: if a matching Node
// already exists, InternAppl releases the now-redundant handle itself;
// otherwise it stores sym as the new Node's own reference, transferring
// ownership.
func (s *Storage) InternAppl(sym symtab.Symbol, children []*Node) (node *Node, created bool) {
	h := hashApplNode(sym, children)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.findApplLocked(h, sym, children); n != nil {
		sym.Release()
		if s.metricsEnabled.Load() {
			s.hits.Add(1)
		}
		return n, false
	}
	n := s.alloc.Alloc()
	n.Sym = sym
	n.Children = append([]*Node(nil), children...)
	n.hash = h
	s.insertLocked(n)
	if s.metricsEnabled.Load() {
		s.misses.Add(1)
	}
	return n, true
}

// insertLocked adds n to its bucket and grows the table if the load factor
// threshold is now exceeded. Callers must hold s.mu.
func (s *Storage) insertLocked(n *Node) {
	idx := n.hash % uint64(len(s.buckets))
	n.next = s.buckets[idx]
	s.buckets[idx] = n
	s.count++
	if float64(s.count)/float64(len(s.buckets)) > s.loadFactor {
		s.rehashLocked(len(s.buckets) * 2)
	}
}

// rehashLocked grows the bucket array to newSize and reinserts every live
// node. Callers must hold s.mu.
func (s *Storage) rehashLocked(newSize int) {
	old := s.buckets
	s.buckets = make([]*Node, newSize)
	for _, head := range old {
		for n := head; n != nil; {
			next := n.next
			idx := n.hash % uint64(len(s.buckets))
			n.next = s.buckets[idx]
			s.buckets[idx] = n
			n = next
		}
	}
}

// Remove unlinks n from its bucket, releases its symbol reference, and
// returns its slot to the allocator. Callers are responsible for firing any
// deletion hook (with n's still-valid Sym/Children) before calling Remove.
func (s *Storage) Remove(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := n.hash % uint64(len(s.buckets))
	prev := (*Node)(nil)
	for cur := s.buckets[idx]; cur != nil; cur = cur.next {
		if cur == n {
			if prev == nil {
				s.buckets[idx] = cur.next
			} else {
				prev.next = cur.next
			}
			s.count--
			n.Sym.Release()
			s.alloc.Free(n)
			return
		}
		prev = cur
	}
}

// Each calls fn for every live node in the table. fn must not mutate the
// table.
func (s *Storage) Each(fn func(*Node)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, head := range s.buckets {
		for n := head; n != nil; n = n.next {
			fn(n)
		}
	}
}
