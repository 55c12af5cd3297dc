package atermgo

import "github.com/atermgo/atermgo/internal/store"

// NodeID identifies a term that a deletion hook is being told about, by its
// former address. It is not a live handle: per spec.md §9's decision on
// deletion hooks, a hook must not be able to read or allocate through the
// term being reclaimed, so it receives only this opaque, already-decomposed
// identity rather than a Term.
type NodeID uintptr

// AddCreationHook registers fn to run, synchronously, every time a brand new
// term headed by sym is interned (not on a hash-consing cache hit), per
// spec.md §4.3 ("at most one creation hook ... per function symbol") and
// §6. Registering again for the same symbol replaces the previous hook. sym
// is not consumed.
func (p *Pool) AddCreationHook(sym Symbol, fn func(Term)) {
	p.terms.AddCreationHook(sym.s.Identity(), func(n *store.Node) {
		fn(p.wrap(n))
	})
}

// AddDeletionHook registers fn to run, synchronously, just before a term
// headed by sym is reclaimed. fn receives the term's head symbol (a fresh,
// independently owned handle the hook must Release) and the identities of
// its former children, per spec.md §9's decision to forbid a deletion hook
// from reading through a live handle to the term being deleted. sym is not
// consumed.
func (p *Pool) AddDeletionHook(sym Symbol, fn func(Symbol, []NodeID)) {
	p.terms.AddDeletionHook(sym.s.Identity(), func(n *store.Node) {
		ids := make([]NodeID, len(n.Children))
		for i, c := range n.Children {
			ids[i] = NodeID(store.Identity(c))
		}
		fn(Symbol{s: n.Sym.Retain()}, ids)
	})
}
