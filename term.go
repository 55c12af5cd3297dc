package atermgo

import (
	"runtime"

	"github.com/atermgo/atermgo/internal/roots"
	"github.com/atermgo/atermgo/internal/store"
)

// Term is a live handle to an interned term: an integer leaf, or an
// application of a Symbol to zero or more children. Holding a Term protects
// the term (and everything reachable from it) from collection, per
// spec.md §4.4's root-set contract. A Term is registered with its Pool's
// root set on creation and deregistered once unreachable, via the same
// finalizer-backed idiom internal/symtab uses for Symbol.
type Term struct {
	pool *Pool
	h    *termHandle
}

// termHandle is referenced only by Term values, never by the root registry,
// so its finalizer runs once the last copy of the Term is dropped.
type termHandle struct{ slot *roots.Slot }

// IsDefined reports whether t refers to a term.
func (t Term) IsDefined() bool { return t.h != nil }

func (t Term) node() *store.Node {
	return t.h.slot.Node()
}

// wrap registers n as a new root and returns the Term handle for it.
func (p *Pool) wrap(n *store.Node) Term {
	h := &termHandle{slot: p.roots.Protect(n)}
	runtime.SetFinalizer(h, func(h *termHandle) { h.slot.Unprotect() })
	return Term{pool: p, h: h}
}

// IsInt reports whether t is an integer leaf.
func (t Term) IsInt() bool { return t.node().IsInt }

// IntValue returns the integer value of an Int leaf; undefined if !IsInt().
func (t Term) IntValue() int64 { return t.node().IntVal }

// Symbol returns t's head symbol: the distinguished Int-tag symbol for an
// integer leaf, or the applied symbol otherwise.
func (t Term) Symbol() Symbol {
	return Symbol{s: t.node().Sym.Retain()}
}

// Arity returns the number of children (0 for an Int leaf).
func (t Term) Arity() int { return t.node().Arity() }

// Child returns the i'th child as a newly rooted Term handle.
func (t Term) Child(i int) Term {
	return t.pool.wrap(t.node().Children[i])
}

// Children returns every child as newly rooted Term handles.
func (t Term) Children() []Term {
	n := t.node()
	out := make([]Term, len(n.Children))
	for i, c := range n.Children {
		out[i] = t.pool.wrap(c)
	}
	return out
}

// Equal reports whether t and o are the same interned term: identity
// comparison, per spec.md's maximal-sharing invariant.
func (t Term) Equal(o Term) bool {
	if !t.IsDefined() || !o.IsDefined() {
		return t.IsDefined() == o.IsDefined()
	}
	return t.node() == o.node()
}

// Pool returns the Pool t belongs to.
func (t Term) Pool() *Pool { return t.pool }

// GetIntTerm interns an integer leaf term, per spec.md §6. Interning runs
// inside the busy/forbidden protocol's shared section, so it may proceed
// concurrently with any number of other creations but is excluded from a
// collection in progress.
func (p *Pool) GetIntTerm(v int64) Term {
	l := p.leaser.AcquireShared()
	defer p.leaser.ReleaseShared(l)
	n := p.terms.GetInt(p.syms.IntSymbol(), v)
	return p.wrap(n)
}

// GetTerm interns a zero-arity application of sym (a constant), per
// spec.md §6. sym is not consumed: the caller retains ownership of the
// handle passed in and must still Release it when done.
func (p *Pool) GetTerm(sym Symbol) (Term, error) {
	return p.GetAppliedTerm(sym)
}

// GetAppliedTerm interns an application of sym to args, per spec.md §6.
// Neither sym nor any element of args is consumed.
func (p *Pool) GetAppliedTerm(sym Symbol, args ...Term) (Term, error) {
	children := make([]*store.Node, len(args))
	for i, a := range args {
		if !a.IsDefined() {
			return Term{}, newError("GetAppliedTerm", ErrArity, errUndefinedChild)
		}
		children[i] = a.node()
	}

	l := p.leaser.AcquireShared()
	defer p.leaser.ReleaseShared(l)
	n, err := p.terms.GetAppl(sym.s.Retain(), children)
	if err != nil {
		return Term{}, newError("GetAppliedTerm", ErrArity, err)
	}
	return p.wrap(n), nil
}
