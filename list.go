package atermgo

// List is a Term known to be shaped as a list: either the distinguished
// empty list, or an application of the List-cons symbol to a head and a
// tail list. Lists are ordinary hash-consed terms; List is purely a
// convenience view over Term, per spec.md §6.
type List struct {
	Term
}

// EmptyList returns the canonical empty list term.
func (p *Pool) EmptyList() List {
	sym := p.EmptyListSymbol()
	defer sym.Release()
	t, err := p.GetTerm(sym)
	if err != nil {
		// EmptyListSymbol always has arity 0, applied with no children:
		// this can only fail if the symbol pool is corrupted.
		panic(newError("EmptyList", ErrInvariant, err))
	}
	return List{t}
}

// Cons builds the list (head . tail).
func (p *Pool) Cons(head Term, tail List) (List, error) {
	sym := p.ListConsSymbol()
	defer sym.Release()
	t, err := p.GetAppliedTerm(sym, head, tail.Term)
	if err != nil {
		return List{}, err
	}
	return List{t}, nil
}

// AsList reports whether t is list-shaped, returning it as a List if so.
func (p *Pool) AsList(t Term) (List, bool) {
	if !t.IsDefined() {
		return List{}, false
	}
	sym := t.Symbol()
	defer sym.Release()

	empty := p.EmptyListSymbol()
	defer empty.Release()
	if sym.Equal(empty) && t.Arity() == 0 {
		return List{t}, true
	}

	cons := p.ListConsSymbol()
	defer cons.Release()
	if sym.Equal(cons) && t.Arity() == 2 {
		return List{t}, true
	}

	return List{}, false
}

// IsEmpty reports whether l is the empty list.
func (l List) IsEmpty() bool {
	empty := l.pool.EmptyListSymbol()
	defer empty.Release()
	sym := l.Symbol()
	defer sym.Release()
	return sym.Equal(empty)
}

// Head returns the first element. Undefined if l.IsEmpty().
func (l List) Head() Term { return l.Child(0) }

// Tail returns the remainder of the list. Undefined if l.IsEmpty().
func (l List) Tail() List { return List{l.Child(1)} }

// Len counts the elements by walking the list. O(n).
func (l List) Len() int {
	n := 0
	cur := l
	for !cur.IsEmpty() {
		n++
		cur = cur.Tail()
	}
	return n
}
