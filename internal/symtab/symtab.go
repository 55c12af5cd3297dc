// Package symtab implements the function-symbol pool of spec.md §4.2: an
// interned (name, arity) table with reference-counted handles, a
// registered-prefix mechanism for clash-free fresh-name generation, and a
// sweep that reclaims zero-reference entries.
//
// Grounded on original_source/libraries/atermpp/source/function_symbol_pool.cpp
// and .../detail/function_symbol_pool.h. The C++ source increments a
// reference count on every handle copy (a C++ copy-constructor hook); Go has
// no copy-constructor equivalent, so each retained Symbol instead owns a
// private token that decrements the shared entry's count exactly once, either
// via an explicit Release call (used by internal/store when a term holding
// the symbol is swept, for deterministic accounting) or, as a backstop for
// handles the caller simply drops, via a runtime finalizer -- the same
// RAII-via-finalizer idiom Go's own os.File and net.Conn types rely on.
package symtab

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"unsafe"
)

const (
	// IntSymbolName is the reserved name of the distinguished Int-tag symbol.
	IntSymbolName = "<aterm_int>"
	// ListConsName is the reserved name of the distinguished List-cons symbol.
	ListConsName = "<list_constructor>"
	// EmptyListName is the reserved name of the distinguished Empty-list symbol.
	EmptyListName = "<empty_list>"
)

type key struct {
	name  string
	arity int
}

type entry struct {
	name string
	arity int
	refs atomic.Int64
}

// token is the unit of reference counting: exactly one decrement, whether
// triggered explicitly via Release or by the finalizer when unreachable.
type token struct {
	e        *entry
	released atomic.Bool
}

func newToken(e *entry) *token {
	e.refs.Add(1)
	t := &token{e: e}
	runtime.SetFinalizer(t, func(t *token) { t.release() })
	return t
}

func (t *token) release() {
	if t == nil {
		return
	}
	if t.released.CompareAndSwap(false, true) {
		t.e.refs.Add(-1)
	}
}

// Symbol is a reference-counted handle to an interned (name, arity) pair.
// The zero value is the "undefined" symbol (IsDefined reports false).
type Symbol struct {
	t *token
}

// IsDefined reports whether s refers to an interned entry.
func (s Symbol) IsDefined() bool { return s.t != nil }

// Name returns the symbol's interned name.
func (s Symbol) Name() string {
	if s.t == nil {
		return ""
	}
	return s.t.e.name
}

// Arity returns the symbol's arity.
func (s Symbol) Arity() int {
	if s.t == nil {
		return 0
	}
	return s.t.e.arity
}

// ReferenceCount reports the entry's current reference count, for
// diagnostics and tests.
func (s Symbol) ReferenceCount() int64 {
	if s.t == nil {
		return 0
	}
	return s.t.e.refs.Load()
}

// Equal reports whether s and o refer to the same interned entry: identity
// comparison, per spec.md's "two requests with equal (name, arity) yield the
// same identity."
func (s Symbol) Equal(o Symbol) bool {
	if s.t == nil || o.t == nil {
		return s.t == nil && o.t == nil
	}
	return s.t.e == o.t.e
}

// Identity returns a value that is equal for equal symbols and suitable as a
// stable (within process lifetime) map key or sort key.
func (s Symbol) Identity() uintptr {
	if s.t == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(s.t.e))
}

// Retain returns a new handle to the same entry, bumping its reference
// count. The returned Symbol must eventually be Released (directly, or left
// to the finalizer) independently of s.
func (s Symbol) Retain() Symbol {
	if s.t == nil {
		return Symbol{}
	}
	return Symbol{t: newToken(s.t.e)}
}

// Release drops this handle's reference, decrementing the entry's count.
// Idempotent: calling it more than once has no further effect.
func (s Symbol) Release() {
	s.t.release()
}

// Pool is the process-wide interning table for function symbols.
type Pool struct {
	mu       sync.Mutex
	set      map[key]*entry
	prefixes map[string]*SharedCounter

	intSym       Symbol
	listConsSym  Symbol
	emptyListSym Symbol
}

// SharedCounter is a mutable cell shared between every caller that registers
// the same prefix, mirroring the original's std::shared_ptr<std::size_t>.
type SharedCounter struct {
	v atomic.Uint64
}

// Value returns the counter's current value.
func (c *SharedCounter) Value() uint64 { return c.v.Load() }

// bumpAtLeast raises the counter to min if it is currently lower.
func (c *SharedCounter) bumpAtLeast(min uint64) {
	for {
		cur := c.v.Load()
		if cur >= min {
			return
		}
		if c.v.CompareAndSwap(cur, min) {
			return
		}
	}
}

// New creates a pool with the three bootstrap symbols preregistered and
// retained forever, per spec.md §4.2's "never released" contract.
func New() *Pool {
	p := &Pool{
		set:      make(map[key]*entry),
		prefixes: make(map[string]*SharedCounter),
	}
	p.intSym = p.Create(IntSymbolName, 0, false)
	p.listConsSym = p.Create(ListConsName, 2, false)
	p.emptyListSym = p.Create(EmptyListName, 0, false)
	return p
}

// IntSymbol returns a fresh, retained handle to the distinguished Int-tag symbol.
func (p *Pool) IntSymbol() Symbol { return p.intSym.Retain() }

// ListConsSymbol returns a fresh, retained handle to the distinguished List-cons symbol.
func (p *Pool) ListConsSymbol() Symbol { return p.listConsSym.Retain() }

// EmptyListSymbol returns a fresh, retained handle to the distinguished Empty-list symbol.
func (p *Pool) EmptyListSymbol() Symbol { return p.emptyListSym.Retain() }

// Create interns (name, arity), returning the canonical handle. If
// checkForRegisteredPrefix is true and name decomposes as prefix+digits with
// prefix registered, the prefix's shared counter is bumped to at least
// digits+1.
func (p *Pool) Create(name string, arity int, checkForRegisteredPrefix bool) Symbol {
	p.mu.Lock()
	k := key{name: name, arity: arity}
	e, ok := p.set[k]
	if !ok {
		e = &entry{name: name, arity: arity}
		p.set[k] = e
	}
	if checkForRegisteredPrefix {
		p.bumpPrefixLocked(name)
	}
	p.mu.Unlock()
	return Symbol{t: newToken(e)}
}

// splitTrailingDigits splits name into (prefix, digits, ok); ok is false if
// name has no trailing digit run.
func splitTrailingDigits(name string) (prefix, digits string, ok bool) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return "", "", false
	}
	return name[:i], name[i:], true
}

// bumpPrefixLocked must be called with p.mu held.
func (p *Pool) bumpPrefixLocked(name string) {
	prefix, digits, ok := splitTrailingDigits(name)
	if !ok {
		return
	}
	counter, ok := p.prefixes[prefix]
	if !ok {
		return
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return
	}
	counter.bumpAtLeast(n + 1)
}

// RegisterPrefix returns the shared counter for prefix, creating it if
// necessary by scanning the currently interned symbols for the largest
// digits such that some name equals prefix+digits.
func (p *Pool) RegisterPrefix(prefix string) *SharedCounter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.prefixes[prefix]; ok {
		return c
	}
	var maxIndex uint64
	for k := range p.set {
		name := k.name
		if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
			continue
		}
		digits := name[len(prefix):]
		n, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			continue
		}
		if n+1 > maxIndex {
			maxIndex = n + 1
		}
	}
	c := &SharedCounter{}
	c.v.Store(maxIndex)
	p.prefixes[prefix] = c
	return c
}

// Deregister drops the shared counter registered for prefix. Existing
// holders of the *SharedCounter may keep using it; only future RegisterPrefix
// calls for the same prefix start over.
func (p *Pool) Deregister(prefix string) {
	p.mu.Lock()
	delete(p.prefixes, prefix)
	p.mu.Unlock()
}

// Size returns the number of interned symbols.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.set)
}

// Sweep removes every interned symbol whose reference count is zero. Must be
// called while the caller holds the process's exclusive lock (spec.md
// §4.2's "while holding exclusivity").
func (p *Pool) Sweep() (removed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, e := range p.set {
		if e.refs.Load() == 0 {
			delete(p.set, k)
			removed++
		}
	}
	return removed
}
