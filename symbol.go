package atermgo

import "github.com/atermgo/atermgo/internal/symtab"

// Symbol is a reference-counted handle to an interned (name, arity) pair,
// per spec.md §3. The zero value is the "undefined" symbol.
type Symbol struct {
	s symtab.Symbol
}

// IsDefined reports whether s refers to an interned symbol.
func (s Symbol) IsDefined() bool { return s.s.IsDefined() }

// Name returns the symbol's interned name.
func (s Symbol) Name() string { return s.s.Name() }

// Arity returns the symbol's arity.
func (s Symbol) Arity() int { return s.s.Arity() }

// Equal reports whether s and o are the same interned symbol.
func (s Symbol) Equal(o Symbol) bool { return s.s.Equal(o.s) }

// Retain returns an additional handle to the same symbol. The returned
// value and s are released independently.
func (s Symbol) Retain() Symbol { return Symbol{s: s.s.Retain()} }

// Release drops this handle's reference. Idempotent.
func (s Symbol) Release() { s.s.Release() }

// GetFunctionSymbol interns (name, arity), per spec.md §6. If
// checkForRegisteredPrefix is true and name decomposes as a registered
// prefix followed by digits, the prefix's counter is advanced past those
// digits.
func (p *Pool) GetFunctionSymbol(name string, arity int, checkForRegisteredPrefix bool) Symbol {
	return Symbol{s: p.syms.Create(name, arity, checkForRegisteredPrefix)}
}

// IntSymbol returns a handle to the distinguished Int-tag symbol.
func (p *Pool) IntSymbol() Symbol { return Symbol{s: p.syms.IntSymbol()} }

// ListConsSymbol returns a handle to the distinguished List-cons symbol.
func (p *Pool) ListConsSymbol() Symbol { return Symbol{s: p.syms.ListConsSymbol()} }

// EmptyListSymbol returns a handle to the distinguished Empty-list symbol.
func (p *Pool) EmptyListSymbol() Symbol { return Symbol{s: p.syms.EmptyListSymbol()} }
