// Package store implements C3 of spec.md §4.3: the hash-consed term
// storages. Terms are interned per arity (a fixed table for arity 0..7, one
// dynamic-arity table, and a dedicated integer table), each a chained hash
// table whose slots are carved out of a internal/slab.Allocator rather than
// allocated one node at a time.
//
// Grounded on original_source/libraries/atermpp/include/mcrl2/atermpp/detail/aterm_pool_storage.h,
// aterm_hash.h, detail/hashtable.h and detail/bucket.h: per-arity bucket
// tables with chained collision handling, a hash combining the function
// symbol's identity with each child's identity, and a load-factor-triggered
// rehash. Where the original uses per-bucket lock-free CAS chains for
// concurrent insertion under the shared lock, this port uses a single mutex
// per Storage -- a deliberate simplification, since the caller's
// internal/busylock exclusivity already serializes collection against
// mutation; see DESIGN.md.
package store

import "github.com/atermgo/atermgo/internal/symtab"

// Node is one hash-consed term cell: either an integer leaf (IsInt) or an
// application of Sym to Children. A Node's identity is its address: two
// Nodes are the same term if and only if they are the same *Node, which the
// hash-consing lookup in Storage guarantees for equal structure.
type Node struct {
	Sym      symtab.Symbol
	IsInt    bool
	IntVal   int64
	Children []*Node

	hash uint64
	next *Node // collision chain within a Storage bucket
	mark bool  // set by the collector during Mark, cleared by ClearMarks
}

// Arity returns len(Children); always 0 for an Int node.
func (n *Node) Arity() int { return len(n.Children) }

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

func fnvStep(h uint64, v uint64) uint64 {
	h ^= v
	h *= fnvPrime
	return h
}

func hashIntNode(v int64) uint64 {
	h := uint64(fnvOffset)
	h = fnvStep(h, uint64(v))
	h = fnvStep(h, 1) // distinguish the int table's domain from pointer-sized zero
	return h
}

func hashApplNode(sym symtab.Symbol, children []*Node) uint64 {
	h := uint64(fnvOffset)
	h = fnvStep(h, uint64(sym.Identity()))
	for _, c := range children {
		h = fnvStep(h, nodeIdentity(c))
	}
	return h
}
