// Package collector implements C5 of spec.md §4.5: the mark-sweep-resize
// orchestrator. It owns the exclusive section of the busy/forbidden lock
// during a collection, walks the root set to mark every reachable node, then
// reclaims every node (and, subsequently, every function symbol) left
// unmarked.
//
// Grounded on original_source/libraries/atermpp/include/mcrl2/atermpp/detail/aterm_pool.h
// and aterm_pool_implementation.h: the m_count_until_collection creation
// counter that triggers a collection, and thread_aterm_pool_implementation.h's
// mark(), which recurses into a node's children only the first time it is
// marked. Logging on collection completion mirrors function_symbol_pool.cpp's
// mCRL2log(mcrl2::log::info) call after a symbol sweep.
package collector

import (
	"errors"
	"time"

	"github.com/atermgo/atermgo/internal/busylock"
	"github.com/atermgo/atermgo/internal/obslog"
	"github.com/atermgo/atermgo/internal/roots"
	"github.com/atermgo/atermgo/internal/store"
	"github.com/atermgo/atermgo/internal/symtab"
)

// ErrInvariantViolation is returned by Collect when built with verification
// enabled and either VerifyMark or VerifySweep finds a violation.
var ErrInvariantViolation = errors.New("collector: invariant violation detected")

// Stats summarizes one completed collection.
type Stats struct {
	TermsReclaimed   int
	SymbolsReclaimed int
	Duration         time.Duration
}

// Collector orchestrates mark-sweep collection over a store.Pool and
// symtab.Pool, guarded by a busylock.Lock's exclusive section, and
// triggered automatically every CollectionInterval term creations unless
// disabled.
type Collector struct {
	lock  *busylock.Lock
	terms *store.Pool
	syms  *symtab.Pool
	roots *roots.Registry
	log   *obslog.Logger

	disabled            bool
	verifyEnabled       bool
	collectionInterval  int
	untilNextCollection int
	inCollection        bool
}

// New creates a Collector. collectionInterval is the number of term
// creations between automatic collections (spec.md §4.5's creation-count
// threshold); a value <= 0 disables the automatic trigger (Collect can still
// be called directly).
func New(lock *busylock.Lock, terms *store.Pool, syms *symtab.Pool, reg *roots.Registry, log *obslog.Logger, collectionInterval int) *Collector {
	if log == nil {
		log = obslog.Discard()
	}
	return &Collector{
		lock:                lock,
		terms:               terms,
		syms:                syms,
		roots:               reg,
		log:                 log,
		collectionInterval:  collectionInterval,
		untilNextCollection: collectionInterval,
	}
}

// SetEnabled toggles automatic collection, mirroring spec.md §6's
// EnableGarbageCollection operation. Disabling does not affect a collection
// already in progress, and Collect remains callable directly.
func (c *Collector) SetEnabled(enabled bool) {
	c.disabled = !enabled
}

// NotifyCreation must be called once per newly interned term. Once
// collectionInterval creations have passed since the last collection, it
// triggers one automatically, unless collection is disabled or a collection
// is already underway (the creation happened from within a deletion hook
// fired mid-sweep). A creation made during a collection is not counted and
// triggers nothing, then or later.
func (c *Collector) NotifyCreation() {
	if c.disabled || c.collectionInterval <= 0 || c.inCollection {
		return
	}
	c.untilNextCollection--
	if c.untilNextCollection <= 0 {
		c.untilNextCollection = c.collectionInterval
		_, _ = c.Collect()
	}
}

// Collect runs one mark-sweep cycle: it takes the exclusive lock, clears
// every mark bit, marks everything reachable from the root set, reclaims
// every term left unmarked, then sweeps the function-symbol pool for
// now-zero-reference symbols.
func (c *Collector) Collect() (Stats, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.inCollection = true
	defer func() { c.inCollection = false }()

	start := time.Now()

	c.terms.ClearMarks()
	c.roots.Each(func(n *store.Node) { markReachable(n) })

	if c.verifyEnabled {
		if errs := c.terms.VerifyMark(); len(errs) > 0 {
			return Stats{}, ErrInvariantViolation
		}
	}

	var unmarked []*store.Node
	c.terms.Each(func(n *store.Node) {
		if !n.Marked() {
			unmarked = append(unmarked, n)
		}
	})
	for _, n := range unmarked {
		c.terms.Reclaim(n)
	}

	if c.verifyEnabled {
		if errs := c.terms.VerifySweep(); len(errs) > 0 {
			return Stats{}, ErrInvariantViolation
		}
	}

	symbolsReclaimed := c.syms.Sweep()

	stats := Stats{
		TermsReclaimed:   len(unmarked),
		SymbolsReclaimed: symbolsReclaimed,
		Duration:         time.Since(start),
	}

	c.log.Info().
		Int("terms_reclaimed", stats.TermsReclaimed).
		Int("symbols_reclaimed", stats.SymbolsReclaimed).
		Str("duration", stats.Duration.String()).
		Log("garbage collected")

	return stats, nil
}

// markReachable sets n's mark bit and, only the first time it is set for n,
// recurses into n's children.
func markReachable(n *store.Node) {
	if n == nil || !n.Mark() {
		return
	}
	for _, c := range n.Children {
		markReachable(c)
	}
}

// SetVerification toggles the post-mark/post-sweep invariant checks.
func (c *Collector) SetVerification(enabled bool) {
	c.verifyEnabled = enabled
}
