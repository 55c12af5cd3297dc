package collector

import (
	"testing"

	"github.com/atermgo/atermgo/internal/busylock"
	"github.com/atermgo/atermgo/internal/roots"
	"github.com/atermgo/atermgo/internal/store"
	"github.com/atermgo/atermgo/internal/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	lock  *busylock.Lock
	terms *store.Pool
	syms  *symtab.Pool
	reg   *roots.Registry
	coll  *Collector
}

func newFixture(interval int) *fixture {
	group := busylock.NewGroup()
	lock := group.NewLock()
	terms := store.NewPool(4, 4, 0.75)
	syms := symtab.New()
	reg := roots.NewRegistry()
	coll := New(lock, terms, syms, reg, nil, interval)
	return &fixture{lock: lock, terms: terms, syms: syms, reg: reg, coll: coll}
}

func TestCollectReclaimsUnrootedTerms(t *testing.T) {
	f := newFixture(0)
	rooted := f.terms.GetInt(f.syms.IntSymbol(), 1)
	slot := f.reg.Protect(rooted)
	defer f.reg.Unprotect(slot)

	f.terms.GetInt(f.syms.IntSymbol(), 2) // unrooted

	stats, err := f.coll.Collect()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TermsReclaimed)
	assert.Equal(t, 1, f.terms.Count())
}

func TestCollectMarksThroughChildren(t *testing.T) {
	f := newFixture(0)
	sym := f.syms.Create("f", 1, false)
	child := f.terms.GetInt(f.syms.IntSymbol(), 1)
	parent, err := f.terms.GetAppl(sym.Retain(), []*store.Node{child})
	require.NoError(t, err)

	slot := f.reg.Protect(parent)
	defer f.reg.Unprotect(slot)

	stats, err := f.coll.Collect()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TermsReclaimed)
	assert.Equal(t, 2, f.terms.Count())
}

func TestCollectSweepsSymbolsAfterTermReclaim(t *testing.T) {
	f := newFixture(0)
	sym := f.syms.Create("onlyterm", 0, false)
	_, err := f.terms.GetAppl(sym, nil)
	require.NoError(t, err)
	sym.Release()

	stats, err := f.coll.Collect()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TermsReclaimed)
	assert.Equal(t, 1, stats.SymbolsReclaimed)
}

func TestNotifyCreationTriggersAutomaticCollection(t *testing.T) {
	f := newFixture(2)
	f.terms.GetInt(f.syms.IntSymbol(), 1)
	f.coll.NotifyCreation()
	f.terms.GetInt(f.syms.IntSymbol(), 2)
	f.coll.NotifyCreation()
	// Second NotifyCreation should have triggered a collection that
	// reclaimed both unrooted ints.
	assert.Equal(t, 0, f.terms.Count())
}

func TestSetEnabledDisablesAutomaticCollection(t *testing.T) {
	f := newFixture(1)
	f.coll.SetEnabled(false)
	f.terms.GetInt(f.syms.IntSymbol(), 1)
	f.coll.NotifyCreation()
	assert.Equal(t, 1, f.terms.Count())
}
