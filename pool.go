// Package atermgo implements a hash-consed, concurrently-accessed,
// garbage-collected term store: function symbols and the terms built from
// them are maximally shared, every public operation is safe to call from
// many goroutines at once, and memory backing terms unreachable from any
// live handle or protected container is reclaimed by an explicit mark-sweep
// collector rather than left to Go's own GC (which would never observe the
// term store's internal hash-consing tables as anything but permanently
// live).
package atermgo

import (
	"sync"

	"github.com/atermgo/atermgo/internal/busylock"
	"github.com/atermgo/atermgo/internal/collector"
	"github.com/atermgo/atermgo/internal/config"
	"github.com/atermgo/atermgo/internal/obslog"
	"github.com/atermgo/atermgo/internal/roots"
	"github.com/atermgo/atermgo/internal/store"
	"github.com/atermgo/atermgo/internal/symtab"
)

// Config is the runtime tuning surface for a Pool; see internal/config for
// field documentation. The zero value is valid and yields the documented
// defaults.
type Config = config.Config

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config { return config.Default() }

// LoadConfig reads a TOML configuration file, overlaying it onto
// DefaultConfig(). A missing path is not an error.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// Pool is a complete, independent term store: its own function-symbol
// table, its own per-arity hash-consed storages, its own root set and
// collector. Most programs need only the process-wide default Pool, reached
// through the package-level functions (GetFunctionSymbol, GetIntTerm, ...);
// construct one directly with New to keep multiple isolated stores in the
// same process.
type Pool struct {
	cfg    Config
	log    *obslog.Logger
	group  *busylock.Group
	leaser *busylock.Leaser
	syms   *symtab.Pool
	terms  *store.Pool
	roots  *roots.Registry
	gc     *collector.Collector
}

// New creates a Pool configured by cfg, logging through log (nil discards
// logs).
func New(cfg Config, log *obslog.Logger) *Pool {
	cfg = cfg.Normalize()
	if log == nil {
		log = obslog.Discard()
	}

	group := busylock.NewGroup()
	collectorLock := group.NewLock() // the collector is a permanent, single participant
	leaser := busylock.NewLeaser(group)
	syms := symtab.New()
	terms := store.NewPool(cfg.InitialCapacity, cfg.SlabSize, cfg.LoadFactorThreshold)
	reg := roots.NewRegistry()

	interval := cfg.InitialCapacity
	gc := collector.New(collectorLock, terms, syms, reg, log, interval)
	gc.SetEnabled(!cfg.GarbageCollectionDisabled)
	gc.SetVerification(cfg.VerificationEnabled)
	terms.SetMetricsEnabled(cfg.CreationMetricsEnabled)
	terms.SetCreationObserver(func(*store.Node) { gc.NotifyCreation() })

	return &Pool{
		cfg:    cfg,
		log:    log,
		group:  group,
		leaser: leaser,
		syms:   syms,
		terms:  terms,
		roots:  reg,
		gc:     gc,
	}
}

// EnableGarbageCollection toggles the automatic collector, per spec.md §6.
func (p *Pool) EnableGarbageCollection(enabled bool) {
	p.gc.SetEnabled(enabled)
}

// Collect runs one mark-sweep collection immediately, regardless of whether
// automatic collection is enabled, per spec.md §6.
func (p *Pool) Collect() (TermsReclaimed, SymbolsReclaimed int, err error) {
	stats, err := p.gc.Collect()
	if err != nil {
		return 0, 0, newError("Collect", ErrInvariant, err)
	}
	return stats.TermsReclaimed, stats.SymbolsReclaimed, nil
}

// CreationMetrics returns the running hash-consing hit/miss counts: hits
// are lookups that found an existing structurally equal term, misses are
// lookups that allocated a new one. Both are zero unless
// Config.CreationMetricsEnabled was set, mirroring the original source's
// EnableCreationMetrics.
func (p *Pool) CreationMetrics() (hits, misses uint64) {
	return p.terms.Metrics()
}

// RegisterPrefix returns a PrefixCounter for prefix, creating it if
// necessary, per spec.md §6.
func (p *Pool) RegisterPrefix(prefix string) *PrefixCounter {
	return &PrefixCounter{c: p.syms.RegisterPrefix(prefix)}
}

// DeregisterPrefix stops tracking prefix.
func (p *Pool) DeregisterPrefix(prefix string) {
	p.syms.Deregister(prefix)
}

// PrefixCounter is a fresh-name generation counter shared by every caller
// that registered the same prefix.
type PrefixCounter struct {
	c *symtab.SharedCounter
}

// Value returns the counter's current value: at least one greater than the
// largest numeric suffix observed on any symbol created with this prefix
// and check-prefix enabled.
func (c *PrefixCounter) Value() uint64 { return c.c.Value() }

var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// Default returns the process-wide Pool, created on first use with
// DefaultConfig().
func Default() *Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = New(DefaultConfig(), nil)
	})
	return defaultPool
}

// Package-level convenience wrappers over Default(), per spec.md §6.

// GetFunctionSymbol interns (name, arity) in the default Pool.
func GetFunctionSymbol(name string, arity int, checkForRegisteredPrefix bool) Symbol {
	return Default().GetFunctionSymbol(name, arity, checkForRegisteredPrefix)
}

// GetIntTerm interns an integer leaf term in the default Pool.
func GetIntTerm(v int64) Term { return Default().GetIntTerm(v) }

// GetTerm interns a zero-arity application (a constant) in the default Pool.
func GetTerm(sym Symbol) (Term, error) { return Default().GetTerm(sym) }

// GetAppliedTerm interns an application of sym to args in the default Pool.
func GetAppliedTerm(sym Symbol, args ...Term) (Term, error) {
	return Default().GetAppliedTerm(sym, args...)
}

// AddCreationHook registers fn against the default Pool.
func AddCreationHook(sym Symbol, fn func(Term)) { Default().AddCreationHook(sym, fn) }

// AddDeletionHook registers fn against the default Pool.
func AddDeletionHook(sym Symbol, fn func(Symbol, []NodeID)) { Default().AddDeletionHook(sym, fn) }

// RegisterPrefix registers prefix against the default Pool.
func RegisterPrefix(prefix string) *PrefixCounter { return Default().RegisterPrefix(prefix) }

// Collect runs one collection against the default Pool.
func Collect() (termsReclaimed, symbolsReclaimed int, err error) { return Default().Collect() }

// EnableGarbageCollection toggles automatic collection on the default Pool.
func EnableGarbageCollection(enabled bool) { Default().EnableGarbageCollection(enabled) }

// CreationMetrics returns the default Pool's running hash-consing hit/miss
// counts.
func CreationMetrics() (hits, misses uint64) { return Default().CreationMetrics() }
