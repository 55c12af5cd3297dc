// Package busylock implements the "busy/forbidden" shared/exclusive lock
// described in spec.md §4.1: many goroutines may hold a shared (reader)
// section concurrently, while one goroutine at a time may hold an exclusive
// section that first waits for every other registered participant to leave
// its shared section.
//
// It is grounded on original_source/libraries/utilities/include/mcrl2/utilities/shared_mutex.h,
// carrying over its busy/forbidden flag pair and its per-participant
// registration in a shared participant list. The cache-line-padded atomic
// flag word follows the teacher's eventloop.FastState idiom (a lock-free
// state machine padded with golang.org/x/sys/cpu.CacheLinePad to avoid false
// sharing between participants spinning on each other's flags).
package busylock

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Group is shared by every Lock registered against it: it holds the mutex
// an exclusive acquirer takes to block out every other participant, plus the
// roster of participants that must be quiesced. It mirrors shared_mutex_data
// in the original source.
type Group struct {
	mu      sync.Mutex
	members []*Lock
}

// NewGroup creates an empty participant group.
func NewGroup() *Group {
	return &Group{}
}

// NewLock registers a new participant with the group and returns its Lock.
func (g *Group) NewLock() *Lock {
	l := &Lock{group: g}
	g.mu.Lock()
	g.members = append(g.members, l)
	g.mu.Unlock()
	return l
}

// Remove deregisters l, e.g. when a goroutine-local pool is torn down. l
// must not be locked (shared or exclusive) when this is called.
func (g *Group) Remove(l *Lock) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, m := range g.members {
		if m == l {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}

// Lock is one participant's view of the busy/forbidden protocol, registered
// against a Group. A participant is either a permanently held Lock (such as
// a collector's) or one leased from a Leaser for a single shared section.
type Lock struct {
	_         cpu.CacheLinePad
	busy      atomic.Bool
	forbidden atomic.Bool
	_         cpu.CacheLinePad
	depth     int // shared-lock reentrancy depth; touched only by this Lock's owner
	group     *Group
}

// LockShared acquires the shared (read/create) section. Reentrant: nested
// calls by the same owner simply bump the depth counter.
func (l *Lock) LockShared() {
	if l.depth == 0 {
		l.busy.Store(true)
		for l.forbidden.Load() {
			l.busy.Store(false)
			// An exclusive holder owns group.mu; block until it releases.
			l.group.mu.Lock()
			l.group.mu.Unlock()
			l.busy.Store(true)
		}
	}
	l.depth++
}

// UnlockShared releases one level of shared-section nesting.
func (l *Lock) UnlockShared() {
	l.depth--
	if l.depth == 0 {
		l.busy.Store(false)
	}
}

// IsSharedLocked reports whether this participant currently holds any depth
// of shared section.
func (l *Lock) IsSharedLocked() bool {
	return l.depth != 0
}

// Lock acquires the exclusive section: it takes the group mutex, tells every
// other participant to yield via their forbidden flag, then spins until
// every other participant's busy flag clears.
func (l *Lock) Lock() {
	l.group.mu.Lock()

	for _, m := range l.group.members {
		if m != l {
			m.forbidden.Store(true)
		}
	}
	for _, m := range l.group.members {
		if m != l {
			for m.busy.Load() {
				// spin-wait, matching wait_for_busy() in the original source
			}
		}
	}
}

// Unlock releases the exclusive section: clears every other participant's
// forbidden flag and releases the group mutex.
func (l *Lock) Unlock() {
	for _, m := range l.group.members {
		if m != l {
			m.forbidden.Store(false)
		}
	}
	l.group.mu.Unlock()
}

// Leaser hands out Locks registered against a Group on demand and recycles
// them, so callers with many short-lived shared sections -- the common
// case, one per public term-store operation -- don't need to maintain
// their own permanent per-goroutine Lock. Go has no supported way to obtain
// real goroutine-local storage, so a Leaser approximates the original's
// per-thread shared_mutex by handing each concurrent caller a distinct
// registered Lock for the duration of its shared section: every leased
// Lock is held by exactly one goroutine at a time, which is all the
// busy/forbidden protocol above requires of a "participant".
type Leaser struct {
	group *Group
	pool  sync.Pool
}

// NewLeaser creates a Leaser drawing Locks from group.
func NewLeaser(group *Group) *Leaser {
	le := &Leaser{group: group}
	le.pool.New = func() any { return group.NewLock() }
	return le
}

// AcquireShared leases a Lock and enters its shared section.
func (le *Leaser) AcquireShared() *Lock {
	l := le.pool.Get().(*Lock)
	l.LockShared()
	return l
}

// ReleaseShared leaves l's shared section and returns it to the pool.
func (le *Leaser) ReleaseShared(l *Lock) {
	l.UnlockShared()
	le.pool.Put(l)
}
