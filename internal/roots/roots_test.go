package roots

import (
	"testing"

	"github.com/atermgo/atermgo/internal/busylock"
	"github.com/atermgo/atermgo/internal/store"
	"github.com/atermgo/atermgo/internal/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(v int64) *store.Node {
	p := store.NewPool(4, 4, 0.75)
	syms := symtab.New()
	return p.GetInt(syms.IntSymbol(), v)
}

func newTestLeaser() *busylock.Leaser {
	return busylock.NewLeaser(busylock.NewGroup())
}

func TestProtectAndEachVisitsSlot(t *testing.T) {
	r := NewRegistry()
	n := newTestNode(1)
	slot := r.Protect(n)
	require.Equal(t, 1, r.SlotCount())

	var seen []*store.Node
	r.Each(func(n *store.Node) { seen = append(seen, n) })
	assert.Equal(t, []*store.Node{n}, seen)

	r.Unprotect(slot)
	assert.Equal(t, 0, r.SlotCount())
}

func TestUpdateRepointsSlot(t *testing.T) {
	r := NewRegistry()
	n1 := newTestNode(1)
	n2 := newTestNode(2)
	slot := r.Protect(n1)
	r.Update(slot, n2)

	var seen []*store.Node
	r.Each(func(n *store.Node) { seen = append(seen, n) })
	assert.Equal(t, []*store.Node{n2}, seen)
}

func TestSequenceIsVisitedAsContainer(t *testing.T) {
	r := NewRegistry()
	seq := NewSequence(r, newTestLeaser())
	defer seq.Close()

	n := newTestNode(1)
	seq.Append(n)
	assert.Equal(t, 1, seq.Len())
	assert.Equal(t, 1, r.ContainerCount())

	var seen []*store.Node
	r.Each(func(n *store.Node) { seen = append(seen, n) })
	assert.Equal(t, []*store.Node{n}, seen)
}

func TestDequePushPop(t *testing.T) {
	r := NewRegistry()
	d := NewDeque(r, newTestLeaser())
	defer d.Close()

	a, b, c := newTestNode(1), newTestNode(2), newTestNode(3)
	d.PushBack(a)
	d.PushBack(b)
	d.PushFront(c)

	require.Equal(t, 3, d.Len())
	assert.Same(t, c, d.PopFront())
	assert.Same(t, b, d.PopBack())
	assert.Same(t, a, d.PopFront())
}

func TestStackLIFO(t *testing.T) {
	r := NewRegistry()
	s := NewStack(r, newTestLeaser())
	defer s.Close()

	a, b := newTestNode(1), newTestNode(2)
	s.Push(a)
	s.Push(b)
	assert.Same(t, b, s.Peek())
	assert.Same(t, b, s.Pop())
	assert.Same(t, a, s.Pop())
}

func TestMappingVisitsKeysAndValues(t *testing.T) {
	r := NewRegistry()
	m := NewMapping(r, newTestLeaser())
	defer m.Close()

	k, v := newTestNode(1), newTestNode(2)
	m.Put(k, v)

	got, ok := m.Get(k)
	require.True(t, ok)
	assert.Same(t, v, got)

	var seen []*store.Node
	r.Each(func(n *store.Node) { seen = append(seen, n) })
	assert.ElementsMatch(t, []*store.Node{k, v}, seen)

	m.Delete(k)
	assert.Equal(t, 0, m.Len())
}

func TestContainerCloseDeregisters(t *testing.T) {
	r := NewRegistry()
	seq := NewSequence(r, newTestLeaser())
	require.Equal(t, 1, r.ContainerCount())
	seq.Close()
	assert.Equal(t, 0, r.ContainerCount())
}
