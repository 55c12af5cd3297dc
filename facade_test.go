package atermgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolNameArityAndEquality(t *testing.T) {
	p := New(DefaultConfig(), nil)
	f1 := p.GetFunctionSymbol("f", 2, false)
	defer f1.Release()
	f2 := p.GetFunctionSymbol("f", 2, false)
	defer f2.Release()
	g := p.GetFunctionSymbol("g", 2, false)
	defer g.Release()

	assert.Equal(t, "f", f1.Name())
	assert.Equal(t, 2, f1.Arity())
	assert.True(t, f1.Equal(f2))
	assert.False(t, f1.Equal(g))

	var undefined Symbol
	assert.False(t, undefined.IsDefined())
}

func TestSymbolRetainIndependentFromOriginal(t *testing.T) {
	p := New(DefaultConfig(), nil)
	s := p.GetFunctionSymbol("retained", 0, false)
	defer s.Release()

	r := s.Retain()
	r.Release()
	// s is still valid: interning against it must still succeed.
	_, err := p.GetTerm(s)
	require.NoError(t, err)
}

func TestGetAppliedTermDoesNotConsumeCallerHandles(t *testing.T) {
	p := New(DefaultConfig(), nil)
	sym := p.GetFunctionSymbol("h", 1, false)
	defer sym.Release()
	arg := p.GetIntTerm(1)

	_, err := p.GetAppliedTerm(sym, arg)
	require.NoError(t, err)
	// sym and arg must still be independently usable.
	_, err = p.GetAppliedTerm(sym, arg)
	require.NoError(t, err)
}

func TestGetAppliedTermRejectsUndefinedArg(t *testing.T) {
	p := New(DefaultConfig(), nil)
	sym := p.GetFunctionSymbol("h2", 1, false)
	defer sym.Release()

	_, err := p.GetAppliedTerm(sym, Term{})
	assert.Error(t, err)
}

func TestListConsHeadTailAndAsList(t *testing.T) {
	p := New(DefaultConfig(), nil)
	l := p.EmptyList()
	assert.True(t, l.IsEmpty())
	assert.Equal(t, 0, l.Len())

	l2, err := p.Cons(p.GetIntTerm(1), l)
	require.NoError(t, err)
	assert.False(t, l2.IsEmpty())
	assert.Equal(t, int64(1), l2.Head().IntValue())
	assert.True(t, l2.Tail().IsEmpty())

	asList, ok := p.AsList(l2.Term)
	require.True(t, ok)
	assert.Equal(t, 1, asList.Len())

	_, ok = p.AsList(p.GetIntTerm(5))
	assert.False(t, ok)
}

func TestTermStringRendersPrefixNotation(t *testing.T) {
	p := New(DefaultConfig(), nil)
	sym := p.GetFunctionSymbol("f", 2, false)
	defer sym.Release()
	term, err := p.GetAppliedTerm(sym, p.GetIntTerm(1), p.GetIntTerm(2))
	require.NoError(t, err)
	assert.Equal(t, "f(1,2)", term.String())

	nullary := p.GetFunctionSymbol("c", 0, false)
	defer nullary.Release()
	constant, err := p.GetTerm(nullary)
	require.NoError(t, err)
	assert.Equal(t, "c", constant.String())

	assert.Equal(t, "7", p.GetIntTerm(7).String())
}

func TestIndexedSetAssignsStableDenseIndices(t *testing.T) {
	p := New(DefaultConfig(), nil)
	set := NewIndexedSet()

	i0, inserted0 := set.Put(p.GetIntTerm(10))
	assert.True(t, inserted0)
	assert.Equal(t, 0, i0)

	i1, inserted1 := set.Put(p.GetIntTerm(10))
	assert.False(t, inserted1)
	assert.Equal(t, i0, i1)

	i2, inserted2 := set.Put(p.GetIntTerm(20))
	assert.True(t, inserted2)
	assert.Equal(t, 1, i2)
	assert.Equal(t, 2, set.Len())

	idx, ok := set.Index(p.GetIntTerm(20))
	require.True(t, ok)
	assert.Equal(t, i2, idx)
	assert.Equal(t, int64(10), set.At(i0).IntValue())
}

func TestDequeStackAndMappingBasics(t *testing.T) {
	p := New(DefaultConfig(), nil)

	d := p.NewDeque()
	defer d.Close()
	d.PushBack(p.GetIntTerm(1))
	d.PushFront(p.GetIntTerm(0))
	d.PushBack(p.GetIntTerm(2))
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, int64(0), d.PopFront().IntValue())
	assert.Equal(t, int64(2), d.PopBack().IntValue())
	assert.Equal(t, 1, d.Len())

	s := p.NewStack()
	defer s.Close()
	s.Push(p.GetIntTerm(1))
	s.Push(p.GetIntTerm(2))
	assert.Equal(t, int64(2), s.Peek().IntValue())
	assert.Equal(t, int64(2), s.Pop().IntValue())
	assert.Equal(t, int64(1), s.Pop().IntValue())
	assert.Equal(t, 0, s.Len())

	m := p.NewMapping()
	defer m.Close()
	key := p.GetIntTerm(1)
	m.Put(key, p.GetIntTerm(100))
	v, ok := m.Get(key)
	require.True(t, ok)
	assert.Equal(t, int64(100), v.IntValue())
	m.Delete(key)
	_, ok = m.Get(key)
	assert.False(t, ok)
}

func TestCreationMetricsTracksHitsAndMisses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CreationMetricsEnabled = true
	p := New(cfg, nil)

	p.GetIntTerm(1)
	p.GetIntTerm(1) // same value again: a hash-consing hit

	hits, misses := p.CreationMetrics()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestErrorWrapsOperationAndKind(t *testing.T) {
	p := New(DefaultConfig(), nil)
	sym := p.GetFunctionSymbol("arity2", 2, false)
	defer sym.Release()

	_, err := p.GetAppliedTerm(sym, p.GetIntTerm(1))
	require.Error(t, err)
	var opErr *Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrArity, opErr.Kind)
}
