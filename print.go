package atermgo

import (
	"io"
	"strconv"
	"strings"
)

// String renders t in prefix notation: sym(child1,child2,...), or the plain
// decimal value for an integer leaf. There is no corresponding parser, per
// spec.md §6.
func (t Term) String() string {
	var b strings.Builder
	t.writeTo(&b)
	return b.String()
}

// WriteTo writes t's printable form to w.
func (t Term) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	t.writeTo(&b)
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (t Term) writeTo(b *strings.Builder) {
	if !t.IsDefined() {
		b.WriteString("<undefined>")
		return
	}
	if t.IsInt() {
		b.WriteString(strconv.FormatInt(t.IntValue(), 10))
		return
	}

	sym := t.Symbol()
	b.WriteString(sym.Name())
	sym.Release()

	arity := t.Arity()
	if arity == 0 {
		return
	}
	b.WriteByte('(')
	for i := 0; i < arity; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		t.Child(i).writeTo(b)
	}
	b.WriteByte(')')
}
