package store

// Mark sets n's mark bit, reporting whether it was previously unset (i.e.
// whether the collector should recurse into n's children). Grounded on
// original_source's thread_aterm_pool_implementation.h mark(), which walks
// down from each root only while a node's mark bit is still clear.
func (n *Node) Mark() (wasUnmarked bool) {
	wasUnmarked = !n.mark
	n.mark = true
	return wasUnmarked
}

// Marked reports whether n's mark bit is currently set.
func (n *Node) Marked() bool { return n.mark }

// ClearMarks resets every live node's mark bit, in preparation for a future
// mark phase. Called at the end of a collection cycle (or, equivalently, as
// the first step of the next one).
func (p *Pool) ClearMarks() {
	p.Each(func(n *Node) { n.mark = false })
}

// VerifyMark walks every live node and asserts that every reachable child of
// a marked node is itself marked -- i.e. that the mark phase closed over
// reachability, per spec.md §3's "root closure" invariant. It returns every
// violation found, rather than panicking directly, so callers can decide
// whether to treat it as fatal.
func (p *Pool) VerifyMark() []error {
	var errs []error
	p.Each(func(n *Node) {
		if !n.mark {
			return
		}
		for i, c := range n.Children {
			if !c.mark {
				errs = append(errs, &invariantError{
					what: "marked node has unmarked child",
					node: n,
					idx:  i,
				})
			}
		}
	})
	return errs
}

// VerifySweep walks every live node after a sweep and asserts that no
// dangling child pointers survived -- i.e. that every child of every
// remaining node is itself still present in the pool. Grounded on spec.md
// §3's "sweep soundness" invariant.
func (p *Pool) VerifySweep() []error {
	live := make(map[*Node]struct{})
	p.Each(func(n *Node) { live[n] = struct{}{} })

	var errs []error
	p.Each(func(n *Node) {
		for i, c := range n.Children {
			if _, ok := live[c]; !ok {
				errs = append(errs, &invariantError{
					what: "surviving node references a reclaimed child",
					node: n,
					idx:  i,
				})
			}
		}
	})
	return errs
}

type invariantError struct {
	what string
	node *Node
	idx  int
}

func (e *invariantError) Error() string {
	return e.what
}
