package shrink

// Tree is a lazily expanded shrink tree: a candidate value plus the
// smaller candidates derived from it. Children are materialized at most
// once, when first requested, so adversarial shrink spaces cost nothing
// until the search actually walks into them.
type Tree[T any] struct {
	Value T

	expand   func() []*Tree[T]
	children []*Tree[T]
	expanded bool
}

// New builds a tree node whose children come from the given closure.
// A nil closure makes a leaf.
func New[T any](value T, expand func() []*Tree[T]) *Tree[T] {
	return &Tree[T]{Value: value, expand: expand}
}

// Leaf builds a node with no shrink candidates.
func Leaf[T any](value T) *Tree[T] {
	return &Tree[T]{Value: value}
}

// From builds a tree by recursively (and lazily) applying a shrinker.
func From[T any](value T, s Shrinker[T]) *Tree[T] {
	if s == nil {
		return Leaf(value)
	}
	return New(value, func() []*Tree[T] {
		cands := s(value)
		kids := make([]*Tree[T], len(cands))
		for i, c := range cands {
			kids[i] = From(c, s)
		}
		return kids
	})
}

// Children returns the node's shrink candidates, expanding them on first
// use.
func (t *Tree[T]) Children() []*Tree[T] {
	if !t.expanded {
		if t.expand != nil {
			t.children = t.expand()
			t.expand = nil
		}
		t.expanded = true
	}
	return t.children
}

// Filter prunes candidates that do not satisfy keep. A pruned candidate
// is replaced by its own surviving children, so the search can still
// reach smaller values behind an invalid intermediate step.
func Filter[T any](t *Tree[T], keep func(T) bool) *Tree[T] {
	return New(t.Value, func() []*Tree[T] {
		return filterForest(t.Children(), keep)
	})
}

func filterForest[T any](kids []*Tree[T], keep func(T) bool) []*Tree[T] {
	var out []*Tree[T]
	for _, k := range kids {
		if keep(k.Value) {
			out = append(out, Filter(k, keep))
		} else {
			out = append(out, filterForest(k.Children(), keep)...)
		}
	}
	return out
}

// Map transforms every value in the tree, preserving its shape.
func Map[T, U any](t *Tree[T], f func(T) U) *Tree[U] {
	return New(f(t.Value), func() []*Tree[U] {
		kids := t.Children()
		out := make([]*Tree[U], len(kids))
		for i, k := range kids {
			out[i] = Map(k, f)
		}
		return out
	})
}

// Bind grafts a dependent tree onto each node: outer candidates are tried
// first (rebuilding the inner value for each), then the inner value's own
// candidates. inner is the already-built tree for t.Value. The rebuild
// function must be deterministic; a candidate whose rebuild reports false
// is pruned and replaced by its own surviving descendants, so the search
// is never offered a value the rebuild could not produce.
func Bind[T, U any](t *Tree[T], inner *Tree[U], rebuild func(T) (*Tree[U], bool)) *Tree[U] {
	return New(inner.Value, func() []*Tree[U] {
		out := bindForest(t.Children(), rebuild)
		return append(out, inner.Children()...)
	})
}

func bindForest[T, U any](kids []*Tree[T], rebuild func(T) (*Tree[U], bool)) []*Tree[U] {
	var out []*Tree[U]
	for _, k := range kids {
		if in, ok := rebuild(k.Value); ok {
			out = append(out, Bind(k, in, rebuild))
		} else {
			out = append(out, bindForest(k.Children(), rebuild)...)
		}
	}
	return out
}

// SliceOf combines element trees into a tree for the whole slice:
// contiguous chunks are removed first (largest first), then single
// elements are shrunk in place, left to right.
func SliceOf[T any](elems []*Tree[T]) *Tree[[]T] {
	value := make([]T, len(elems))
	for i, e := range elems {
		value[i] = e.Value
	}
	return New(value, func() []*Tree[[]T] {
		var out []*Tree[[]T]
		n := len(elems)

		for chunk := n; chunk >= 1; chunk /= 2 {
			for start := 0; start+chunk <= n; start += chunk {
				keep := make([]*Tree[T], 0, n-chunk)
				keep = append(keep, elems[:start]...)
				keep = append(keep, elems[start+chunk:]...)
				out = append(out, SliceOf(keep))
			}
		}

		for i := 0; i < n; i++ {
			for _, c := range elems[i].Children() {
				cp := make([]*Tree[T], n)
				copy(cp, elems)
				cp[i] = c
				out = append(out, SliceOf(cp))
			}
		}
		return out
	})
}

// FixedSliceOf combines element trees into a tree for a slice whose
// length must be preserved: only in-place element shrinks are offered.
func FixedSliceOf[T any](elems []*Tree[T]) *Tree[[]T] {
	value := make([]T, len(elems))
	for i, e := range elems {
		value[i] = e.Value
	}
	return New(value, func() []*Tree[[]T] {
		var out []*Tree[[]T]
		for i := range elems {
			for _, c := range elems[i].Children() {
				cp := make([]*Tree[T], len(elems))
				copy(cp, elems)
				cp[i] = c
				out = append(out, FixedSliceOf(cp))
			}
		}
		return out
	})
}

// Result is the outcome of a shrink search.
type Result[T any] struct {
	Value    T   // locally minimal failing value
	Steps    int // accepted shrink steps
	Attempts int // candidates evaluated, including rejected ones
	Trail    []T // accepted intermediate values, oldest first
}

// Search minimizes a failing value with a greedy depth-first walk: the
// first child that still fails becomes current and its siblings are
// abandoned; when no child fails, the current value is locally minimal.
// Every candidate is re-checked with the full predicate, and the total
// number of evaluations is capped by maxAttempts.
func Search[T any](root *Tree[T], stillFails func(T) bool, maxAttempts int) Result[T] {
	cur := root
	res := Result[T]{Value: root.Value}

	for res.Attempts < maxAttempts {
		var next *Tree[T]
		for _, child := range cur.Children() {
			if res.Attempts >= maxAttempts {
				break
			}
			res.Attempts++
			if stillFails(child.Value) {
				next = child
				break
			}
		}
		if next == nil {
			break
		}
		cur = next
		res.Value = cur.Value
		res.Steps++
		res.Trail = append(res.Trail, cur.Value)
	}
	return res
}
