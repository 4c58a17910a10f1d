package gen

import (
	"github.com/propq/propq/rng"
	"github.com/propq/propq/shrink"
)

// Map transforms generated values with f. Size behavior is preserved and
// shrinking happens on the underlying value, re-mapped through f.
func Map[T, U any](g Gen[T], f func(T) U) Gen[U] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[U], bool) {
		t, ok := g.Generate(src, size)
		if !ok {
			return nil, false
		}
		return shrink.Map(t, f), true
	})
}

// Bind sequences two generation steps: a value is drawn from g, then
// used to pick the next generator. The dependent step draws from a split
// child stream so the two steps never share correlated entropy, and the
// child is cloned for every shrink candidate so rebuilding stays
// deterministic. A shrink candidate whose dependent draw discards is
// pruned from the tree, so every value the search evaluates is one the
// generator can actually produce.
func Bind[T, U any](g Gen[T], f func(T) Gen[U]) Gen[U] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[U], bool) {
		outer, ok := g.Generate(src, size)
		if !ok {
			return nil, false
		}

		inner := src.Split()
		rebuild := func(v T) (*shrink.Tree[U], bool) {
			return f(v).Generate(inner.Clone(), size)
		}

		root, ok := rebuild(outer.Value)
		if !ok {
			return nil, false
		}
		return shrink.Bind(outer, root, rebuild), true
	})
}

// SuchThat resamples until pred holds, up to a size-dependent retry
// budget. Exhausting the budget yields a discard rather than looping, so
// narrow predicates cost trials instead of hanging the run. The shrink
// tree is pruned to candidates that still satisfy pred.
func SuchThat[T any](g Gen[T], pred func(T) bool) Gen[T] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[T], bool) {
		retries := filterRetries(size)
		for i := 0; i < retries; i++ {
			t, ok := g.Generate(src, size)
			if !ok {
				continue
			}
			if pred(t.Value) {
				return shrink.Filter(t, pred), true
			}
		}
		return nil, false
	})
}

// filterRetries is the resample budget for SuchThat. It grows with size
// so sparser predicates get more attempts on larger draws.
func filterRetries(size int) int {
	return 10 + size
}

// OneOf selects one of the given generators uniformly. Panics if the
// list is empty: an empty choice is a programming error, not a
// data-dependent outcome.
func OneOf[T any](gens ...Gen[T]) Gen[T] {
	if len(gens) == 0 {
		panic("gen: OneOf called with no generators")
	}
	return New(func(src *rng.Source, size int) (*shrink.Tree[T], bool) {
		return gens[src.Intn(len(gens))].Generate(src, size)
	})
}

// Weighted pairs a generator with a selection weight for OneOfWeighted.
type Weighted[T any] struct {
	Weight float64
	Gen    Gen[T]
}

// OneOfWeighted selects a sub-generator with probability proportional to
// its weight. Weights need not sum to one. Panics on an empty list or a
// non-positive total weight.
func OneOfWeighted[T any](choices ...Weighted[T]) Gen[T] {
	if len(choices) == 0 {
		panic("gen: OneOfWeighted called with no choices")
	}
	var total float64
	for _, c := range choices {
		if c.Weight < 0 {
			panic("gen: OneOfWeighted weight must not be negative")
		}
		total += c.Weight
	}
	if total <= 0 {
		panic("gen: OneOfWeighted total weight must be positive")
	}
	return New(func(src *rng.Source, size int) (*shrink.Tree[T], bool) {
		point := src.Float64() * total
		var cumulative float64
		for _, c := range choices {
			cumulative += c.Weight
			if point < cumulative {
				return c.Gen.Generate(src, size)
			}
		}
		// Floating point edge case: fall back to the last choice.
		return choices[len(choices)-1].Gen.Generate(src, size)
	})
}

// OneOfValues selects one of the given constants, shrinking toward the
// first. Panics if no values are given.
func OneOfValues[T any](values ...T) Gen[T] {
	if len(values) == 0 {
		panic("gen: OneOfValues called with no values")
	}
	return Map(IntRange(0, len(values)-1), func(i int) T { return values[i] })
}

// Pick selects an element of a non-empty runtime slice, shrinking toward
// its first element. Panics if the slice is empty.
func Pick[T any](slice []T) Gen[T] {
	if len(slice) == 0 {
		panic("gen: Pick called with empty slice")
	}
	return OneOfValues(slice...)
}

// SliceOf generates slices whose length is drawn from [0, size], then
// that many elements. Shrinks by removing chunks and then shrinking
// surviving elements.
func SliceOf[T any](elem Gen[T]) Gen[[]T] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[[]T], bool) {
		n := src.IntRange(0, size)
		elems, ok := drawElems(elem, src, size, n)
		if !ok {
			return nil, false
		}
		return shrink.SliceOf(elems), true
	})
}

// SliceOfN generates slices of exactly n elements. Length is preserved
// under shrinking; only elements shrink.
func SliceOfN[T any](n int, elem Gen[T]) Gen[[]T] {
	if n < 0 {
		panic("gen: SliceOfN called with negative length")
	}
	return New(func(src *rng.Source, size int) (*shrink.Tree[[]T], bool) {
		elems, ok := drawElems(elem, src, size, n)
		if !ok {
			return nil, false
		}
		return shrink.FixedSliceOf(elems), true
	})
}

// NonEmptySliceOf generates slices with at least one element.
func NonEmptySliceOf[T any](elem Gen[T]) Gen[[]T] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[[]T], bool) {
		n := src.IntRange(1, max(1, size))
		elems, ok := drawElems(elem, src, size, n)
		if !ok {
			return nil, false
		}
		t := shrink.SliceOf(elems)
		return shrink.Filter(t, func(v []T) bool { return len(v) > 0 }), true
	})
}

func drawElems[T any](elem Gen[T], src *rng.Source, size, n int) ([]*shrink.Tree[T], bool) {
	elems := make([]*shrink.Tree[T], n)
	for i := range elems {
		t, ok := elem.Generate(src, size)
		if !ok {
			return nil, false
		}
		elems[i] = t
	}
	return elems, true
}

// String generates printable ASCII strings with length drawn from
// [0, size].
func String() Gen[string] {
	return StringFrom(CharsetPrintable)
}

// StringFrom generates strings over the given charset with length drawn
// from [0, size]. Shrinks shorter first, then runes toward 'a'.
func StringFrom(charset string) Gen[string] {
	return Map(SliceOf(RuneFrom(charset)), func(rs []rune) string { return string(rs) })
}

// Identifier generates identifiers: a letter or underscore followed by
// alphanumerics or underscores, length in [1, max(1, size)].
func Identifier() Gen[string] {
	head := RuneFrom(CharsetIdentStart)
	tail := SliceOf(RuneFrom(CharsetIdentBody))
	return Map(Zip2(head, tail), func(p Pair[rune, []rune]) string {
		return string(append([]rune{p.First}, p.Second...))
	})
}

// MapOf generates maps with entry count drawn from [0, size]. Duplicate
// keys collapse, so the realized size may be smaller.
func MapOf[K comparable, V any](key Gen[K], val Gen[V]) Gen[map[K]V] {
	pairs := SliceOf(Zip2(key, val))
	return Map(pairs, func(ps []Pair[K, V]) map[K]V {
		m := make(map[K]V, len(ps))
		for _, p := range ps {
			m[p.First] = p.Second
		}
		return m
	})
}

// Ptr generates a nil pointer with the given probability, otherwise a
// pointer to a generated value. Non-nil pointers shrink to nil first,
// then through the pointed-to value.
func Ptr[T any](g Gen[T], nilChance float64) Gen[*T] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[*T], bool) {
		if src.Float64() < nilChance {
			return shrink.Leaf[*T](nil), true
		}
		t, ok := g.Generate(src, size)
		if !ok {
			return nil, false
		}
		mapped := shrink.Map(t, func(v T) *T { return &v })
		return shrink.New(mapped.Value, func() []*shrink.Tree[*T] {
			return append([]*shrink.Tree[*T]{shrink.Leaf[*T](nil)}, mapped.Children()...)
		}), true
	})
}

// Pair is a generated 2-tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip2 generates pairs, drawing both components sequentially from the
// same stream and shrinking them independently in component order.
func Zip2[A, B any](ga Gen[A], gb Gen[B]) Gen[Pair[A, B]] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[Pair[A, B]], bool) {
		ta, ok := ga.Generate(src, size)
		if !ok {
			return nil, false
		}
		tb, ok := gb.Generate(src, size)
		if !ok {
			return nil, false
		}
		return zipTree(ta, tb), true
	})
}

func zipTree[A, B any](a *shrink.Tree[A], b *shrink.Tree[B]) *shrink.Tree[Pair[A, B]] {
	return shrink.New(Pair[A, B]{First: a.Value, Second: b.Value}, func() []*shrink.Tree[Pair[A, B]] {
		var out []*shrink.Tree[Pair[A, B]]
		for _, ca := range a.Children() {
			out = append(out, zipTree(ca, b))
		}
		for _, cb := range b.Children() {
			out = append(out, zipTree(a, cb))
		}
		return out
	})
}

// Sized gives a generator access to the current size, typically to bound
// recursion. Structural generators must strictly decrease the size they
// pass to recursive calls so generation terminates.
func Sized[T any](f func(size int) Gen[T]) Gen[T] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[T], bool) {
		return f(size).Generate(src, size)
	})
}

// Resize runs a generator at a fixed size, ignoring the driver's ramp.
func Resize[T any](g Gen[T], size int) Gen[T] {
	if size < 0 {
		panic("gen: Resize called with negative size")
	}
	return New(func(src *rng.Source, _ int) (*shrink.Tree[T], bool) {
		return g.Generate(src, size)
	})
}

// Scale transforms the size seen by a generator, e.g. to halve the depth
// budget of a recursive branch.
func Scale[T any](g Gen[T], f func(size int) int) Gen[T] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[T], bool) {
		return g.Generate(src, f(size))
	})
}
