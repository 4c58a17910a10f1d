// Package shrink holds the shrink orderings used to minimize failing
// inputs. A Shrinker lists strictly smaller candidates for a value,
// best-first; a Tree expands those candidates lazily so the search never
// materializes more of the space than it visits.
package shrink

import "math"

// Shrinker returns candidate values strictly smaller than the given one,
// in the order they should be tried. Candidates must converge to a
// minimal element (zero, empty slice) so shrinking always terminates.
type Shrinker[T any] func(value T) []T

// None is the shrinker for values with no meaningful shrink ordering.
func None[T any](T) []T { return nil }

// Int64 shrinks toward zero: zero itself first, then values that remove
// progressively smaller halves of the distance, ending with a unit step.
func Int64(v int64) []int64 {
	if v == 0 {
		return nil
	}
	out := []int64{0}
	for d := v / 2; d != 0; d /= 2 {
		out = append(out, v-d)
	}
	return out
}

// Int64Toward shrinks toward an arbitrary target instead of zero. Ranged
// generators use it so candidates stay inside the generator's domain.
func Int64Toward(target int64) Shrinker[int64] {
	return func(v int64) []int64 {
		if v == target {
			return nil
		}
		out := []int64{target}
		for d := (v - target) / 2; d != 0; d /= 2 {
			out = append(out, v-d)
		}
		return out
	}
}

// Int shrinks an int toward zero.
func Int(v int) []int {
	cands := Int64(int64(v))
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = int(c)
	}
	return out
}

// Uint64 shrinks toward zero through halving.
func Uint64(v uint64) []uint64 {
	if v == 0 {
		return nil
	}
	out := []uint64{0}
	for d := v / 2; d != 0; d /= 2 {
		out = append(out, v-d)
	}
	return out
}

// Float64 shrinks toward zero: zero first, then the truncated value to
// drop the fractional part, then halves.
func Float64(v float64) []float64 {
	if v == 0 || math.IsNaN(v) {
		return nil
	}
	out := []float64{0}
	if t := math.Trunc(v); t != v {
		out = append(out, t)
	}
	if h := v / 2; h != 0 && h != v {
		out = append(out, h)
	}
	return out
}

// Bool shrinks true to false.
func Bool(v bool) []bool {
	if v {
		return []bool{false}
	}
	return nil
}

// Slice shrinks by removing contiguous chunks (halves first, then smaller
// chunks, then single elements) and by shrinking individual surviving
// elements with the element shrinker.
func Slice[T any](elem Shrinker[T]) Shrinker[[]T] {
	return func(v []T) [][]T {
		var out [][]T
		n := len(v)

		for chunk := n; chunk >= 1; chunk /= 2 {
			for start := 0; start+chunk <= n; start += chunk {
				keep := make([]T, 0, n-chunk)
				keep = append(keep, v[:start]...)
				keep = append(keep, v[start+chunk:]...)
				out = append(out, keep)
			}
		}

		if elem == nil {
			return out
		}
		for i := 0; i < n; i++ {
			for _, c := range elem(v[i]) {
				cp := make([]T, n)
				copy(cp, v)
				cp[i] = c
				out = append(out, cp)
			}
		}
		return out
	}
}

// String shrinks a string as a rune slice: shorter first, then runes
// shrunk toward 'a' (or toward zero for runes below it).
func String(v string) []string {
	runes := []rune(v)
	cands := Slice(runeShrink)(runes)
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = string(c)
	}
	return out
}

func runeShrink(r rune) []rune {
	target := rune('a')
	if r <= target {
		target = 0
	}
	if r == target {
		return nil
	}
	out := []rune{target}
	if m := target + (r-target)/2; m != target && m != r {
		out = append(out, m)
	}
	return out
}
