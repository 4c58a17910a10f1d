package gen

import (
	"math"

	"github.com/propq/propq/rng"
	"github.com/propq/propq/shrink"
)

// Bool generates true or false with equal probability. True shrinks to
// false.
func Bool() Gen[bool] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[bool], bool) {
		return shrink.From(src.Bool(), shrink.Bool), true
	})
}

// Int generates ints whose magnitude scales with size: values are drawn
// uniformly from [-size, size] and shrink toward zero.
func Int() Gen[int] {
	return Sized(func(size int) Gen[int] {
		return IntRange(-size, size)
	})
}

// IntRange generates ints uniformly in [min, max], shrinking toward the
// in-range value closest to zero. Panics if min > max.
func IntRange(min, max int) Gen[int] {
	if min > max {
		panic("gen: IntRange min > max")
	}
	return Map(Int64Range(int64(min), int64(max)), func(v int64) int { return int(v) })
}

// Int64 generates int64s whose magnitude scales with size.
func Int64() Gen[int64] {
	return Sized(func(size int) Gen[int64] {
		return Int64Range(-int64(size), int64(size))
	})
}

// Int64Range generates int64s uniformly in [min, max], shrinking toward
// the in-range value closest to zero. Panics if min > max.
func Int64Range(min, max int64) Gen[int64] {
	if min > max {
		panic("gen: Int64Range min > max")
	}
	target := int64(0)
	if min > 0 {
		target = min
	} else if max < 0 {
		target = max
	}
	shrinker := shrink.Int64Toward(target)
	return New(func(src *rng.Source, size int) (*shrink.Tree[int64], bool) {
		return shrink.From(src.Int64Range(min, max), shrinker), true
	})
}

// Uint64 generates uint64s in [0, size], shrinking toward zero.
func Uint64() Gen[uint64] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[uint64], bool) {
		v := src.Uint64n(uint64(size) + 1)
		return shrink.From(v, shrink.Uint64), true
	})
}

// Float64 generates float64s in [-size, size], shrinking toward zero.
func Float64() Gen[float64] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[float64], bool) {
		v := (2*src.Float64() - 1) * float64(size)
		return shrink.From(v, shrink.Float64), true
	})
}

// Float64Range generates float64s uniformly in [min, max), shrinking
// toward the in-range value closest to zero. Panics if min > max.
func Float64Range(min, max float64) Gen[float64] {
	if min > max || math.IsNaN(min) || math.IsNaN(max) {
		panic("gen: Float64Range min > max")
	}
	target := 0.0
	if min > 0 {
		target = min
	} else if max < 0 {
		target = max
	}
	shrinker := floatToward(target)
	return New(func(src *rng.Source, size int) (*shrink.Tree[float64], bool) {
		v := min + src.Float64()*(max-min)
		return shrink.From(v, shrinker), true
	})
}

func floatToward(target float64) shrink.Shrinker[float64] {
	return func(v float64) []float64 {
		if v == target || math.IsNaN(v) {
			return nil
		}
		out := []float64{target}
		if m := target + (v-target)/2; m != target && m != v {
			out = append(out, m)
		}
		return out
	}
}

// Rune generates printable ASCII runes.
func Rune() Gen[rune] {
	return RuneFrom(CharsetPrintable)
}

// RuneFrom generates runes uniformly from the given charset, shrinking
// toward its first character. Panics if the charset is empty.
func RuneFrom(charset string) Gen[rune] {
	runes := []rune(charset)
	if len(runes) == 0 {
		panic("gen: RuneFrom called with empty charset")
	}
	return Map(IntRange(0, len(runes)-1), func(i int) rune { return runes[i] })
}

// Byte generates a uniform byte, shrinking toward zero.
func Byte() Gen[byte] {
	return Map(IntRange(0, 255), func(v int) byte { return byte(v) })
}

// Const generates the same value every time and never shrinks.
func Const[T any](value T) Gen[T] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[T], bool) {
		return shrink.Leaf(value), true
	})
}

// Just is Const under its conventional name.
func Just[T any](value T) Gen[T] {
	return Const(value)
}
