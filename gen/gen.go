// Package gen provides composable random value generators. A Gen maps a
// random source and a size parameter to a value together with its lazy
// shrink tree, so a failing draw already knows how to get smaller.
//
// Generators are immutable: combinators build new generators by
// composition and never mutate their inputs, which makes a Gen safe to
// construct once and reuse across every trial of a run.
package gen

import (
	"github.com/propq/propq/rng"
	"github.com/propq/propq/shrink"
)

// Gen produces values of type T at a given size. The boolean result is
// false when the draw was discarded by a bounded filter; callers count
// that as a discarded trial, never as a failure.
type Gen[T any] struct {
	generate func(src *rng.Source, size int) (*shrink.Tree[T], bool)
}

// New builds a generator from a raw generation function.
func New[T any](generate func(src *rng.Source, size int) (*shrink.Tree[T], bool)) Gen[T] {
	return Gen[T]{generate: generate}
}

// Simple builds a generator from a plain value function. Values drawn
// this way do not shrink.
func Simple[T any](f func(src *rng.Source, size int) T) Gen[T] {
	return New(func(src *rng.Source, size int) (*shrink.Tree[T], bool) {
		return shrink.Leaf(f(src, size)), true
	})
}

// Generate draws a value and its shrink tree. Negative sizes are treated
// as zero.
func (g Gen[T]) Generate(src *rng.Source, size int) (*shrink.Tree[T], bool) {
	if size < 0 {
		size = 0
	}
	return g.generate(src, size)
}

// Sample draws just the value, discarding shrink information. Useful in
// tests and tooling that only need example data.
func (g Gen[T]) Sample(src *rng.Source, size int) (T, bool) {
	t, ok := g.Generate(src, size)
	if !ok {
		var zero T
		return zero, false
	}
	return t.Value, true
}

// Charsets for string and rune generation.
const (
	CharsetAlpha      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CharsetAlphaLower = "abcdefghijklmnopqrstuvwxyz"
	CharsetAlphaUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CharsetDigits     = "0123456789"
	CharsetAlphaNum   = CharsetAlpha + CharsetDigits
	CharsetHex        = "0123456789abcdef"
	CharsetPrintable  = CharsetAlphaNum + " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	CharsetIdentStart = CharsetAlpha + "_"
	CharsetIdentBody  = CharsetAlphaNum + "_"
)
