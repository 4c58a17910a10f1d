// Package arbitrary derives generators from Go types by reflection, so
// plain functions can be checked as properties without hand-wiring a
// generator per parameter.
package arbitrary

import (
	"fmt"
	"math"
	"reflect"

	"github.com/propq/propq/gen"
	"github.com/propq/propq/rng"
	"github.com/propq/propq/shrink"
)

// Arbitraries maps types to generators. Derivation walks a type's
// structure, preferring a registered generator at every node.
type Arbitraries struct {
	custom map[reflect.Type]gen.Gen[reflect.Value]
}

// Default returns an empty registry: every type is derived structurally.
func Default() *Arbitraries {
	return &Arbitraries{custom: map[reflect.Type]gen.Gen[reflect.Value]{}}
}

// Register installs g as the generator for T, overriding derivation for
// T wherever it appears, including nested in slices, maps and structs.
func Register[T any](a *Arbitraries, g gen.Gen[T]) {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	a.custom[t] = gen.Map(g, func(v T) reflect.Value {
		return reflect.ValueOf(v).Convert(t)
	})
}

// For derives a generator for t. Unsupported types (functions, channels,
// interfaces, structs with unexported fields) report an error.
func (a *Arbitraries) For(t reflect.Type) (gen.Gen[reflect.Value], error) {
	if g, ok := a.custom[t]; ok {
		return g, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return conv(gen.Bool(), t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		lo, hi := intBounds(t)
		return conv(gen.Sized(func(size int) gen.Gen[int64] {
			return gen.Int64Range(max64(lo, -int64(size)), min64(hi, int64(size)))
		}), t), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return conv(gen.Uint64(), t), nil

	case reflect.Float32, reflect.Float64:
		return conv(gen.Float64(), t), nil

	case reflect.String:
		return conv(gen.String(), t), nil

	case reflect.Slice:
		elem, err := a.For(t.Elem())
		if err != nil {
			return gen.Gen[reflect.Value]{}, err
		}
		return gen.Map(gen.SliceOf(elem), func(vs []reflect.Value) reflect.Value {
			out := reflect.MakeSlice(t, len(vs), len(vs))
			for i, v := range vs {
				out.Index(i).Set(v)
			}
			return out
		}), nil

	case reflect.Array:
		elem, err := a.For(t.Elem())
		if err != nil {
			return gen.Gen[reflect.Value]{}, err
		}
		return gen.Map(gen.SliceOfN(t.Len(), elem), func(vs []reflect.Value) reflect.Value {
			out := reflect.New(t).Elem()
			for i, v := range vs {
				out.Index(i).Set(v)
			}
			return out
		}), nil

	case reflect.Map:
		key, err := a.For(t.Key())
		if err != nil {
			return gen.Gen[reflect.Value]{}, err
		}
		val, err := a.For(t.Elem())
		if err != nil {
			return gen.Gen[reflect.Value]{}, err
		}
		pairs := gen.SliceOf(gen.Zip2(key, val))
		return gen.Map(pairs, func(ps []gen.Pair[reflect.Value, reflect.Value]) reflect.Value {
			out := reflect.MakeMapWithSize(t, len(ps))
			for _, p := range ps {
				out.SetMapIndex(p.First, p.Second)
			}
			return out
		}), nil

	case reflect.Ptr:
		elem, err := a.For(t.Elem())
		if err != nil {
			return gen.Gen[reflect.Value]{}, err
		}
		return gen.Map(gen.Ptr(elem, 0.1), func(p *reflect.Value) reflect.Value {
			if p == nil {
				return reflect.Zero(t)
			}
			out := reflect.New(t.Elem())
			out.Elem().Set(*p)
			return out
		}), nil

	case reflect.Struct:
		return a.forStruct(t)

	default:
		return gen.Gen[reflect.Value]{}, fmt.Errorf("arbitrary: cannot derive a generator for %s", t)
	}
}

func (a *Arbitraries) forStruct(t reflect.Type) (gen.Gen[reflect.Value], error) {
	fields := make([]gen.Gen[reflect.Value], t.NumField())
	for i := range fields {
		f := t.Field(i)
		if !f.IsExported() {
			return gen.Gen[reflect.Value]{}, fmt.Errorf(
				"arbitrary: struct %s has unexported field %s", t, f.Name)
		}
		g, err := a.For(f.Type)
		if err != nil {
			return gen.Gen[reflect.Value]{}, err
		}
		fields[i] = g
	}
	return gen.Map(tupleOf(fields), func(vs []reflect.Value) reflect.Value {
		out := reflect.New(t).Elem()
		for i, v := range vs {
			out.Field(i).Set(v)
		}
		return out
	}), nil
}

// tupleOf draws one value per generator and shrinks them independently,
// one position at a time.
func tupleOf(gens []gen.Gen[reflect.Value]) gen.Gen[[]reflect.Value] {
	return gen.New(func(src *rng.Source, size int) (*shrink.Tree[[]reflect.Value], bool) {
		trees := make([]*shrink.Tree[reflect.Value], len(gens))
		for i, g := range gens {
			t, ok := g.Generate(src.Split(), size)
			if !ok {
				return nil, false
			}
			trees[i] = t
		}
		return shrink.FixedSliceOf(trees), true
	})
}

func conv[T any](g gen.Gen[T], t reflect.Type) gen.Gen[reflect.Value] {
	return gen.Map(g, func(v T) reflect.Value {
		return reflect.ValueOf(v).Convert(t)
	})
}

func intBounds(t reflect.Type) (int64, int64) {
	bits := t.Bits()
	if bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	hi := int64(1)<<(bits-1) - 1
	return -hi - 1, hi
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
