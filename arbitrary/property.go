package arbitrary

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/propq/propq/gen"
	"github.com/propq/propq/prop"
)

var outcomeType = reflect.TypeOf(prop.Outcome{})

// Property turns fn into a property by deriving a generator per
// parameter. fn must be a non-variadic func with at least one parameter
// and exactly one result of type bool or prop.Outcome.
func (a *Arbitraries) Property(fn any) (prop.Property, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("arbitrary: want a func, got %T", fn)
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("arbitrary: variadic funcs are not supported")
	}
	if ft.NumIn() == 0 {
		return nil, fmt.Errorf("arbitrary: func must take at least one parameter")
	}
	if ft.NumOut() != 1 || (ft.Out(0).Kind() != reflect.Bool && ft.Out(0) != outcomeType) {
		return nil, fmt.Errorf("arbitrary: func must return bool or prop.Outcome")
	}

	gens := make([]gen.Gen[reflect.Value], ft.NumIn())
	for i := range gens {
		g, err := a.For(ft.In(i))
		if err != nil {
			return nil, err
		}
		gens[i] = g
	}

	args := gen.Map(tupleOf(gens), func(vs []reflect.Value) argTuple {
		return argTuple(vs)
	})

	return prop.ForAllOutcome(args, func(in argTuple) prop.Outcome {
		out := fv.Call(in)[0]
		if out.Kind() == reflect.Bool {
			return prop.FromBool(out.Bool())
		}
		return out.Interface().(prop.Outcome)
	}), nil
}

// argTuple carries one drawn value per parameter and renders them the
// way the values themselves print, not as reflect.Value wrappers.
type argTuple []reflect.Value

func (t argTuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = fmt.Sprintf("%v", v.Interface())
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
