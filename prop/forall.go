package prop

import (
	"fmt"

	"github.com/propq/propq/gen"
	"github.com/propq/propq/rng"
	"github.com/propq/propq/shrink"
)

// Property is one evaluable trial unit: given a source and a size it
// draws an input, evaluates the predicate and reports the result. The
// generic input type stays inside the implementation so the driver can
// run any property through a single interface.
type Property interface {
	Check(src *rng.Source, size int) Result
}

// Result is the outcome of one trial, carrying enough information for
// reporting and, on failure, a hook to minimize the counterexample.
type Result struct {
	Outcome Outcome
	Value   string // drawn value, stringified for reporting

	shrinkFn func(maxAttempts int) Shrunk
}

// Shrunk describes a minimized counterexample.
type Shrunk struct {
	Value    string   // locally minimal failing value
	Steps    int      // accepted shrink steps
	Attempts int      // total candidates evaluated
	Trail    []string // accepted intermediate values, oldest first
}

// Shrink minimizes the failing input behind this result, re-evaluating
// the full predicate on every candidate and stopping after maxAttempts
// evaluations. It reports false for results that did not fail.
func (r Result) Shrink(maxAttempts int) (Shrunk, bool) {
	if r.shrinkFn == nil {
		return Shrunk{}, false
	}
	return r.shrinkFn(maxAttempts), true
}

type propertyFunc func(src *rng.Source, size int) Result

func (f propertyFunc) Check(src *rng.Source, size int) Result {
	return f(src, size)
}

// ForAll builds a property from a generator and a boolean predicate:
// pass iff the predicate returns true.
func ForAll[T any](g gen.Gen[T], predicate func(T) bool) Property {
	return ForAllOutcome(g, func(v T) Outcome {
		return FromBool(predicate(v))
	})
}

// ForAllOutcome builds a property from a generator and a predicate that
// returns a full outcome, for predicates enriched with Classify, Collect
// or Filter.
func ForAllOutcome[T any](g gen.Gen[T], predicate func(T) Outcome) Property {
	return propertyFunc(func(src *rng.Source, size int) Result {
		tree, ok := g.Generate(src, size)
		if !ok {
			return Result{Outcome: Discarded()}
		}

		out := predicate(tree.Value)
		res := Result{
			Outcome: out,
			Value:   format(tree.Value),
		}
		if out.Status == Fail {
			res.shrinkFn = func(maxAttempts int) Shrunk {
				stillFails := func(v T) bool {
					return predicate(v).Status == Fail
				}
				min := shrink.Search(tree, stillFails, maxAttempts)
				trail := make([]string, len(min.Trail))
				for i, v := range min.Trail {
					trail[i] = format(v)
				}
				return Shrunk{
					Value:    format(min.Value),
					Steps:    min.Steps,
					Attempts: min.Attempts,
					Trail:    trail,
				}
			}
		}
		return res
	})
}

func format(v any) string {
	return fmt.Sprintf("%v", v)
}
