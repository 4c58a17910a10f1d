// Package prop turns predicates over generated input into evaluable
// properties. Each evaluation yields exactly one of Pass, Fail or
// Discard, optionally annotated with statistics labels; decorators wrap
// an outcome without ever mutating it.
package prop

import "fmt"

// Status is the verdict of a single property evaluation.
type Status int

const (
	// Pass means the input satisfied the property.
	Pass Status = iota
	// Fail means the input falsified the property.
	Fail
	// Discard means the input did not satisfy a filtering constraint
	// and counts toward neither success nor failure.
	Discard
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Discard:
		return "discard"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of evaluating a property on one drawn value,
// plus any statistics labels attached along the way.
type Outcome struct {
	Status Status
	Reason string   // set on Fail
	Labels []string // classification labels for statistics
}

// Passed returns a passing outcome.
func Passed() Outcome {
	return Outcome{Status: Pass}
}

// Falsified returns a failing outcome with the given reason.
func Falsified(reason string) Outcome {
	return Outcome{Status: Fail, Reason: reason}
}

// Discarded returns a discarded outcome.
func Discarded() Outcome {
	return Outcome{Status: Discard}
}

// FromBool converts a boolean verdict: pass iff true.
func FromBool(ok bool) Outcome {
	if ok {
		return Passed()
	}
	return Falsified("predicate returned false")
}

// Classify records a label against this trial when cond holds. The
// verdict is unchanged.
func Classify(o Outcome, cond bool, label string) Outcome {
	if !cond {
		return o
	}
	return o.withLabel(label)
}

// Collect records the given value (stringified) as a statistics label,
// typically a size or category used for input-distribution auditing.
// The verdict is unchanged.
func Collect(o Outcome, value any) Outcome {
	return o.withLabel(fmt.Sprintf("%v", value))
}

// Filter converts the outcome to Discard when keep is false, overriding
// whatever verdict the predicate produced. It is the property-level
// companion to gen.SuchThat and feeds the same discard accounting.
func Filter(o Outcome, keep bool) Outcome {
	if keep {
		return o
	}
	return Outcome{Status: Discard, Labels: o.Labels}
}

func (o Outcome) withLabel(label string) Outcome {
	labels := make([]string, len(o.Labels), len(o.Labels)+1)
	copy(labels, o.Labels)
	return Outcome{Status: o.Status, Reason: o.Reason, Labels: append(labels, label)}
}
