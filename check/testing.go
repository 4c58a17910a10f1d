package check

import (
	"testing"

	"github.com/propq/propq/arbitrary"
	"github.com/propq/propq/prop"
)

// QuickCheck runs a named property under the default configuration
// (propq.ini plus PROPQ_* environment overrides) and fails the test if
// the run did not succeed.
func QuickCheck(t *testing.T, name string, p prop.Property) Report {
	t.Helper()
	return Check(t, name, p, DefaultConfig())
}

// Check runs a named property under an explicit configuration and fails
// the test via t.Errorf if the run did not succeed.
func Check(t *testing.T, name string, p prop.Property, cfg RunConfig) Report {
	t.Helper()
	rep := RunNamed(name, p, cfg)
	switch rep.Status {
	case StatusFailed:
		t.Errorf("property %q falsified after %d passed trials:\n  original: %s\n  shrunk:   %s (%d steps)\n  reason:   %s\n(seed=%d, use PROPQ_SEED=%d to reproduce)",
			name, rep.Passed, rep.Original, rep.Shrunk, rep.ShrinkSteps, rep.Reason, rep.Seed, rep.Seed)
	case StatusGaveUp:
		if rep.TimedOut {
			t.Errorf("property %q gave up: timed out after %d trials (%d passed)",
				name, rep.TrialsRun, rep.Passed)
		} else {
			t.Errorf("property %q gave up: %d inputs discarded after %d passed trials (seed=%d)",
				name, rep.Discarded, rep.Passed, rep.Seed)
		}
	}
	return rep
}

// MustCheck is Check but stops the test immediately on a falsified
// property, for tests whose later assertions depend on it holding.
func MustCheck(t *testing.T, name string, p prop.Property, cfg RunConfig) Report {
	t.Helper()
	rep := RunNamed(name, p, cfg)
	if rep.Status != StatusSucceeded {
		t.Fatalf("property %q did not succeed: %s (seed=%d)", name, rep.Status, rep.Seed)
	}
	return rep
}

// QuickCheckFn derives generators for the parameters of fn by reflection
// and runs it as a property. fn must take one or more supported argument
// types and return bool or prop.Outcome.
func QuickCheckFn(t *testing.T, name string, fn any) Report {
	t.Helper()
	p, err := arbitrary.Default().Property(fn)
	if err != nil {
		t.Fatalf("property %q: %v", name, err)
	}
	return Check(t, name, p, DefaultConfig())
}
