package check_test

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/propq/propq/check"
	"github.com/propq/propq/faildb"
	"github.com/propq/propq/gen"
	"github.com/propq/propq/prop"
	"github.com/propq/propq/rng"
)

func reverse(xs []int) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}

func count(xs []int, n int) int {
	c := 0
	for _, x := range xs {
		if x == n {
			c++
		}
	}
	return c
}

// removeAll deletes every occurrence of n.
func removeAll(xs []int, n int) []int {
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if x != n {
			out = append(out, x)
		}
	}
	return out
}

func TestReverseTwiceSucceeds(t *testing.T) {
	p := prop.ForAll(gen.SliceOf(gen.Int()), func(xs []int) bool {
		twice := reverse(reverse(xs))
		if len(twice) != len(xs) {
			return false
		}
		for i := range xs {
			if twice[i] != xs[i] {
				return false
			}
		}
		return true
	})

	rep := check.Run(p, check.RunConfig{Seed: 42})
	if rep.Status != check.StatusSucceeded {
		t.Fatalf("status = %v, want succeeded: %s", rep.Status, rep)
	}
	if rep.Passed != check.DefaultMaxSuccess {
		t.Fatalf("passed = %d, want %d", rep.Passed, check.DefaultMaxSuccess)
	}
	if rep.Seed != 42 {
		t.Fatalf("seed = %d, want 42", rep.Seed)
	}
}

func TestRemoveMemberHoldsForMembers(t *testing.T) {
	// The removed element is drawn from the slice itself, so removal
	// always finds an occurrence.
	g := gen.Bind(gen.NonEmptySliceOf(gen.IntRange(0, 50)), func(xs []int) gen.Gen[gen.Pair[[]int, int]] {
		return gen.Zip2(gen.Const(xs), gen.Pick(xs))
	})
	p := prop.ForAll(g, func(pair gen.Pair[[]int, int]) bool {
		xs, n := pair.First, pair.Second
		return count(removeAll(xs, n), n) == 0
	})

	rep := check.Run(p, check.RunConfig{Seed: 7})
	if rep.Status != check.StatusSucceeded {
		t.Fatalf("status = %v, want succeeded: %s", rep.Status, rep)
	}
}

func TestRemoveMemberFalsifiedForNonMembers(t *testing.T) {
	// Element and slice drawn independently: removal of an absent
	// element leaves the length unchanged, falsifying the claim. The
	// first trial runs at size 0 where the slice is always empty, so
	// every seed falsifies immediately.
	g := gen.Zip2(gen.SliceOf(gen.IntRange(0, 3)), gen.IntRange(0, 3))
	p := prop.ForAll(g, func(pair gen.Pair[[]int, int]) bool {
		xs, n := pair.First, pair.Second
		return len(removeAll(xs, n)) < len(xs)
	})

	rep := check.Run(p, check.RunConfig{Seed: 1})
	if rep.Status != check.StatusFailed {
		t.Fatalf("status = %v, want failed: %s", rep.Status, rep)
	}
	if rep.Shrunk == "" {
		t.Fatal("failed report is missing a shrunk counterexample")
	}
}

func brokenMax(xs []int) int {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}

func realMax(xs []int) int {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func TestBrokenMaxShrinksToTwoElements(t *testing.T) {
	var mu sync.Mutex
	var lastFailing []int

	p := prop.ForAll(gen.SliceOf(gen.IntRange(0, 100)), func(xs []int) bool {
		ok := brokenMax(xs) == realMax(xs)
		if !ok {
			mu.Lock()
			lastFailing = append([]int(nil), xs...)
			mu.Unlock()
		}
		return ok
	})

	// The run is seeded randomly; a falsifying slice shows up within a
	// few runs with overwhelming probability.
	var rep check.Report
	for range 5 {
		rep = check.Run(p, check.RunConfig{})
		if rep.Status == check.StatusFailed {
			break
		}
	}
	if rep.Status != check.StatusFailed {
		t.Fatalf("status = %v, want failed: %s", rep.Status, rep)
	}

	// The minimization accepts candidates until none fails, so the last
	// failing evaluation is the reported minimum.
	if len(lastFailing) != 2 {
		t.Fatalf("shrunk counterexample has %d elements, want 2: %v (report: %s)",
			len(lastFailing), lastFailing, rep.Shrunk)
	}
	if brokenMax(lastFailing) == realMax(lastFailing) {
		t.Fatalf("shrunk value %v does not falsify the property", lastFailing)
	}
	if rep.ShrinkSteps == 0 {
		t.Fatal("failure was not shrunk at all")
	}
}

func TestShrunkValueStaysInGeneratorDomain(t *testing.T) {
	// Dependent generation that only admits values >= 5. Shrinking a
	// failure must stop at the domain edge, not walk out to zero.
	g := gen.Bind(gen.IntRange(0, 10), func(v int) gen.Gen[int] {
		return gen.SuchThat(gen.Just(v), func(x int) bool { return x >= 5 })
	})
	p := prop.ForAll(g, func(int) bool { return false })

	rep := check.Run(p, check.RunConfig{Seed: 11})
	if rep.Status != check.StatusFailed {
		t.Fatalf("status = %v, want failed: %s", rep.Status, rep)
	}
	shrunk, err := strconv.Atoi(rep.Shrunk)
	if err != nil {
		t.Fatalf("shrunk value %q is not an int: %v", rep.Shrunk, err)
	}
	if shrunk < 5 || shrunk > 10 {
		t.Fatalf("shrunk to %d, outside the generator domain [5, 10]", shrunk)
	}
	// Every admitted value fails, so the minimum of the domain is the
	// locally minimal counterexample.
	if shrunk != 5 {
		t.Errorf("shrunk to %d, want the domain minimum 5", shrunk)
	}
}

func TestSameSeedSameReport(t *testing.T) {
	mk := func() prop.Property {
		return prop.ForAllOutcome(gen.IntRange(0, 1000), func(n int) prop.Outcome {
			return prop.Classify(prop.FromBool(n <= 900), n%2 == 0, "even")
		})
	}
	cfg := check.RunConfig{Seed: 99}

	a := check.Run(mk(), cfg)
	b := check.Run(mk(), cfg)
	if diff := cmp.Diff(a, b, cmpopts.IgnoreFields(check.Report{}, "RunID")); diff != "" {
		t.Fatalf("same seed produced different reports (-first +second):\n%s", diff)
	}
}

func TestDiscardAccounting(t *testing.T) {
	p := prop.ForAllOutcome(gen.IntRange(0, 9), func(n int) prop.Outcome {
		return prop.Filter(prop.Passed(), n < 5)
	})

	rep := check.Run(p, check.RunConfig{Seed: 3})
	if rep.Status != check.StatusSucceeded {
		t.Fatalf("status = %v, want succeeded: %s", rep.Status, rep)
	}
	if rep.TrialsRun != rep.Passed+rep.Discarded {
		t.Fatalf("trials %d != passed %d + discarded %d",
			rep.TrialsRun, rep.Passed, rep.Discarded)
	}
	if rep.Discarded == 0 {
		t.Fatal("filter never discarded, accounting untested")
	}
}

func TestGivesUpWhenEverythingDiscards(t *testing.T) {
	p := prop.ForAllOutcome(gen.Int(), func(int) prop.Outcome {
		return prop.Discarded()
	})

	rep := check.Run(p, check.RunConfig{Seed: 5, MaxSuccess: 10, MaxDiscardRatio: 2})
	if rep.Status != check.StatusGaveUp {
		t.Fatalf("status = %v, want gave up: %s", rep.Status, rep)
	}
	if rep.TimedOut {
		t.Fatal("discard exhaustion flagged as timeout")
	}
	// Budget is ratio * required successes, exceeded by exactly one.
	if rep.Discarded != 21 {
		t.Fatalf("discarded = %d, want 21", rep.Discarded)
	}
	if rep.Passed != 0 {
		t.Fatalf("passed = %d, want 0", rep.Passed)
	}
	if rep.MaxDiscardRatio != 2 {
		t.Fatalf("report carries ratio %g, want 2", rep.MaxDiscardRatio)
	}
	// The surface names the threshold that was exceeded.
	if s := rep.String(); !strings.Contains(s, "2 discards per required success") {
		t.Errorf("gave-up surface missing the configured threshold: %q", s)
	}
}

func TestSizeRampIsLinearAndClamped(t *testing.T) {
	var mu sync.Mutex
	var sizes []int

	g := gen.Simple(func(src *rng.Source, size int) int {
		mu.Lock()
		sizes = append(sizes, size)
		mu.Unlock()
		return 0
	})
	p := prop.ForAll(g, func(int) bool { return true })

	rep := check.Run(p, check.RunConfig{Seed: 1, MaxSuccess: 11, MaxSize: 100})
	if rep.Status != check.StatusSucceeded {
		t.Fatalf("status = %v, want succeeded: %s", rep.Status, rep)
	}
	if len(sizes) != 11 {
		t.Fatalf("recorded %d sizes, want 11", len(sizes))
	}
	for i, size := range sizes {
		if want := i * 10; size != want {
			t.Errorf("trial %d ran at size %d, want %d", i, size, want)
		}
	}
}

func TestStatisticsConservation(t *testing.T) {
	p := prop.ForAllOutcome(gen.IntRange(0, 9), func(n int) prop.Outcome {
		out := prop.Passed()
		out = prop.Classify(out, n < 5, "low")
		out = prop.Classify(out, n >= 5, "high")
		return out
	})

	rep := check.Run(p, check.RunConfig{Seed: 8})
	if rep.Status != check.StatusSucceeded {
		t.Fatalf("status = %v, want succeeded: %s", rep.Status, rep)
	}
	if got := rep.Stats["low"] + rep.Stats["high"]; got != rep.Passed {
		t.Fatalf("label counts sum to %d, want %d (stats: %v)", got, rep.Passed, rep.Stats)
	}
}

func TestTimeoutGivesUp(t *testing.T) {
	p := prop.ForAll(gen.Int(), func(int) bool {
		time.Sleep(5 * time.Millisecond)
		return true
	})

	rep := check.Run(p, check.RunConfig{Seed: 2, Timeout: time.Millisecond})
	if rep.Status != check.StatusGaveUp {
		t.Fatalf("status = %v, want gave up: %s", rep.Status, rep)
	}
	if !rep.TimedOut {
		t.Fatal("gave-up report not flagged as timed out")
	}
	if rep.Passed >= check.DefaultMaxSuccess {
		t.Fatalf("run completed %d trials despite timeout", rep.Passed)
	}
}

func TestFailDBRecordsAndReplays(t *testing.T) {
	url := "sqlite:" + filepath.Join(t.TempDir(), "failures.db")
	db, err := faildb.Open(url)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mk := func() prop.Property {
		return prop.ForAll(gen.IntRange(0, 100), func(n int) bool {
			return n < 0 // always falsified
		})
	}
	cfg := check.RunConfig{FailDB: db}

	first := check.RunNamed("always-false", mk(), cfg)
	if first.Status != check.StatusFailed {
		t.Fatalf("first run status = %v, want failed", first.Status)
	}
	if first.Replayed {
		t.Fatal("first failure cannot come from a replayed seed")
	}

	second := check.RunNamed("always-false", mk(), cfg)
	if second.Status != check.StatusFailed {
		t.Fatalf("second run status = %v, want failed", second.Status)
	}
	if !second.Replayed {
		t.Fatal("second run did not replay the recorded seed")
	}
	if second.Seed != first.Seed {
		t.Fatalf("replayed seed %d, want recorded seed %d", second.Seed, first.Seed)
	}

	// Replays must not pile up duplicate rows.
	failures, err := db.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 1 {
		t.Fatalf("failure rows = %d, want 1", len(failures))
	}

	// Other property names are unaffected.
	other := check.RunNamed("other", prop.ForAll(gen.Int(), func(int) bool { return true }), cfg)
	if other.Status != check.StatusSucceeded {
		t.Fatalf("unrelated property status = %v, want succeeded", other.Status)
	}
}

func TestAnonymousRunSkipsFailDB(t *testing.T) {
	url := "sqlite:" + filepath.Join(t.TempDir(), "failures.db")
	db, err := faildb.Open(url)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	p := prop.ForAll(gen.Int(), func(int) bool { return false })
	rep := check.Run(p, check.RunConfig{Seed: 4, FailDB: db})
	if rep.Status != check.StatusFailed {
		t.Fatalf("status = %v, want failed", rep.Status)
	}
	failures, err := db.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 0 {
		t.Fatalf("anonymous run recorded %d failures, want 0", len(failures))
	}
}

func TestReportStringSurfaces(t *testing.T) {
	ok := check.Run(prop.ForAll(gen.Int(), func(int) bool { return true }),
		check.RunConfig{Seed: 6})
	if s := ok.String(); !strings.Contains(s, "OK") || !strings.Contains(s, "seed=6") {
		t.Errorf("success surface missing pieces: %q", s)
	}

	fail := check.Run(prop.ForAll(gen.IntRange(0, 10), func(int) bool { return false }),
		check.RunConfig{Seed: 6})
	s := fail.String()
	for _, want := range []string{"FAIL", "seed=6", "shrunk"} {
		if !strings.Contains(s, want) {
			t.Errorf("failure surface missing %q: %q", want, s)
		}
	}
}
