package check

import (
	"fmt"
	"strings"
)

// Status is the terminal state of a run.
type Status int

const (
	// StatusIdle is a run that has not started.
	StatusIdle Status = iota
	// StatusRunning is a run in progress.
	StatusRunning
	// StatusSucceeded means every required trial passed.
	StatusSucceeded
	// StatusFailed means an input falsified the property.
	StatusFailed
	// StatusGaveUp means too many inputs were discarded to collect
	// enough valid samples. Distinct from Failed so an unproductive
	// generator is never mistaken for a falsified property.
	StatusGaveUp
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusGaveUp:
		return "gave up"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Report is the immutable result of a run.
type Report struct {
	RunID    string
	Property string
	Status   Status
	Seed     int64

	TrialsRun int
	Passed    int
	Discarded int
	Stats     Statistics

	// MaxDiscardRatio is the configured limit of discards per required
	// success, echoed so a gave-up report can state the threshold that
	// was exceeded.
	MaxDiscardRatio float64

	// Failure details, set when Status is StatusFailed.
	Reason         string
	Original       string   // first failing value as drawn
	Shrunk         string   // locally minimal failing value
	ShrinkSteps    int      // accepted shrink steps
	ShrinkAttempts int      // candidates evaluated during shrinking
	ShrinkTrail    []string // accepted candidates, in order
	Replayed       bool     // failure came from a recorded seed

	// TimedOut marks a StatusGaveUp caused by the run timeout rather
	// than the discard ratio.
	TimedOut bool
}

// String renders the human-readable report surface.
func (r Report) String() string {
	var b strings.Builder

	name := r.Property
	if name == "" {
		name = "property"
	}

	switch r.Status {
	case StatusSucceeded:
		fmt.Fprintf(&b, "OK %s: passed %d trials", name, r.Passed)
		if r.Discarded > 0 {
			fmt.Fprintf(&b, " (%d discarded)", r.Discarded)
		}
		fmt.Fprintf(&b, " (seed=%d)\n", r.Seed)
		if h := r.Stats.Histogram(r.Passed); h != "" {
			b.WriteString(h)
		}

	case StatusFailed:
		fmt.Fprintf(&b, "FAIL %s: falsified after %d passed trials (seed=%d)\n", name, r.Passed, r.Seed)
		if r.Replayed {
			fmt.Fprintf(&b, "  replayed from failure database\n")
		}
		if r.Reason != "" {
			fmt.Fprintf(&b, "  reason:   %s\n", r.Reason)
		}
		fmt.Fprintf(&b, "  original: %s\n", r.Original)
		fmt.Fprintf(&b, "  shrunk:   %s (%d shrink steps, %d candidates tried)\n",
			r.Shrunk, r.ShrinkSteps, r.ShrinkAttempts)
		fmt.Fprintf(&b, "  replay with seed=%d\n", r.Seed)

	case StatusGaveUp:
		if r.TimedOut {
			fmt.Fprintf(&b, "GAVE UP %s: timed out after %d trials (%d passed, %d discarded)\n",
				name, r.TrialsRun, r.Passed, r.Discarded)
		} else {
			fmt.Fprintf(&b, "GAVE UP %s: %d of %d trials discarded, exceeding the limit of %g discards per required success\n",
				name, r.Discarded, r.TrialsRun, r.MaxDiscardRatio)
		}

	default:
		fmt.Fprintf(&b, "%s %s: %d trials", r.Status, name, r.TrialsRun)
	}

	return b.String()
}
