package check

import (
	"fmt"
	"sort"
	"strings"
)

// Statistics counts classification labels across the trials of a run.
// Only the driver writes to it; properties and generators stay pure.
type Statistics map[string]int

// Add records one occurrence of a label.
func (s Statistics) Add(label string) {
	s[label]++
}

// AddAll records every label attached to a trial outcome.
func (s Statistics) AddAll(labels []string) {
	for _, l := range labels {
		s[l]++
	}
}

// Merge folds another Statistics into this one and returns the receiver.
// Merging is associative and commutative, so per-worker statistics from
// a parallel extension can be combined in trial order.
func (s Statistics) Merge(other Statistics) Statistics {
	for label, n := range other {
		s[label] += n
	}
	return s
}

// Histogram renders labels as percentages of total trials, most frequent
// first, ties broken alphabetically.
func (s Statistics) Histogram(trials int) string {
	if len(s) == 0 || trials <= 0 {
		return ""
	}

	labels := make([]string, 0, len(s))
	for l := range s {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if s[labels[i]] != s[labels[j]] {
			return s[labels[i]] > s[labels[j]]
		}
		return labels[i] < labels[j]
	})

	var b strings.Builder
	for _, l := range labels {
		pct := 100 * float64(s[l]) / float64(trials)
		fmt.Fprintf(&b, "%5.1f%% %s\n", pct, l)
	}
	return b.String()
}
