// Package cli holds the output helpers for the propq binary.
package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

// Fatal prints a message to stderr and exits with code 1.
func Fatal(msg string) {
	fmt.Fprintln(os.Stderr, "error:", msg)
	os.Exit(1)
}

// FatalErr prints an error message with details to stderr and exits
// with code 1.
func FatalErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// Info prints an informational message to stdout.
func Info(msg string) {
	fmt.Println(msg)
}

// Infof prints a formatted informational message to stdout.
func Infof(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// Warnf prints a formatted warning to stderr.
func Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// Table writes aligned rows: the first row is the header, the rest are
// data. Used by `propq failures list`.
func Table(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
