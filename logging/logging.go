// Package logging provides the slog loggers used by the runner and the
// propq binary: compact JSON for CI output, pretty JSON for local runs.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"time"
)

// PrettyJSONHandler indents every record, for humans watching a local
// run rather than machines scraping CI logs.
type PrettyJSONHandler struct {
	*slog.JSONHandler
	writer io.Writer
}

func NewPrettyJSONHandler(w io.Writer) *PrettyJSONHandler {
	return &PrettyJSONHandler{
		JSONHandler: slog.NewJSONHandler(w, nil),
		writer:      w,
	}
}

func (h *PrettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]interface{})
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	attrs["time"] = r.Time.Format(time.RFC3339)
	attrs["level"] = r.Level.String()
	attrs["msg"] = r.Message

	pretty, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return err
	}
	_, err = h.writer.Write(append(pretty, '\n'))
	return err
}

// ProdLogger emits one JSON object per line on stdout.
var ProdLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// DevLogger pretty prints JSON records for local use.
var DevLogger = slog.New(NewPrettyJSONHandler(os.Stdout))

// Nop discards everything. The runner uses it when no logger is
// configured so logging calls never need nil checks.
var Nop = slog.New(slog.DiscardHandler)
