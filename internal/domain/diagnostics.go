package domain

import (
	"log/slog"
	"sync"
)

// DiagnosticKind classifies a non-fatal problem found while parsing.
type DiagnosticKind string

const (
	// DiagnosticMalformedLine is a line without a key/value separator.
	DiagnosticMalformedLine DiagnosticKind = "malformed_line"
	// DiagnosticPartialTriple is a Data line whose token count is not a
	// multiple of three. The trailing tokens are dropped.
	DiagnosticPartialTriple DiagnosticKind = "partial_triple"
)

// Diagnostic is a skipped line or dropped value. Line is 1-based.
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int
	Text    string
	Message string
}

// Diagnostics receives non-fatal parse problems.
type Diagnostics interface {
	Report(d Diagnostic)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(d Diagnostic)

func (f DiagnosticsFunc) Report(d Diagnostic) { f(d) }

// LogDiagnostics reports every diagnostic as a warning on logger.
func LogDiagnostics(logger *slog.Logger) Diagnostics {
	return DiagnosticsFunc(func(d Diagnostic) {
		logger.Warn(d.Message,
			"kind", string(d.Kind),
			"line", d.Line,
			"text", truncate(d.Text, 80),
		)
	})
}

// DiagnosticsCollector keeps every reported diagnostic. It is safe for
// concurrent use.
type DiagnosticsCollector struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (c *DiagnosticsCollector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// Items returns a copy of the collected diagnostics.
func (c *DiagnosticsCollector) Items() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Multi fans a diagnostic out to several sinks.
func Multi(sinks ...Diagnostics) Diagnostics {
	return DiagnosticsFunc(func(d Diagnostic) {
		for _, s := range sinks {
			s.Report(d)
		}
	})
}
