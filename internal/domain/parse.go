package domain

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel is the substring that marks a document as Numerica radar output.
const Sentinel = "MajorProductType RADAR"

type parseConfig struct {
	logger      *slog.Logger
	diagnostics Diagnostics
}

// ParseOption customizes Parse.
type ParseOption func(*parseConfig)

// WithLogger sets the logger used for debug tracing. Unless WithDiagnostics
// is also given, diagnostics are logged to it as warnings.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) { c.logger = logger }
}

// WithDiagnostics sets the sink for skipped lines and dropped values.
func WithDiagnostics(d Diagnostics) ParseOption {
	return func(c *parseConfig) { c.diagnostics = d }
}

// IsNumerica reports whether any line carries the Numerica sentinel.
func IsNumerica(lines []string) bool {
	for _, l := range lines {
		if strings.Contains(l, Sentinel) {
			return true
		}
	}
	return false
}

// Parse reads the whole of r and builds a Numerica document. filename is
// optional and only its basename is kept.
//
// A missing sentinel fails with *FormatError and a typed field that cannot
// be coerced fails with *ParseError. Lines without a key/value separator are
// reported to the diagnostics sink and skipped.
func Parse(r io.Reader, filename string, opts ...ParseOption) (*Numerica, error) {
	cfg := parseConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.diagnostics == nil {
		cfg.diagnostics = LogDiagnostics(cfg.logger)
	}

	doc := &Numerica{Metadata: NewMetadata()}
	if filename != "" {
		doc.Filename = filepath.Base(filename)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read numerica input: %w", err)
	}
	lines := splitLines(string(data))

	cfg.logger.Debug("detecting numerica format", "filename", doc.Filename, "lines", len(lines))
	if !IsNumerica(lines) {
		return nil, &FormatError{Filename: doc.Filename}
	}

	cfg.logger.Debug("parsing lines")
	for i, line := range lines {
		res := parseLine(line)
		switch res.kind {
		case lineSkip:
			continue
		case lineMalformed:
			cfg.diagnostics.Report(Diagnostic{
				Kind:    DiagnosticMalformedLine,
				Line:    i + 1,
				Text:    res.raw,
				Message: "malformed line",
			})
			continue
		}

		if res.err != nil {
			return nil, &ParseError{Line: i + 1, Key: res.key, Value: res.raw, Err: res.err}
		}

		if res.kind == lineData {
			doc.Points = append(doc.Points, res.points...)
			if res.dropped > 0 {
				cfg.diagnostics.Report(Diagnostic{
					Kind:    DiagnosticPartialTriple,
					Line:    i + 1,
					Text:    res.raw,
					Message: fmt.Sprintf("dropped %d trailing data tokens", res.dropped),
				})
			}
			cfg.logger.Debug("parsed data values", "line", i+1, "points", len(res.points))
			continue
		}

		doc.Metadata.Set(res.key, res.value)
	}

	cfg.logger.Debug("parsed numerica document",
		"filename", doc.Filename,
		"metadata_keys", doc.Metadata.Len(),
		"points", len(doc.Points),
	)
	return doc, nil
}

// ParseString parses a Numerica document held in memory.
func ParseString(s string, opts ...ParseOption) (*Numerica, error) {
	return Parse(strings.NewReader(s), "", opts...)
}

// Load parses the Numerica file at path.
func Load(path string, opts ...ParseOption) (*Numerica, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open numerica file: %w", err)
	}
	defer f.Close()

	return Parse(f, path, opts...)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
