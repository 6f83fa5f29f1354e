// Command validate checks a directory of Numerica documents against the
// product fixtures genmock wrote next to them. It re-runs the transformer
// with the same fixed clock and verifies parsing, grid geometry, and that
// every regenerated product matches its fixture.
//
// Usage:
//
//	go run ./cmd/validate -dir data/mock
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/numerica-etl/internal/adapter/raster"
	"github.com/couchcryptid/numerica-etl/internal/domain"
	"github.com/couchcryptid/numerica-etl/internal/grid"
	"github.com/couchcryptid/numerica-etl/internal/mockdata"
	"github.com/couchcryptid/numerica-etl/internal/observability"
	"github.com/couchcryptid/numerica-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "", "directory containing .numerica documents and products.json")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*dir, os.Stdout))
}

// document is one .numerica file with its raw bytes and parse results.
type document struct {
	name        string
	body        []byte
	doc         *domain.Numerica
	err         error
	diagnostics []domain.Diagnostic
}

func run(dir string, w io.Writer) int {
	// Set a fixed clock matching genmock for ID reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(mockdata.ProcessedAt))
	defer domain.SetClock(nil)

	fmt.Fprintln(w, "=== Numerica Fixture Validation ===")
	fmt.Fprintln(w)

	docs, err := loadDocuments(dir)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load documents: %v\n", err)
		return 1
	}
	fixtures, err := loadFixtures(filepath.Join(dir, "products.json"))
	if err != nil {
		fmt.Fprintf(w, "FATAL: load products: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateParsing(docs),
		validateGrids(docs),
		validateCoverage(docs, fixtures),
		validateProducts(docs, fixtures),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	diagnostics := 0
	for _, d := range docs {
		diagnostics += len(d.diagnostics)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Documents: %d, fixtures: %d, parse diagnostics: %d\n", len(docs), len(fixtures), diagnostics)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadDocuments(dir string) ([]document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.numerica"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	docs := make([]document, 0, len(paths))
	for _, path := range paths {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var collector domain.DiagnosticsCollector
		doc, perr := domain.Parse(bytes.NewReader(body), path, domain.WithDiagnostics(&collector))
		docs = append(docs, document{
			name:        filepath.Base(path),
			body:        body,
			doc:         doc,
			err:         perr,
			diagnostics: collector.Items(),
		})
	}
	return docs, nil
}

func loadFixtures(path string) ([]mockdata.Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixtures []mockdata.Fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return fixtures, nil
}

// ── Phases ──

func validateParsing(docs []document) *phase {
	p := &phase{name: "Phase 1: Document parsing"}
	if len(docs) == 0 {
		p.errorf("no .numerica documents found")
	}
	for _, d := range docs {
		if d.err != nil {
			p.errorf("%s: %v", d.name, d.err)
			continue
		}
		if len(d.doc.Points) == 0 {
			p.errorf("%s: no data points", d.name)
		}
		for _, key := range []string{domain.KeyWidth, domain.KeyHeight, domain.KeyValidTime} {
			if _, ok := d.doc.Metadata.Get(key); !ok {
				p.errorf("%s: missing %s", d.name, key)
			}
		}
	}
	return p
}

func validateGrids(docs []document) *phase {
	p := &phase{name: "Phase 2: Grid geometry"}
	for _, d := range docs {
		if d.err != nil {
			continue
		}
		r, err := grid.Build(d.doc)
		if err != nil {
			p.errorf("%s: %v", d.name, err)
			continue
		}
		if r.Burned+r.Dropped != len(d.doc.Points) {
			p.errorf("%s: burned %d + dropped %d != %d points", d.name, r.Burned, r.Dropped, len(d.doc.Points))
		}
		if r.EPSG != grid.EPSG {
			p.errorf("%s: EPSG %d, want %d", d.name, r.EPSG, grid.EPSG)
		}
		extent, err := d.doc.SpatialExtent()
		if err != nil {
			continue
		}
		if r.Dropped == 0 && !contains(r.Bounds(), extent) {
			p.errorf("%s: no points dropped but data extent %s exceeds grid %s", d.name, extent, r.Bounds())
		}
	}
	return p
}

func validateCoverage(docs []document, fixtures []mockdata.Fixture) *phase {
	p := &phase{name: "Phase 3: Fixture coverage"}
	names := make(map[string]bool, len(docs))
	for _, d := range docs {
		names[d.name] = true
	}
	seen := make(map[string]bool, len(fixtures))
	for _, f := range fixtures {
		if seen[f.Source] {
			p.errorf("duplicate fixture for %s", f.Source)
		}
		seen[f.Source] = true
		if !names[f.Source] {
			p.errorf("fixture %s has no document", f.Source)
		}
	}
	for _, d := range docs {
		if !seen[d.name] {
			p.errorf("document %s has no fixture", d.name)
		}
	}
	return p
}

func validateProducts(docs []document, fixtures []mockdata.Fixture) *phase {
	p := &phase{name: "Phase 4: Product parity"}
	byName := make(map[string]document, len(docs))
	for _, d := range docs {
		byName[d.name] = d
	}
	transformers := make(map[string]*pipeline.GridTransformer)
	logger := slog.New(slog.DiscardHandler)

	for _, f := range fixtures {
		d, ok := byName[f.Source]
		if !ok {
			continue
		}
		format := f.Headers["raster_format"]
		t, ok := transformers[format]
		if !ok {
			sink, err := raster.ForFormat(format)
			if err != nil {
				p.errorf("%s: %v", f.Source, err)
				continue
			}
			t = pipeline.NewTransformer(sink, nil, logger, observability.NewMetricsForTesting())
			transformers[format] = t
		}

		out, err := t.Transform(context.Background(), domain.RawEvent{
			Key:     []byte(d.name),
			Value:   d.body,
			Headers: map[string]string{"filename": d.name},
		})
		if err != nil {
			p.errorf("%s: transform: %v", f.Source, err)
			continue
		}
		compareProducts(p, f, out)
	}
	return p
}

func compareProducts(p *phase, f mockdata.Fixture, out domain.OutputEvent) {
	if string(out.Key) != f.Key {
		p.errorf("%s: key %s, fixture %s", f.Source, out.Key, f.Key)
	}
	if diff := cmp.Diff(f.Headers, out.Headers); diff != "" {
		p.errorf("%s: headers (-fixture +got):\n%s", f.Source, diff)
	}

	var want, got any
	if err := json.Unmarshal(f.Product, &want); err != nil {
		p.errorf("%s: fixture product: %v", f.Source, err)
		return
	}
	if err := json.Unmarshal(out.Value, &got); err != nil {
		p.errorf("%s: product: %v", f.Source, err)
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		p.errorf("%s: product (-fixture +got):\n%s", f.Source, diff)
	}
}

func contains(outer, inner domain.Extent) bool {
	return inner.MinLon >= outer.MinLon && inner.MaxLon <= outer.MaxLon &&
		inner.MinLat >= outer.MinLat && inner.MaxLat <= outer.MaxLat
}
