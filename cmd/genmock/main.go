// Command genmock writes synthetic Numerica documents and the grid products
// the ETL pipeline produces for them. It runs the real transformer with a
// fixed clock, so the product fixtures match pipeline behavior exactly.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock \
//	  -count 6 \
//	  -noise
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/numerica-etl/internal/adapter/raster"
	"github.com/couchcryptid/numerica-etl/internal/domain"
	"github.com/couchcryptid/numerica-etl/internal/mockdata"
	"github.com/couchcryptid/numerica-etl/internal/observability"
	"github.com/couchcryptid/numerica-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

// productsFile holds the expected products, next to the documents.
const productsFile = "products.json"

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("genmock", flag.ContinueOnError)
	out := fs.String("out", "", "output directory for .numerica documents and "+productsFile)
	count := fs.Int("count", 6, "number of documents in the series")
	seed := fs.Uint64("seed", 1, "seed of the first document")
	width := fs.Int("width", 20, "grid width in cells")
	height := fs.Int("height", 20, "grid height in cells")
	points := fs.Int("points", 120, "in-grid data points per document")
	noise := fs.Bool("noise", false, "add a malformed line and a partial triple to each document")
	format := fs.String("format", "aaigrid", "raster format embedded in products")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" || *count < 1 {
		fs.Usage()
		return fmt.Errorf("missing required flags: -out, -count >= 1")
	}

	sink, err := raster.ForFormat(*format)
	if err != nil {
		return err
	}

	base := mockdata.DefaultOptions()
	base.Seed = *seed
	base.Width, base.Height = *width, *height
	base.Points = *points
	base.Noise = *noise

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(mockdata.ProcessedAt))
	defer domain.SetClock(nil)

	fixtures, err := generate(mockdata.Series(base, *count), *out, sink)
	if err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(*out, productsFile), fixtures); err != nil {
		return fmt.Errorf("writing product fixtures: %w", err)
	}
	log.Printf("wrote %d documents and %s to %s", len(fixtures), productsFile, *out)
	return nil
}

func generate(series []mockdata.Options, dir string, sink raster.Sink) ([]mockdata.Fixture, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	logger := slog.New(slog.DiscardHandler)
	transformer := pipeline.NewTransformer(sink, nil, logger, observability.NewMetricsForTesting())

	fixtures := make([]mockdata.Fixture, 0, len(series))
	for _, o := range series {
		name := o.Filename()
		body := mockdata.Document(o)
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o600); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}

		outEvent, err := transformer.Transform(context.Background(), domain.RawEvent{
			Key:     []byte(name),
			Value:   body,
			Headers: map[string]string{"filename": name},
		})
		if err != nil {
			return nil, fmt.Errorf("transforming %s: %w", name, err)
		}

		fixtures = append(fixtures, mockdata.Fixture{
			Source:  name,
			Key:     string(outEvent.Key),
			Headers: outEvent.Headers,
			Product: json.RawMessage(outEvent.Value),
		})
		log.Printf("%s: %d points -> %s", name, o.Points+o.Outside, outEvent.Key)
	}
	return fixtures, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
