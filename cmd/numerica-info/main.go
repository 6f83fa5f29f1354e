// Command numerica-info prints a summary of a Numerica radar file and can
// rasterize it onto its declared grid.
//
// Usage:
//
//	numerica-info -file CASBV_201705251900.numerica
//	numerica-info -file CASBV_201705251900.numerica -grid out.asc
//	numerica-info -file CASBV_201705251900.numerica -bbox -74,45,-73,46
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/numerica-etl/internal/adapter/raster"
	"github.com/couchcryptid/numerica-etl/internal/domain"
	"github.com/couchcryptid/numerica-etl/internal/grid"
)

const version = "0.3.0"

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	file      string
	verbosity string
	gridOut   string
	format    string
	bbox      string
	version   bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("numerica-info", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.file, "file", "", "path to Numerica data file")
	fs.StringVar(&opts.file, "f", "", "shorthand for -file")
	fs.StringVar(&opts.verbosity, "verbosity", "", "log level: ERROR, WARNING, INFO or DEBUG")
	fs.StringVar(&opts.gridOut, "grid", "", "write the rasterized grid to this path")
	fs.StringVar(&opts.format, "format", "aaigrid", "raster format for -grid: "+strings.Join(raster.Formats(), ", "))
	fs.StringVar(&opts.bbox, "bbox", "", "summarize points inside minLon,minLat,maxLon,maxLat")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "numerica-info, version %s\n", version)
		return 0
	}

	if err := info(opts, stdout, newLogger(stderr, opts.verbosity)); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// newLogger writes to stderr so log lines never mix with the summary.
// Without -verbosity only warnings and errors are shown.
func newLogger(w io.Writer, verbosity string) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToUpper(verbosity) {
	case "ERROR":
		level = slog.LevelError
	case "INFO":
		level = slog.LevelInfo
	case "DEBUG":
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func info(opts options, w io.Writer, logger *slog.Logger) error {
	if opts.file == "" {
		return fmt.Errorf("%w: missing -file argument", errUsage)
	}
	switch strings.ToUpper(opts.verbosity) {
	case "", "ERROR", "WARNING", "INFO", "DEBUG":
	default:
		return fmt.Errorf("%w: invalid -verbosity %q", errUsage, opts.verbosity)
	}

	var bbox *domain.Extent
	if opts.bbox != "" {
		e, err := parseBBox(opts.bbox)
		if err != nil {
			return err
		}
		bbox = &e
	}

	var sink raster.Sink
	if opts.gridOut != "" {
		s, err := raster.ForFormat(opts.format)
		if err != nil {
			return err
		}
		sink = s
	}

	doc, err := domain.Load(opts.file, domain.WithLogger(logger))
	if err != nil {
		return err
	}

	if err := printSummary(w, doc); err != nil {
		return err
	}
	if bbox != nil {
		if err := printBBox(w, doc, *bbox); err != nil {
			return err
		}
	}
	if sink != nil {
		r, err := grid.Build(doc)
		if err != nil {
			return err
		}
		if err := raster.WriteFile(sink, opts.gridOut, r); err != nil {
			return err
		}
		logger.Info("raster saved to disk", "path", opts.gridOut, "format", sink.Format())
		fmt.Fprintf(w, "\nGrid:\n %dx%d cells, %d points burned, %d outside grid\n Written to: %s\n",
			r.Width, r.Height, r.Burned, r.Dropped, opts.gridOut)
	}
	return nil
}

func printSummary(w io.Writer, doc *domain.Numerica) error {
	fmt.Fprintf(w, "Numerica file: %s\n\n", doc.Filename)
	fmt.Fprintln(w, "Metadata:")
	for key, value := range doc.Metadata.All() {
		fmt.Fprintf(w, " %s: %s\n", key, domain.FormatValue(value))
	}

	fmt.Fprintln(w, "\nData:")
	fmt.Fprintf(w, " Number of records: %d\n", len(doc.Points))
	extent, err := doc.SpatialExtent()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, " Spatial Extent: %s\n", extent)
	lo, hi, err := doc.ValueRange()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, " Range of Values: min=%s - max=%s\n", domain.FormatValue(lo), domain.FormatValue(hi))
	return nil
}

func printBBox(w io.Writer, doc *domain.Numerica, bbox domain.Extent) error {
	points := domain.NewPointIndex(doc).Within(bbox)
	fmt.Fprintf(w, "\nWithin %s:\n", bbox)
	fmt.Fprintf(w, " Number of records: %d\n", len(points))
	if len(points) == 0 {
		return nil
	}
	sub := &domain.Numerica{Points: points}
	lo, hi, err := sub.ValueRange()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, " Range of Values: min=%s - max=%s\n", domain.FormatValue(lo), domain.FormatValue(hi))
	return nil
}

func parseBBox(s string) (domain.Extent, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.Extent{}, fmt.Errorf("%w: -bbox needs minLon,minLat,maxLon,maxLat", errUsage)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Extent{}, fmt.Errorf("%w: -bbox value %q: %w", errUsage, p, err)
		}
		v[i] = f
	}
	e := domain.Extent{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if e.MinLon > e.MaxLon || e.MinLat > e.MaxLat {
		return domain.Extent{}, fmt.Errorf("%w: -bbox minimum exceeds maximum", errUsage)
	}
	return e, nil
}
