package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/numerica-etl/internal/adapter/raster"
	"github.com/couchcryptid/numerica-etl/internal/domain"
	"github.com/couchcryptid/numerica-etl/internal/grid"
	"github.com/couchcryptid/numerica-etl/internal/observability"
)

// Transform stages, used as the "stage" label of the transform error metric.
const (
	StageParse     = "parse"
	StageGrid      = "grid"
	StageEncode    = "encode"
	StageSerialize = "serialize"
)

// StageError records which step of the transform rejected a document.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

func stageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return "unknown"
}

// GridTransformer turns a raw Numerica document into a serialized grid
// product: parse, rasterize, encode, then optionally label the radar site.
type GridTransformer struct {
	sink     raster.Sink
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates a GridTransformer that encodes rasters with sink.
// Pass a nil geocoder to disable site labelling.
func NewTransformer(sink raster.Sink, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *GridTransformer {
	return &GridTransformer{
		sink:     sink,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

func (t *GridTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	filename := raw.Filename()
	logger := t.logger.With("filename", filename, "offset", raw.Offset)

	doc, err := domain.Parse(bytes.NewReader(raw.Value), filename,
		domain.WithLogger(logger),
		domain.WithDiagnostics(domain.Multi(
			domain.LogDiagnostics(logger),
			domain.DiagnosticsFunc(func(d domain.Diagnostic) {
				t.metrics.ParseDiagnostics.WithLabelValues(string(d.Kind)).Inc()
			}),
		)),
	)
	if err != nil {
		return domain.OutputEvent{}, &StageError{Stage: StageParse, Err: err}
	}

	r, err := grid.Build(doc)
	if err != nil {
		return domain.OutputEvent{}, &StageError{Stage: StageGrid, Err: err}
	}
	t.metrics.PointsBurned.Add(float64(r.Burned))
	t.metrics.PointsDropped.Add(float64(r.Dropped))
	t.metrics.GridCells.Observe(float64(r.Width * r.Height))
	if r.Dropped > 0 {
		logger.Debug("points outside grid", "dropped", r.Dropped, "burned", r.Burned)
	}

	var encoded bytes.Buffer
	if err := t.sink.Encode(&encoded, r); err != nil {
		return domain.OutputEvent{}, &StageError{Stage: StageEncode, Err: fmt.Errorf("encode %s raster: %w", t.sink.Format(), err)}
	}

	product := productFromRaster(domain.NewGridProduct(doc), r)
	product.RasterFormat = t.sink.Format()
	product.Raster = encoded.Bytes()
	product = domain.EnrichWithSiteName(ctx, product, t.geocoder, logger)

	out, err := domain.SerializeGridProduct(product)
	if err != nil {
		return domain.OutputEvent{}, &StageError{Stage: StageSerialize, Err: err}
	}
	return out, nil
}

// productFromRaster copies the grid geometry and cell statistics into p.
func productFromRaster(p domain.GridProduct, r *grid.Raster) domain.GridProduct {
	stats := r.Stats()
	p.Width = r.Width
	p.Height = r.Height
	p.GeoTransform = r.GeoTransform
	p.EPSG = r.EPSG
	p.NoData = r.NoData
	p.Burned = r.Burned
	p.Dropped = r.Dropped
	p.CellMean = stats.Mean
	p.CellStdDev = stats.StdDev
	return p
}
