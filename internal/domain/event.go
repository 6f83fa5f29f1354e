package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic. Value
// holds one complete Numerica document.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Filename returns the document filename carried by the message, falling
// back to the message key.
func (r RawEvent) Filename() string {
	if name := r.Headers["filename"]; name != "" {
		return name
	}
	return string(r.Key)
}

// GridProduct is the rasterized form of one document, destined for the
// sink topic.
type GridProduct struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename,omitempty"`
	ValidTime  time.Time `json:"valid_time,omitzero"`
	Metadata   *Metadata `json:"metadata"`
	PointCount int       `json:"point_count"`
	Extent     *Extent   `json:"extent,omitempty"`
	ValueRange []float64 `json:"value_range,omitempty"`

	Width        int        `json:"width"`
	Height       int        `json:"height"`
	GeoTransform [6]float64 `json:"geotransform"`
	EPSG         int        `json:"epsg"`
	NoData       float64    `json:"nodata"`
	Burned       int        `json:"burned"`
	Dropped      int        `json:"dropped"`
	CellMean     float64    `json:"cell_mean"`
	CellStdDev   float64    `json:"cell_stddev"`

	RasterFormat string `json:"raster_format"`
	Raster       []byte `json:"raster"`

	// Radar site enrichment fields.
	SitePlaceName  string  `json:"site_place_name,omitempty"`
	SiteAddress    string  `json:"site_address,omitempty"`
	SiteConfidence float64 `json:"site_confidence,omitempty"`
	SiteGeoSource  string  `json:"site_geo_source,omitempty"` // "reverse", "original", "failed"

	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
