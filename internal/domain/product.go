package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// NewGridProduct fills the document-derived fields of a GridProduct: ID,
// metadata, point statistics and the processing timestamp. Grid fields are
// left for the caller.
func NewGridProduct(doc *Numerica) GridProduct {
	validTime, _ := doc.Metadata.Time(KeyValidTime)
	width, _ := doc.Metadata.Int(KeyWidth)
	height, _ := doc.Metadata.Int(KeyHeight)

	p := GridProduct{
		ID:          generateID(doc.Filename, validTime, width, height, len(doc.Points)),
		Filename:    doc.Filename,
		ValidTime:   validTime,
		Metadata:    doc.Metadata,
		PointCount:  len(doc.Points),
		ProcessedAt: clock.Now(),
	}

	if extent, err := doc.SpatialExtent(); err == nil {
		p.Extent = &extent
	}
	if lo, hi, err := doc.ValueRange(); err == nil {
		p.ValueRange = []float64{lo, hi}
	}
	return p
}

// SerializeGridProduct marshals a GridProduct into an OutputEvent keyed by
// the product ID.
func SerializeGridProduct(p GridProduct) (OutputEvent, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize grid product: %w", err)
	}

	headers := map[string]string{
		"filename":      p.Filename,
		"raster_format": p.RasterFormat,
		"processed_at":  p.ProcessedAt.Format(time.RFC3339),
	}
	if !p.ValidTime.IsZero() {
		headers["valid_time"] = p.ValidTime.Format(time.RFC3339)
	}

	return OutputEvent{
		Key:     []byte(p.ID),
		Value:   data,
		Headers: headers,
	}, nil
}

// generateID produces a deterministic ID from the fields that identify a
// radar product, so replaying a document yields the same key downstream.
func generateID(filename string, validTime time.Time, width, height, points int) string {
	input := fmt.Sprintf("%s|%s|%d|%d|%d", filename, validTime.Format(ValidTimeLayout), width, height, points)
	hash := sha256.Sum256([]byte(input))
	return "numerica-" + hex.EncodeToString(hash[:8])
}
