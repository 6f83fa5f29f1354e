package grid

import (
	"fmt"
	"math"

	"github.com/couchcryptid/numerica-etl/internal/domain"
)

// Config is the grid geometry read from document metadata.
type Config struct {
	Width     int
	Height    int
	LonCentre float64
	LatCentre float64
	LonIncr   float64
	LatIncr   float64
}

// MaxCells bounds Width*Height. A float64 grid at the limit takes 512 MiB.
const MaxCells = 1 << 26

// ConfigFrom extracts and validates the grid geometry of doc.
func ConfigFrom(doc *domain.Numerica) (Config, error) {
	var cfg Config
	m := doc.Metadata
	if m == nil {
		m = domain.NewMetadata()
	}

	ints := []struct {
		key string
		dst *int
	}{
		{domain.KeyWidth, &cfg.Width},
		{domain.KeyHeight, &cfg.Height},
	}
	for _, f := range ints {
		v, ok := m.Int(f.key)
		if !ok {
			return Config{}, missing(m, f.key)
		}
		if v <= 0 {
			return Config{}, &domain.GridConfigurationError{Key: f.key, Reason: "must be positive"}
		}
		*f.dst = v
	}
	if cfg.Width > MaxCells/cfg.Height {
		return Config{}, &domain.GridConfigurationError{
			Key:    domain.KeyWidth,
			Reason: fmt.Sprintf("times Height exceeds the %d cell limit", MaxCells),
		}
	}

	floats := []struct {
		key     string
		dst     *float64
		nonZero bool
	}{
		{domain.KeyLonCentre, &cfg.LonCentre, false},
		{domain.KeyLatCentre, &cfg.LatCentre, false},
		{domain.KeyLongitudeIncrement, &cfg.LonIncr, true},
		{domain.KeyLatitudeIncrement, &cfg.LatIncr, true},
	}
	for _, f := range floats {
		v, ok := m.Float(f.key)
		if !ok {
			return Config{}, missing(m, f.key)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Config{}, &domain.GridConfigurationError{Key: f.key, Reason: "must be finite"}
		}
		if f.nonZero && v == 0 {
			return Config{}, &domain.GridConfigurationError{Key: f.key, Reason: "must be non-zero"}
		}
		*f.dst = v
	}
	return cfg, nil
}

func missing(m *domain.Metadata, key string) error {
	if _, present := m.Get(key); present {
		return &domain.GridConfigurationError{Key: key, Reason: "has the wrong type"}
	}
	return &domain.GridConfigurationError{Key: key, Reason: "is missing"}
}

// GeoTransform derives the north-up geotransform. Width/2 and Height/2 are
// integer divisions.
func (c Config) GeoTransform() GeoTransform {
	minX := c.LonCentre - c.LonIncr*float64(c.Width/2) - c.LonIncr/2
	maxY := c.LatCentre + c.LatIncr*float64(c.Height/2) - c.LatIncr/2
	return GeoTransform{minX, c.LonIncr, 0, maxY, 0, -c.LatIncr}
}

// Build rasterizes doc's points onto the grid its metadata describes.
// Each point is burned into the cell containing it; later points overwrite
// earlier ones and points outside the grid are counted in Dropped.
func Build(doc *domain.Numerica) (*Raster, error) {
	cfg, err := ConfigFrom(doc)
	if err != nil {
		return nil, err
	}

	r := NewRaster(cfg.Width, cfg.Height, cfg.GeoTransform())
	Burn(r, doc.Points)
	return r, nil
}

// Burn writes each point's value into the cell it falls in.
func Burn(r *Raster, points []domain.Point) {
	for _, p := range points {
		row, col, ok := r.GeoToPixel(p.Lat, p.Lon)
		if !ok {
			r.Dropped++
			continue
		}
		r.cells[row*r.Width+col] = p.Value
		r.Burned++
	}
}
