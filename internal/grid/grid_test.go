package grid

import (
	"math"
	"testing"

	"github.com/couchcryptid/numerica-etl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func unitRaster() *Raster {
	return NewRaster(3, 3, GeoTransform{-1.5, 1, 0, 0.5, 0, -1})
}

func TestRaster_GeoToPixel(t *testing.T) {
	r := unitRaster()

	tests := []struct {
		name     string
		lat, lon float64
		row, col int
		ok       bool
	}{
		{"upper-left corner", 0.5, -1.5, 0, 0, true},
		{"interior", -0.25, 0.25, 0, 1, true},
		{"lower-right interior", -2.4, 1.4, 2, 2, true},
		{"east edge is exclusive", 0, 1.5, 0, 0, false},
		{"south edge is exclusive", -2.5, 0, 0, 0, false},
		{"north of grid", 0.51, 0, 0, 0, false},
		{"NaN", math.NaN(), 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := r.GeoToPixel(tt.lat, tt.lon)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.row, row)
				assert.Equal(t, tt.col, col)
			}
		})
	}
}

func TestRaster_PixelToGeo(t *testing.T) {
	r := unitRaster()
	lat, lon := r.PixelToGeo(0, 0)
	assert.Equal(t, 0.5, lat)
	assert.Equal(t, -1.5, lon)

	lat, lon = r.PixelToGeo(2, 1)
	assert.Equal(t, -1.5, lat)
	assert.Equal(t, -0.5, lon)
}

func TestRaster_Bounds(t *testing.T) {
	assert.Equal(t,
		domain.Extent{MinLon: -1.5, MinLat: -2.5, MaxLon: 1.5, MaxLat: 0.5},
		unitRaster().Bounds())
}

func TestRaster_Stats(t *testing.T) {
	r := unitRaster()
	Burn(r, []domain.Point{
		{Lat: 0, Lon: -1, Value: 2},
		{Lat: -1, Lon: 0, Value: 4},
		{Lat: -2, Lon: 1, Value: 6},
		{Lat: 10, Lon: 10, Value: 100},
	})

	s := r.Stats()
	assert.Equal(t, 3, s.Cells)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 6.0, s.Max)
	assert.InDelta(t, 4.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)
	assert.Equal(t, 3, r.Burned)
	assert.Equal(t, 1, r.Dropped)
}

func TestRaster_StatsSingleCell(t *testing.T) {
	r := unitRaster()
	r.Set(1, 1, 9)
	assert.Equal(t, Stats{Cells: 1, Min: 9, Max: 9, Mean: 9}, r.Stats())
}

func TestRaster_OutOfRangePanics(t *testing.T) {
	r := unitRaster()
	assert.Panics(t, func() { r.At(3, 0) })
	assert.Panics(t, func() { r.Set(0, -1, 1) })
	assert.Panics(t, func() { r.Row(-1) })
}

func TestRaster_RowsIsACopy(t *testing.T) {
	r := unitRaster()
	rows := r.Rows()
	rows[0][0] = 42
	assert.Equal(t, NoData, r.At(0, 0))

	r.Row(0)[0] = 7
	assert.Equal(t, 7.0, r.At(0, 0))
}
