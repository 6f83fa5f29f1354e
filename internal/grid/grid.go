// Package grid rasterizes the sparse points of a Numerica document onto a
// dense, north-up EPSG:4326 grid.
//
// The grid geometry comes from the document metadata only:
//
//	minX = LonCentre - LongitudeIncrement*(Width/2)  - LongitudeIncrement/2
//	maxY = LatCentre + LatitudeIncrement*(Height/2)  - LatitudeIncrement/2
//	geotransform = (minX, LongitudeIncrement, 0, maxY, 0, -LatitudeIncrement)
//
// Width/2 and Height/2 are integer divisions. For odd dimensions this puts
// the origin half a cell away from a centred grid; the exporter's products
// are georeferenced this way and the offset is kept.
package grid

import (
	"fmt"
	"math"

	"github.com/couchcryptid/numerica-etl/internal/domain"
	"gonum.org/v1/gonum/stat"
)

const (
	// NoData marks cells that received no point.
	NoData = -9999.0

	// EPSG is the spatial reference of every grid: WGS 84 geographic.
	EPSG = 4326
)

// GeoTransform maps pixel (col, row) to geographic (x, y):
//
//	x = g[0] + col*g[1] + row*g[2]
//	y = g[3] + col*g[4] + row*g[5]
type GeoTransform [6]float64

// OriginX is the longitude of the grid's west edge.
func (g GeoTransform) OriginX() float64 { return g[0] }

// OriginY is the latitude of the grid's north edge.
func (g GeoTransform) OriginY() float64 { return g[3] }

// PixelWidth is the cell size along x, in degrees.
func (g GeoTransform) PixelWidth() float64 { return g[1] }

// PixelHeight is the cell size along y. It is negative for north-up grids.
func (g GeoTransform) PixelHeight() float64 { return g[5] }

// Raster is a single band float64 grid plus its georeferencing.
type Raster struct {
	Width        int
	Height       int
	GeoTransform GeoTransform
	EPSG         int
	NoData       float64

	// Burned counts point writes, overwrites included. Dropped counts
	// points that fell outside the grid.
	Burned  int
	Dropped int

	cells []float64
}

// NewRaster allocates a width x height raster filled with NoData.
func NewRaster(width, height int, gt GeoTransform) *Raster {
	cells := make([]float64, width*height)
	for i := range cells {
		cells[i] = NoData
	}
	return &Raster{
		Width:        width,
		Height:       height,
		GeoTransform: gt,
		EPSG:         EPSG,
		NoData:       NoData,
		cells:        cells,
	}
}

// At returns the cell value at (row, col). It panics when out of range.
func (r *Raster) At(row, col int) float64 {
	r.check(row, col)
	return r.cells[row*r.Width+col]
}

// Set writes the cell at (row, col). It panics when out of range.
func (r *Raster) Set(row, col int, v float64) {
	r.check(row, col)
	r.cells[row*r.Width+col] = v
}

// Row returns row as a slice sharing the raster's storage.
func (r *Raster) Row(row int) []float64 {
	r.check(row, 0)
	return r.cells[row*r.Width : (row+1)*r.Width]
}

// Rows returns a copy of the grid as rows, north to south.
func (r *Raster) Rows() [][]float64 {
	out := make([][]float64, r.Height)
	for i := range out {
		out[i] = append([]float64(nil), r.Row(i)...)
	}
	return out
}

func (r *Raster) check(row, col int) {
	if row < 0 || row >= r.Height || col < 0 || col >= r.Width {
		panic(fmt.Sprintf("grid: cell (%d, %d) outside %dx%d raster", row, col, r.Width, r.Height))
	}
}

// PixelToGeo returns the coordinate of the upper-left corner of (row, col).
func (r *Raster) PixelToGeo(row, col int) (lat, lon float64) {
	g := r.GeoTransform
	lon = g[0] + float64(col)*g[1] + float64(row)*g[2]
	lat = g[3] + float64(col)*g[4] + float64(row)*g[5]
	return lat, lon
}

// GeoToPixel returns the cell containing (lat, lon). ok is false when the
// coordinate is outside the raster.
func (r *Raster) GeoToPixel(lat, lon float64) (row, col int, ok bool) {
	g := r.GeoTransform
	c := math.Floor((lon - g.OriginX()) / g.PixelWidth())
	rw := math.Floor((g.OriginY() - lat) / -g.PixelHeight())
	if math.IsNaN(c) || math.IsNaN(rw) ||
		c < 0 || c >= float64(r.Width) || rw < 0 || rw >= float64(r.Height) {
		return 0, 0, false
	}
	return int(rw), int(c), true
}

// Bounds returns the raster's outer edges.
func (r *Raster) Bounds() domain.Extent {
	g := r.GeoTransform
	return domain.Extent{
		MinLon: g.OriginX(),
		MaxLat: g.OriginY(),
		MaxLon: g.OriginX() + float64(r.Width)*g.PixelWidth(),
		MinLat: g.OriginY() + float64(r.Height)*g.PixelHeight(),
	}
}

// Stats summarizes the cells that hold data.
type Stats struct {
	Cells  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Stats computes statistics over the non-NoData cells. All fields are zero
// when no cell holds data.
func (r *Raster) Stats() Stats {
	values := make([]float64, 0, r.Burned)
	for _, v := range r.cells {
		if v != r.NoData {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return Stats{}
	}

	s := Stats{Cells: len(values), Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	if len(values) == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}
