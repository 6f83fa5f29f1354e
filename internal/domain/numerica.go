package domain

import (
	"fmt"
	"slices"
)

// Metadata keys with a declared type. Any other key is kept as a string.
const (
	KeyWidth              = "Width"
	KeyHeight             = "Height"
	KeyHornHeight         = "HornHeight"
	KeyGroundHeight       = "GroundHeight"
	KeyLatCentre          = "LatCentre"
	KeyLonCentre          = "LonCentre"
	KeyLatitudeIncrement  = "LatitudeIncrement"
	KeyLongitudeIncrement = "LongitudeIncrement"
	KeyValidTime          = "ValidTime"
	KeyData               = "Data"
)

// ValidTimeLayout is the YYYYMMDDHHmm layout of ValidTime, read as UTC.
const ValidTimeLayout = "200601021504"

// Point is one sparse measurement from a Data line.
type Point struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`
}

// Numerica is a parsed Numerica document. It is built once by Parse and is
// not modified afterwards.
type Numerica struct {
	// Filename is the basename of the source file, for display only.
	Filename string
	Metadata *Metadata
	// Points holds the Data triples in file order, duplicates included.
	Points []Point
}

// Extent is an axis-aligned bounding box in degrees.
type Extent struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Contains reports whether (lat, lon) lies inside e, edges included.
func (e Extent) Contains(lat, lon float64) bool {
	return lon >= e.MinLon && lon <= e.MaxLon && lat >= e.MinLat && lat <= e.MaxLat
}

func (e Extent) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", e.MinLon, e.MinLat, e.MaxLon, e.MaxLat)
}

// SpatialExtent returns the bounding box of all points. Latitudes and
// longitudes are sorted independently, so the corners need not be actual
// data points.
func (n *Numerica) SpatialExtent() (Extent, error) {
	if len(n.Points) == 0 {
		return Extent{}, &EmptyDataError{Query: "spatial extent"}
	}

	lats := make([]float64, len(n.Points))
	lons := make([]float64, len(n.Points))
	for i, p := range n.Points {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}
	slices.Sort(lats)
	slices.Sort(lons)

	return Extent{
		MinLon: lons[0],
		MinLat: lats[0],
		MaxLon: lons[len(lons)-1],
		MaxLat: lats[len(lats)-1],
	}, nil
}

// ValueRange returns the smallest and largest measurement.
func (n *Numerica) ValueRange() (lo, hi float64, err error) {
	if len(n.Points) == 0 {
		return 0, 0, &EmptyDataError{Query: "value range"}
	}

	values := make([]float64, len(n.Points))
	for i, p := range n.Points {
		values[i] = p.Value
	}
	slices.Sort(values)

	return values[0], values[len(values)-1], nil
}
