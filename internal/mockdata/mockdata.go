// Package mockdata generates synthetic Numerica documents for fixtures,
// demos and tests. Output is fully determined by Options.
package mockdata

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/numerica-etl/internal/domain"
)

// triplesPerLine matches the line width of the radar exports the format
// comes from; the parser accepts any count.
const triplesPerLine = 8

// edgeMargin keeps in-grid points clear of the grid edges after rounding to
// six decimal places.
const edgeMargin = 1e-5

// Options describes one synthetic radar product.
type Options struct {
	Radar     string
	Product   string
	ValidTime time.Time

	Width, Height        int
	LatCentre, LonCentre float64
	LatIncr, LonIncr     float64

	// Points inside the grid. Outside is the number of extra points placed
	// beyond its edges, which the grid builder drops.
	Points  int
	Outside int

	// Noise adds one malformed line and one Data line with a partial
	// triple, both of which the parser reports and skips.
	Noise bool

	Seed uint64
}

// DefaultOptions is a 20x20 precipitation product over southern Quebec.
func DefaultOptions() Options {
	return Options{
		Radar:     "CASBV",
		Product:   "PRECIPET",
		ValidTime: time.Date(2017, time.May, 25, 19, 0, 0, 0, time.UTC),
		Width:     20,
		Height:    20,
		LatCentre: 45.7,
		LonCentre: -73.9,
		LatIncr:   0.05,
		LonIncr:   0.05,
		Points:    120,
		Outside:   4,
		Seed:      1,
	}
}

// Filename is the conventional name for the document o describes.
func (o Options) Filename() string {
	return fmt.Sprintf("%s_%s_%s.numerica", o.Radar, o.Product, o.ValidTime.UTC().Format(domain.ValidTimeLayout))
}

// Document renders the Numerica text for o.
func Document(o Options) []byte {
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))

	var b strings.Builder
	field := func(key, value string) { fmt.Fprintf(&b, "%s %s\n", key, value) }

	field("Format", "NUMERICA")
	field("MajorProductType", "RADAR")
	field("MinorProductType", o.Product)
	field("ProductName", o.Product+" synthetic")
	field("Radar", o.Radar)
	field(domain.KeyValidTime, o.ValidTime.UTC().Format(domain.ValidTimeLayout))
	field(domain.KeyWidth, strconv.Itoa(o.Width))
	field(domain.KeyHeight, strconv.Itoa(o.Height))
	field(domain.KeyLatCentre, formatFloat(o.LatCentre))
	field(domain.KeyLonCentre, formatFloat(o.LonCentre))
	field(domain.KeyLatitudeIncrement, formatFloat(o.LatIncr))
	field(domain.KeyLongitudeIncrement, formatFloat(o.LonIncr))
	field("Units", "mm/h")
	if o.Noise {
		b.WriteString("CalibrationPending\n")
	}

	points := make([]domain.Point, 0, o.Points+o.Outside)
	minLon, maxLat, spanLon, spanLat := o.bounds()
	for range o.Points {
		points = append(points, domain.Point{
			Lat:   round(maxLat-edgeMargin-rng.Float64()*spanLat, 6),
			Lon:   round(minLon+edgeMargin+rng.Float64()*spanLon, 6),
			Value: round(rng.ExpFloat64()*2.5, 2),
		})
	}
	for i := range o.Outside {
		// Alternate north and east of the grid.
		p := domain.Point{Lat: round(maxLat+o.LatIncr, 6), Lon: round(minLon+spanLon/2, 6), Value: 1}
		if i%2 == 1 {
			p = domain.Point{Lat: round(maxLat-spanLat/2, 6), Lon: round(minLon+spanLon+2*o.LonIncr, 6), Value: 1}
		}
		points = append(points, p)
	}

	for chunk := range slices.Chunk(points, triplesPerLine) {
		b.WriteString(domain.KeyData)
		for i, p := range chunk {
			if i == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%s,%s,%s", formatFloat(p.Lat), formatFloat(p.Lon), formatFloat(p.Value))
		}
		b.WriteByte('\n')
	}
	if o.Noise {
		fmt.Fprintf(&b, "%s %s,%s\n", domain.KeyData, formatFloat(o.LatCentre), formatFloat(o.LonCentre))
	}
	return []byte(b.String())
}

// bounds mirrors the grid builder's integer-division layout so generated
// points land inside the raster.
func (o Options) bounds() (minLon, maxLat, spanLon, spanLat float64) {
	minLon = o.LonCentre - o.LonIncr*float64(o.Width/2) - o.LonIncr/2
	maxLat = o.LatCentre + o.LatIncr*float64(o.Height/2) - o.LatIncr/2
	spanLon = o.LonIncr*float64(o.Width) - 2*edgeMargin
	spanLat = o.LatIncr*float64(o.Height) - 2*edgeMargin
	return minLon, maxLat, spanLon, spanLat
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ProcessedAt is the fixed processing time genmock and validate install
// through domain.SetClock so product fixtures are reproducible.
var ProcessedAt = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

// Fixture is one expected sink-topic message, as written by genmock.
type Fixture struct {
	Source  string            `json:"source"`
	Key     string            `json:"key"`
	Headers map[string]string `json:"headers"`
	Product json.RawMessage   `json:"product"`
}

// Series returns n consecutive products from one radar, ten minutes apart,
// each with its own seed.
func Series(base Options, n int) []Options {
	out := make([]Options, n)
	for i := range out {
		o := base
		o.ValidTime = base.ValidTime.Add(time.Duration(i) * 10 * time.Minute)
		o.Seed = base.Seed + uint64(i)
		out[i] = o
	}
	return out
}
