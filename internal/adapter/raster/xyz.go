package raster

import (
	"bufio"
	"io"

	"github.com/couchcryptid/numerica-etl/internal/grid"
)

// XYZ encodes one "x y z" line per cell centre, row by row from the north
// edge (GDAL driver "XYZ"). NoData cells are written with the NoData value.
type XYZ struct{}

func (XYZ) Format() string    { return "xyz" }
func (XYZ) Extension() string { return ".xyz" }

func (XYZ) Encode(w io.Writer, r *grid.Raster) error {
	g := r.GeoTransform
	bw := bufio.NewWriter(w)
	for row := 0; row < r.Height; row++ {
		for col, v := range r.Row(row) {
			lat, lon := r.PixelToGeo(row, col)
			lon += g.PixelWidth() / 2
			lat += g.PixelHeight() / 2

			bw.WriteString(formatFloat(lon))
			bw.WriteByte(' ')
			bw.WriteString(formatFloat(lat))
			bw.WriteByte(' ')
			bw.WriteString(formatFloat(v))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
