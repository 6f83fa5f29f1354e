package raster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/couchcryptid/numerica-etl/internal/grid"
)

// AsciiGrid encodes Esri ASCII grids (GDAL driver "AAIGrid").
//
//	ncols        3
//	nrows        3
//	xllcorner    -73.75
//	yllcorner    43.75
//	cellsize     0.5
//	NODATA_value -9999
//	0.25 -9999 -9999
//	...
//
// Rows run north to south. Non-square cells are written with the dx/dy
// header pair instead of cellsize.
type AsciiGrid struct{}

func (AsciiGrid) Format() string    { return "aaigrid" }
func (AsciiGrid) Extension() string { return ".asc" }

func (AsciiGrid) Encode(w io.Writer, r *grid.Raster) error {
	g := r.GeoTransform
	if g[2] != 0 || g[4] != 0 {
		return errors.New("rotated geotransform not representable")
	}
	if g.PixelHeight() >= 0 {
		return fmt.Errorf("grid is not north-up (pixel height %g)", g.PixelHeight())
	}

	bounds := r.Bounds()
	dx, dy := g.PixelWidth(), -g.PixelHeight()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols        %d\n", r.Width)
	fmt.Fprintf(bw, "nrows        %d\n", r.Height)
	fmt.Fprintf(bw, "xllcorner    %s\n", formatFloat(bounds.MinLon))
	fmt.Fprintf(bw, "yllcorner    %s\n", formatFloat(bounds.MinLat))
	if math.Abs(dx-dy) <= 1e-12*math.Max(math.Abs(dx), math.Abs(dy)) {
		fmt.Fprintf(bw, "cellsize     %s\n", formatFloat(dx))
	} else {
		fmt.Fprintf(bw, "dx           %s\n", formatFloat(dx))
		fmt.Fprintf(bw, "dy           %s\n", formatFloat(dy))
	}
	fmt.Fprintf(bw, "NODATA_value %s\n", formatFloat(r.NoData))

	for row := 0; row < r.Height; row++ {
		for col, v := range r.Row(row) {
			if col > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
