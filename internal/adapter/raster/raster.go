// Package raster persists grid.Raster values in text raster formats that
// GIS tools (GDAL, QGIS, ArcGIS) read without plugins.
package raster

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/numerica-etl/internal/grid"
)

// WKT4326 is the ESRI flavoured WKT of EPSG:4326, written to .prj files.
const WKT4326 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// ErrUnknownFormat is returned by ForFormat for unsupported format names.
var ErrUnknownFormat = errors.New("unknown raster format")

// Sink encodes a raster into a concrete file format.
type Sink interface {
	// Format is the short name used in configuration, e.g. "aaigrid".
	Format() string
	// Extension is the conventional file extension, dot included.
	Extension() string
	Encode(w io.Writer, r *grid.Raster) error
}

var sinks = map[string]Sink{
	"aaigrid": AsciiGrid{},
	"xyz":     XYZ{},
}

// ForFormat returns the sink registered under name (case-insensitive).
func ForFormat(name string) (Sink, error) {
	s, ok := sinks[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	return s, nil
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(sinks))
	for name := range sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFile encodes r to path and writes the EPSG:4326 projection next to
// it as <path without extension>.prj. A partially written raster is removed.
func WriteFile(sink Sink, path string, r *grid.Raster) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create raster file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close raster file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := sink.Encode(f, r); err != nil {
		return fmt.Errorf("encode %s raster: %w", sink.Format(), err)
	}

	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	if err := os.WriteFile(prj, []byte(WKT4326+"\n"), 0o644); err != nil {
		return fmt.Errorf("write projection file: %w", err)
	}
	return nil
}
