package raster

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/numerica-etl/internal/domain"
	"github.com/couchcryptid/numerica-etl/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaster(t *testing.T) *grid.Raster {
	t.Helper()
	doc, err := domain.Load("../../domain/testdata/sample.numerica")
	require.NoError(t, err)
	r, err := grid.Build(doc)
	require.NoError(t, err)
	return r
}

func TestAsciiGrid_Encode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AsciiGrid{}.Encode(&buf, sampleRaster(t)))

	want := strings.Join([]string{
		"ncols        3",
		"nrows        3",
		"xllcorner    -73.75",
		"yllcorner    43.75",
		"cellsize     0.5",
		"NODATA_value -9999",
		"0.25 -9999 -9999",
		"-9999 2 -9999",
		"-9999 -9999 12",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestAsciiGrid_NonSquareCells(t *testing.T) {
	r := grid.NewRaster(2, 1, grid.GeoTransform{0, 0.5, 0, 1, 0, -0.25})

	var buf bytes.Buffer
	require.NoError(t, AsciiGrid{}.Encode(&buf, r))
	assert.Contains(t, buf.String(), "dx           0.5\n")
	assert.Contains(t, buf.String(), "dy           0.25\n")
	assert.NotContains(t, buf.String(), "cellsize")
}

func TestAsciiGrid_RejectsUnsupportedGeometry(t *testing.T) {
	var buf bytes.Buffer
	err := AsciiGrid{}.Encode(&buf, grid.NewRaster(1, 1, grid.GeoTransform{0, 1, 0.1, 0, 0, -1}))
	assert.ErrorContains(t, err, "rotated")

	err = AsciiGrid{}.Encode(&buf, grid.NewRaster(1, 1, grid.GeoTransform{0, 1, 0, 0, 0, 1}))
	assert.ErrorContains(t, err, "north-up")
}

func TestXYZ_Encode(t *testing.T) {
	r := grid.NewRaster(2, 1, grid.GeoTransform{-1, 1, 0, 1, 0, -1})
	r.Set(0, 1, 3.5)

	var buf bytes.Buffer
	require.NoError(t, XYZ{}.Encode(&buf, r))
	assert.Equal(t, "-0.5 0.5 -9999\n0.5 0.5 3.5\n", buf.String())
}

func TestForFormat(t *testing.T) {
	s, err := ForFormat(" AAIGrid ")
	require.NoError(t, err)
	assert.Equal(t, "aaigrid", s.Format())
	assert.Equal(t, ".asc", s.Extension())

	s, err = ForFormat("xyz")
	require.NoError(t, err)
	assert.Equal(t, ".xyz", s.Extension())

	_, err = ForFormat("GTiff")
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "aaigrid, xyz")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.asc")

	require.NoError(t, WriteFile(AsciiGrid{}, path, sampleRaster(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ncols        3\n"))

	prj, err := os.ReadFile(filepath.Join(dir, "out.prj"))
	require.NoError(t, err)
	assert.Contains(t, string(prj), "GCS_WGS_1984")
}

func TestWriteFile_EncodeFailureRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.asc")
	err := WriteFile(AsciiGrid{}, path, grid.NewRaster(1, 1, grid.GeoTransform{0, 1, 0, 0, 0, 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode aaigrid raster")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFile_BadPath(t *testing.T) {
	err := WriteFile(XYZ{}, filepath.Join(t.TempDir(), "missing", "out.xyz"), sampleRaster(t))
	assert.ErrorContains(t, err, "create raster file")
}
