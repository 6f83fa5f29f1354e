package mockdata

import (
	"bytes"
	"testing"

	"github.com/couchcryptid/numerica-etl/internal/domain"
	"github.com/couchcryptid/numerica-etl/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Deterministic(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, Document(o), Document(o))

	o2 := o
	o2.Seed = 2
	assert.NotEqual(t, Document(o), Document(o2))
}

func TestDocument_ParsesAndGrids(t *testing.T) {
	o := DefaultOptions()
	doc, err := domain.Parse(bytes.NewReader(Document(o)), o.Filename())
	require.NoError(t, err)

	assert.Equal(t, "CASBV_PRECIPET_201705251900.numerica", doc.Filename)
	assert.Len(t, doc.Points, o.Points+o.Outside)
	w, _ := doc.Metadata.Int(domain.KeyWidth)
	assert.Equal(t, 20, w)

	r, err := grid.Build(doc)
	require.NoError(t, err)
	assert.Equal(t, o.Points, r.Burned)
	assert.Equal(t, o.Outside, r.Dropped)
}

func TestDocument_NoiseIsReported(t *testing.T) {
	o := DefaultOptions()
	o.Noise = true

	var diags domain.DiagnosticsCollector
	doc, err := domain.Parse(bytes.NewReader(Document(o)), o.Filename(), domain.WithDiagnostics(&diags))
	require.NoError(t, err)
	assert.Len(t, doc.Points, o.Points+o.Outside)

	items := diags.Items()
	require.Len(t, items, 2)
	assert.Equal(t, domain.DiagnosticMalformedLine, items[0].Kind)
	assert.Equal(t, domain.DiagnosticPartialTriple, items[1].Kind)
}

func TestDocument_OddDimensions(t *testing.T) {
	o := DefaultOptions()
	o.Width, o.Height = 7, 5
	o.LonIncr = 0.1
	o.Points = 60
	o.Outside = 0

	doc, err := domain.Parse(bytes.NewReader(Document(o)), "")
	require.NoError(t, err)
	r, err := grid.Build(doc)
	require.NoError(t, err)
	assert.Equal(t, 60, r.Burned)
	assert.Zero(t, r.Dropped)
}

func TestSeries(t *testing.T) {
	series := Series(DefaultOptions(), 3)
	require.Len(t, series, 3)
	assert.Equal(t, "CASBV_PRECIPET_201705251910.numerica", series[1].Filename())
	assert.Equal(t, uint64(3), series[2].Seed)
	assert.NotEqual(t, Document(series[0]), Document(series[1]))
}
