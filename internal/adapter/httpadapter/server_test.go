package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/numerica-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/numerica-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPipeline struct {
	err    error
	status pipeline.Status
}

func (m *mockPipeline) CheckReadiness(_ context.Context) error { return m.err }

func (m *mockPipeline) Status() pipeline.Status { return m.status }

func newTestServer(p *mockPipeline) *httpadapter.Server {
	return httpadapter.NewServer(":0", p, slog.New(slog.DiscardHandler))
}

func get(t *testing.T, srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(&mockPipeline{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(&mockPipeline{}), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(&mockPipeline{err: fmt.Errorf("pipeline has not produced any grids yet")}), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "pipeline has not produced any grids yet", body["error"])
}

func TestStatusReportsLastProduct(t *testing.T) {
	loadedAt := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	rec := get(t, newTestServer(&mockPipeline{status: pipeline.Status{
		Produced:      3,
		Failed:        1,
		LastProductID: "numerica-0123456789abcdef",
		LastFilename:  "CASBV.numerica",
		LastLoadedAt:  loadedAt,
	}}), "/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"produced": 3,
		"failed": 1,
		"last_product_id": "numerica-0123456789abcdef",
		"last_filename": "CASBV.numerica",
		"last_loaded_at": "2024-04-27T06:00:00Z"
	}`, rec.Body.String())
}

func TestStatusBeforeFirstProduct(t *testing.T) {
	rec := get(t, newTestServer(&mockPipeline{}), "/status")
	assert.JSONEq(t, `{"produced": 0, "failed": 0}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&mockPipeline{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
