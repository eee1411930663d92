package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotruth/pkg/cache"
	"geotruth/pkg/db"
	"geotruth/pkg/enrich"
	"geotruth/pkg/narration"
	"geotruth/pkg/poi"
	"geotruth/pkg/request"
	"geotruth/pkg/tracker"
	"geotruth/pkg/valhalla"
	"geotruth/pkg/version"
)

func testHandlers(t *testing.T) Handlers {
	t.Helper()
	d, err := db.Init(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	c := cache.NewMemory()
	tr := tracker.New()
	rc := request.New(c, tr)
	vc := valhalla.New("", rc)

	return Handlers{
		Export:   NewExportHandler(150),
		Narrate:  NewNarrateHandler(narration.New(nil, "")),
		Enrich:   NewEnrichHandler(enrich.New(c, poi.NewStore(d), nil)),
		MapMatch: NewMapMatchHandler(vc),
		Health:   NewHealthHandler("development", c, d, vc),
		Stats:    NewStatsHandler(tr),
	}
}

func getPath(t *testing.T, mux http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRootInfo(t *testing.T) {
	mux := NewMux(testHandlers(t))

	rec := getPath(t, mux, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "GeoTruth API", body["name"])
	assert.Equal(t, version.Version, body["version"])
	assert.Equal(t, "/v1/health", body["health"])
}

func TestHealthDegradedReporting(t *testing.T) {
	mux := NewMux(testHandlers(t))

	rec := getPath(t, mux, "/v1/health")
	require.Equal(t, http.StatusOK, rec.Code, "health never fails the request")

	resp := decodeResponse[HealthResponse](t, rec)
	assert.Equal(t, "degraded", resp.Status, "no valhalla in tests")
	assert.Equal(t, "connected", resp.Services["database"])
	assert.Equal(t, "in-memory", resp.Services["redis"])
	assert.Equal(t, "unavailable", resp.Services["valhalla"])
	assert.Equal(t, "development", resp.Environment)
}

func TestStatsSnapshot(t *testing.T) {
	h := testHandlers(t)
	mux := NewMux(h)

	// Generate some cache traffic through enrichment.
	rec := postJSON(t, mux, "/v1/enrich", map[string]any{"lat": 1.0, "lon": 2.0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getPath(t, mux, "/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse[StatsResponse](t, rec)
	assert.NotNil(t, resp.Providers)
}

func TestMethodNotAllowed(t *testing.T) {
	mux := NewMux(testHandlers(t))

	rec := getPath(t, mux, "/v1/export/chapters")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	mux := cors(nil, NewMux(testHandlers(t)))

	req := httptest.NewRequest(http.MethodOptions, "/v1/enrich", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	mux := cors([]string{"https://app.example.com"}, NewMux(testHandlers(t)))

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
