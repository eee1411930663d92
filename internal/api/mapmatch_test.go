package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotruth/pkg/cache"
	"geotruth/pkg/request"
	"geotruth/pkg/tracker"
	"geotruth/pkg/valhalla"
)

func mapMatchMux(upstream string) http.Handler {
	client := valhalla.New(upstream, request.New(cache.NewMemory(), tracker.New()))
	h := NewMapMatchHandler(client)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/map_match", h.Handle)
	return mux
}

func TestMapMatchCoordinateCount(t *testing.T) {
	mux := mapMatchMux("http://localhost:1")

	rec := postJSON(t, mux, "/v1/map_match", map[string]any{
		"coordinates": []map[string]float64{{"lat": 1, "lon": 2}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "At least 2 coordinates required for map matching", body["detail"])

	many := make([]map[string]float64, 1001)
	for i := range many {
		many[i] = map[string]float64{"lat": 1, "lon": 2}
	}
	rec = postJSON(t, mux, "/v1/map_match", map[string]any{"coordinates": many})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Maximum 1000 coordinates per request", body["detail"])
}

func TestMapMatchProxiesUpstream(t *testing.T) {
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"matched_points": [{"type": "matched", "lat": 1.0, "lon": 2.0, "edge_index": 0, "distance_from_trace_point": 0.5}],
			"edges": [],
			"shape": "poly"
		}`))
	}))
	defer svr.Close()

	rec := postJSON(t, mapMatchMux(svr.URL), "/v1/map_match", map[string]any{
		"coordinates": []map[string]float64{{"lat": 1, "lon": 2}, {"lat": 1.1, "lon": 2.1}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse[valhalla.MatchResult](t, rec)
	require.Len(t, resp.MatchedPoints, 1)
	assert.Equal(t, "poly", resp.Route)
}

func TestMapMatchDegradesWhenUnreachable(t *testing.T) {
	// Nothing listens on this port; the endpoint still answers 200 with an
	// empty result.
	rec := postJSON(t, mapMatchMux("http://127.0.0.1:1"), "/v1/map_match", map[string]any{
		"coordinates": []map[string]float64{{"lat": 1, "lon": 2}, {"lat": 1.1, "lon": 2.1}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	raw := decodeResponse[map[string]any](t, rec)
	assert.Empty(t, raw["matched_points"])
	assert.Empty(t, raw["edges"])
	assert.NotContains(t, raw, "route", "degraded result has no route")
}
