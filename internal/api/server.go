// Package api wires the HTTP surface of the GeoTruth service.
package api

import (
	"net/http"
	"time"

	"geotruth/pkg/version"
)

// Handlers bundles the endpoint handlers for server construction.
type Handlers struct {
	Export   *ExportHandler
	Narrate  *NarrateHandler
	Enrich   *EnrichHandler
	MapMatch *MapMatchHandler
	Health   *HealthHandler
	Stats    *StatsHandler
}

// NewServer creates and configures the HTTP server.
func NewServer(addr string, h Handlers, allowedOrigins []string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      cors(allowedOrigins, requestLogging(NewMux(h))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux builds the route table without middleware; tests use it directly.
func NewMux(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Export Endpoints
	mux.HandleFunc("POST /v1/export/chapters", h.Export.HandleChapters)
	mux.HandleFunc("POST /v1/export/script", h.Export.HandleScript)
	mux.HandleFunc("POST /v1/export/project", h.Export.HandleProject)

	// Narration Endpoints
	mux.HandleFunc("POST /v1/narrate", h.Narrate.HandleGenerate)
	mux.HandleFunc("GET /v1/narrate/status", h.Narrate.HandleStatus)

	// Enrichment Endpoints
	mux.HandleFunc("POST /v1/enrich", h.Enrich.HandlePoint)
	mux.HandleFunc("POST /v1/enrich_batch", h.Enrich.HandleBatch)

	// Map Matching Endpoint
	mux.HandleFunc("POST /v1/map_match", h.MapMatch.Handle)

	// Service Endpoints
	mux.HandleFunc("GET /v1/health", h.Health.Handle)
	mux.Handle("GET /v1/stats", h.Stats)
	mux.HandleFunc("GET /{$}", handleRoot)

	return mux
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "GeoTruth API",
		"version": version.Version,
		"docs":    "/v1",
		"health":  "/v1/health",
	})
}
