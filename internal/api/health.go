package api

import (
	"context"
	"net/http"
	"time"

	"geotruth/pkg/cache"
	"geotruth/pkg/db"
	"geotruth/pkg/probe"
	"geotruth/pkg/valhalla"
	"geotruth/pkg/version"
)

// HealthHandler reports service and dependency status. Failures never take
// the endpoint down; they show up as "unavailable" in the body.
type HealthHandler struct {
	environment string
	cache       cache.Cacher
	db          *db.DB
	valhalla    *valhalla.Client
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(environment string, c cache.Cacher, d *db.DB, v *valhalla.Client) *HealthHandler {
	return &HealthHandler{environment: environment, cache: c, db: d, valhalla: v}
}

// HealthResponse is the body of GET /v1/health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Services    map[string]string `json:"services"`
}

// Handle handles GET /v1/health.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	services := map[string]string{
		"database": "unavailable",
		"redis":    "unavailable",
		"valhalla": "unavailable",
	}

	if h.db != nil && h.db.PingContext(ctx) == nil {
		services["database"] = "connected"
	}
	if p, ok := h.cache.(probe.Pinger); ok {
		if p.Ping(ctx) == nil {
			services["redis"] = "connected"
		}
	} else if h.cache != nil {
		services["redis"] = "in-memory"
	}
	if h.valhalla != nil && h.valhalla.Ping(ctx) == nil {
		services["valhalla"] = "connected"
	}

	status := "healthy"
	for _, s := range services {
		if s == "unavailable" {
			status = "degraded"
			break
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      status,
		Version:     version.Version,
		Environment: h.environment,
		Services:    services,
	})
}
