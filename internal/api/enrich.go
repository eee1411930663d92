package api

import (
	"log/slog"
	"net/http"

	"geotruth/pkg/enrich"
)

const maxBatchPoints = 100

// EnrichHandler exposes geospatial enrichment.
type EnrichHandler struct {
	svc *enrich.Service
}

// NewEnrichHandler creates an EnrichHandler.
func NewEnrichHandler(svc *enrich.Service) *EnrichHandler {
	return &EnrichHandler{svc: svc}
}

// HandlePoint handles POST /v1/enrich.
func (h *EnrichHandler) HandlePoint(w http.ResponseWriter, r *http.Request) {
	var req enrich.Request
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Point(r.Context(), req)
	if err != nil {
		serverError(w, err.Error())
		return
	}

	slog.Info("Enrichment completed", "lat", req.Lat, "lon", req.Lon, "pois_found", len(resp.POIs))
	writeJSON(w, http.StatusOK, resp)
}

// BatchRequest is the body of POST /v1/enrich_batch.
type BatchRequest struct {
	Points  []enrich.Request `json:"points"`
	Options map[string]any   `json:"options,omitempty"`
}

// BatchResponse carries batch results plus accounting metadata.
type BatchResponse struct {
	Results []enrich.Response `json:"results"`
	Meta    map[string]any    `json:"meta"`
}

// HandleBatch handles POST /v1/enrich_batch.
func (h *EnrichHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Points) > maxBatchPoints {
		clientError(w, "Maximum 100 points per batch request")
		return
	}

	res, err := h.svc.Batch(r.Context(), req.Points)
	if err != nil {
		serverError(w, err.Error())
		return
	}

	slog.Info("Batch enrichment completed", "point_count", res.TotalPoints, "cache_hits", res.CacheHits)

	writeJSON(w, http.StatusOK, BatchResponse{
		Results: res.Results,
		Meta: map[string]any{
			"total_points": res.TotalPoints,
			"cache_hits":   res.CacheHits,
		},
	})
}
