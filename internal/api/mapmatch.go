package api

import (
	"log/slog"
	"net/http"

	"geotruth/pkg/model"
	"geotruth/pkg/valhalla"
)

const (
	minMatchCoordinates = 2
	maxMatchCoordinates = 1000
)

// MapMatchHandler snaps GPS traces to the road network.
type MapMatchHandler struct {
	client *valhalla.Client
}

// NewMapMatchHandler creates a MapMatchHandler.
func NewMapMatchHandler(client *valhalla.Client) *MapMatchHandler {
	return &MapMatchHandler{client: client}
}

// MapMatchRequest is the body of POST /v1/map_match.
type MapMatchRequest struct {
	Coordinates []model.TimestampedCoordinates `json:"coordinates"`
	Costing     string                         `json:"costing"`
	ShapeMatch  string                         `json:"shape_match"`
}

// Handle handles POST /v1/map_match.
func (h *MapMatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req MapMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Coordinates) < minMatchCoordinates {
		clientError(w, "At least 2 coordinates required for map matching")
		return
	}
	if len(req.Coordinates) > maxMatchCoordinates {
		clientError(w, "Maximum 1000 coordinates per request")
		return
	}

	slog.Info("Map matching requested", "point_count", len(req.Coordinates))

	res, err := h.client.TraceAttributes(r.Context(), req.Coordinates, req.Costing, req.ShapeMatch)
	if err != nil {
		serverError(w, err.Error())
		return
	}

	slog.Info("Map matching completed", "matched_points", len(res.MatchedPoints), "edges", len(res.Edges))
	writeJSON(w, http.StatusOK, res)
}
