package api

import (
	"errors"
	"fmt"
	"net/http"

	"geotruth/pkg/narration"
)

// NarrateHandler exposes narration generation.
type NarrateHandler struct {
	svc *narration.Service
}

// NewNarrateHandler creates a NarrateHandler.
func NewNarrateHandler(svc *narration.Service) *NarrateHandler {
	return &NarrateHandler{svc: svc}
}

// HandleGenerate handles POST /v1/narrate.
func (h *NarrateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req narration.Request
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		var genErr *narration.GenerationError
		switch {
		case errors.Is(err, narration.ErrResponseMalformed):
			serverError(w, "Failed to parse AI response")
		case errors.As(err, &genErr):
			serverError(w, fmt.Sprintf("AI generation failed: %v", genErr.Cause))
		case errors.Is(err, narration.ErrGenerationFailed):
			serverError(w, fmt.Sprintf("AI generation failed: %v", err))
		default:
			serverError(w, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleStatus handles GET /v1/narrate/status.
func (h *NarrateHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}
