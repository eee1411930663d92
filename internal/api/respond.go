package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorBody is the JSON error shape for all failed requests.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// clientError rejects a request with 400 and a JSON detail message.
func clientError(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Detail: detail})
}

// serverError reports a 500 with a JSON detail message.
func serverError(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusInternalServerError, errorBody{Detail: detail})
}

// decodeBody parses a JSON request body into dst, rejecting the request on
// malformed input. Returns false when the response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		clientError(w, "invalid request body")
		return false
	}
	return true
}
