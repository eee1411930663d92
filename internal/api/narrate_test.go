package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotruth/pkg/llm"
	"geotruth/pkg/narration"
)

// erringProvider fails every call with a fixed error.
type erringProvider struct{ err error }

func (p *erringProvider) GenerateText(ctx context.Context, name, prompt string) (string, error) {
	return "", p.err
}

func (p *erringProvider) GenerateJSON(ctx context.Context, name, prompt string, target any) error {
	return p.err
}

func (p *erringProvider) HealthCheck(ctx context.Context) error { return p.err }

func narrateMux(svc *narration.Service) http.Handler {
	h := NewNarrateHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/narrate", h.HandleGenerate)
	mux.HandleFunc("GET /v1/narrate/status", h.HandleStatus)
	return mux
}

func TestNarratePlaceholder(t *testing.T) {
	mux := narrateMux(narration.New(nil, ""))

	rec := postJSON(t, mux, "/v1/narrate", map[string]any{
		"truth_bundle": map[string]any{"events": []any{}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse[narration.Result](t, rec)
	require.Len(t, resp.Chapters, 2)
	assert.Equal(t, "Journey Begins", resp.Chapters[0].Title)
	assert.Equal(t, "placeholder", resp.Meta["engine"])
}

func TestNarrateGenerationFailureDetail(t *testing.T) {
	provider := &erringProvider{err: errors.New("quota exceeded")}
	mux := narrateMux(narration.New(provider, "gemini-2.0-flash"))

	rec := postJSON(t, mux, "/v1/narrate", map[string]any{
		"truth_bundle": map[string]any{"events": []any{}},
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// The detail carries the upstream failure text, not internal wrapping.
	body := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "AI generation failed: quota exceeded", body["detail"])
}

func TestNarrateMalformedResponseDetail(t *testing.T) {
	provider := &erringProvider{err: fmt.Errorf("%w: invalid character 'h'", llm.ErrMalformedJSON)}
	mux := narrateMux(narration.New(provider, "gemini-2.0-flash"))

	rec := postJSON(t, mux, "/v1/narrate", map[string]any{
		"truth_bundle": map[string]any{"events": []any{}},
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeResponse[map[string]string](t, rec)
	assert.Equal(t, "Failed to parse AI response", body["detail"])
}

func TestNarrateStatusOffline(t *testing.T) {
	mux := narrateMux(narration.New(nil, ""))

	req := httptest.NewRequest(http.MethodGet, "/v1/narrate/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	status := decodeResponse[narration.StatusInfo](t, rec)
	assert.False(t, status.OnlineAvailable)
	assert.False(t, status.OfflineAvailable)
	assert.Nil(t, status.Engine)
}

func TestNarrateBadBody(t *testing.T) {
	mux := narrateMux(narration.New(nil, ""))

	req := httptest.NewRequest(http.MethodPost, "/v1/narrate", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
