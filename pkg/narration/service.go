// Package narration turns a verified truth bundle into chapters and a spoken
// script, using an LLM when one is configured and a deterministic placeholder
// otherwise.
package narration

import (
	"context"
	"errors"
	"log/slog"

	"geotruth/pkg/llm"
	"geotruth/pkg/model"
)

// ErrResponseMalformed indicates the model answered but not with usable JSON.
var ErrResponseMalformed = errors.New("failed to parse AI response")

// ErrGenerationFailed indicates the upstream generation call itself failed.
var ErrGenerationFailed = errors.New("generation failed")

// GenerationError carries the upstream cause of a failed generation call so
// the API layer can surface the original failure text.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return ErrGenerationFailed.Error() + ": " + e.Cause.Error()
}

func (e *GenerationError) Unwrap() error { return ErrGenerationFailed }

// Request is the input to narration generation.
type Request struct {
	TruthBundle model.TruthBundle `json:"truth_bundle"`
	Transcript  string            `json:"transcript,omitempty"`
	Options     map[string]any    `json:"options,omitempty"`
}

// Result is the generated narration.
type Result struct {
	Chapters []model.Chapter `json:"chapters"`
	Script   map[string]any  `json:"script"`
	Meta     map[string]any  `json:"meta"`
}

// StatusInfo reports the availability of the generation engines.
type StatusInfo struct {
	OnlineAvailable  bool    `json:"online_available"`
	OfflineAvailable bool    `json:"offline_available"`
	Engine           *string `json:"engine"`
}

// Service generates narration. provider may be nil when no credential is
// configured; generation then falls back to the placeholder.
type Service struct {
	provider llm.Provider
	engine   string
}

// New creates a Service. engine names the model for response metadata.
func New(provider llm.Provider, engine string) *Service {
	return &Service{provider: provider, engine: engine}
}

// rawResponse mirrors the JSON structure the prompt demands. Chapter fields
// are defaulted, the script is passed through mostly unvalidated.
type rawResponse struct {
	Chapters []map[string]any `json:"chapters"`
	Script   []map[string]any `json:"script"`
}

// Generate produces narration for a truth bundle. Without a provider it
// returns a deterministic placeholder so the endpoint keeps working in
// degraded mode. Generation is a single attempt; no retries.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if s.provider == nil {
		slog.Warn("No generation credential configured, returning placeholder narration")
		return Result{
			Chapters: []model.Chapter{
				{TimeCode: "00:00", Title: "Journey Begins", Description: "Starting our adventure"},
				{TimeCode: "05:00", Title: "Main Destination", Description: "Arriving at the main location"},
			},
			Script: nil,
			Meta:   map[string]any{"engine": "placeholder", "reason": "GEMINI_API_KEY not configured"},
		}, nil
	}

	prompt := BuildPrompt(req.TruthBundle, req.Transcript)

	var raw rawResponse
	if err := s.provider.GenerateJSON(ctx, "narration", prompt, &raw); err != nil {
		// A reply that arrived but did not parse is a different failure from
		// the call never succeeding; callers map them to different messages.
		if errors.Is(err, llm.ErrMalformedJSON) {
			slog.Error("Unparseable narration response", "error", err)
			return Result{}, ErrResponseMalformed
		}
		slog.Error("Narration generation failed", "error", err)
		return Result{}, &GenerationError{Cause: err}
	}

	chapters := make([]model.Chapter, 0, len(raw.Chapters))
	for _, ch := range raw.Chapters {
		c := model.Chapter{TimeCode: "00:00", Title: "Chapter"}
		if tc, ok := ch["time_code"].(string); ok && tc != "" {
			c.TimeCode = tc
		}
		if title, ok := ch["title"].(string); ok && title != "" {
			c.Title = title
		}
		if desc, ok := ch["description"].(string); ok {
			c.Description = desc
		}
		chapters = append(chapters, c)
	}

	script := raw.Script
	if script == nil {
		script = []map[string]any{}
	}

	slog.Info("Narration generated", "chapters", len(chapters), "script_segments", len(script))

	return Result{
		Chapters: chapters,
		Script:   map[string]any{"segments": script},
		Meta:     map[string]any{"engine": s.engine},
	}, nil
}

// Status reports whether online generation is configured.
func (s *Service) Status() StatusInfo {
	info := StatusInfo{OfflineAvailable: false}
	if s.provider != nil {
		info.OnlineAvailable = true
		engine := s.engine
		info.Engine = &engine
	}
	return info
}
