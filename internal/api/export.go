package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"geotruth/pkg/export"
	"geotruth/pkg/model"
)

// ExportHandler renders chapters and scripts into downloadable formats.
type ExportHandler struct {
	defaultWPM int
}

// NewExportHandler creates an ExportHandler. defaultWPM is the reading speed
// used when the request does not carry one.
func NewExportHandler(defaultWPM int) *ExportHandler {
	if defaultWPM <= 0 {
		defaultWPM = export.DefaultReadingSpeedWPM
	}
	return &ExportHandler{defaultWPM: defaultWPM}
}

// ChaptersRequest is the body of POST /v1/export/chapters.
type ChaptersRequest struct {
	Chapters          []model.Chapter `json:"chapters"`
	Format            string          `json:"format"`
	IncludeTimestamps bool            `json:"include_timestamps"`
}

// ChaptersResponse is the rendered chapter list.
type ChaptersResponse struct {
	Format   string `json:"format"`
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// HandleChapters handles POST /v1/export/chapters.
func (h *ExportHandler) HandleChapters(w http.ResponseWriter, r *http.Request) {
	var req ChaptersRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Chapters) == 0 {
		clientError(w, "No chapters provided")
		return
	}

	format, err := export.ParseChapterFormat(req.Format)
	if err != nil {
		clientError(w, err.Error())
		return
	}

	content, err := export.Chapters(req.Chapters, format)
	if err != nil {
		clientError(w, err.Error())
		return
	}

	slog.Info("Chapters exported", "format", format, "count", len(req.Chapters))

	writeJSON(w, http.StatusOK, ChaptersResponse{
		Format:   string(format),
		Content:  content,
		Filename: format.Filename(),
	})
}

// ScriptRequest is the body of POST /v1/export/script.
type ScriptRequest struct {
	Segments        []model.ScriptSegment `json:"segments"`
	Format          string                `json:"format"`
	ReadingSpeedWPM int                   `json:"reading_speed_wpm"`
}

// ScriptResponse is the rendered script.
type ScriptResponse struct {
	Format                   string  `json:"format"`
	Content                  string  `json:"content"`
	Filename                 string  `json:"filename"`
	EstimatedDurationSeconds float64 `json:"estimated_duration_seconds"`
}

// HandleScript handles POST /v1/export/script.
func (h *ExportHandler) HandleScript(w http.ResponseWriter, r *http.Request) {
	var req ScriptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Segments) == 0 {
		clientError(w, "No script segments provided")
		return
	}

	wpm := req.ReadingSpeedWPM
	if wpm == 0 {
		wpm = h.defaultWPM
	}
	if wpm < export.MinReadingSpeedWPM || wpm > export.MaxReadingSpeedWPM {
		clientError(w, fmt.Sprintf("reading_speed_wpm must be between %d and %d",
			export.MinReadingSpeedWPM, export.MaxReadingSpeedWPM))
		return
	}

	format, err := export.ParseScriptFormat(req.Format)
	if err != nil {
		clientError(w, err.Error())
		return
	}

	content, err := export.Script(req.Segments, format)
	if err != nil {
		clientError(w, err.Error())
		return
	}

	slog.Info("Script exported", "format", format, "segments", len(req.Segments))

	writeJSON(w, http.StatusOK, ScriptResponse{
		Format:                   string(format),
		Content:                  content,
		Filename:                 format.Filename(),
		EstimatedDurationSeconds: export.EstimateDuration(req.Segments, wpm),
	})
}

// ProjectRequest is the body of POST /v1/export/project.
type ProjectRequest struct {
	ProjectID          string `json:"project_id"`
	IncludeChapters    bool   `json:"include_chapters"`
	IncludeScript      bool   `json:"include_script"`
	IncludeTruthBundle bool   `json:"include_truth_bundle"`
	Format             string `json:"format"`
}

// HandleProject handles POST /v1/export/project. Full project bundling is
// not implemented; the endpoint acknowledges the request so clients can poll.
func (h *ExportHandler) HandleProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ProjectID == "" {
		clientError(w, "project_id is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "pending",
		"message":    "Project export queued",
		"project_id": req.ProjectID,
	})
}
