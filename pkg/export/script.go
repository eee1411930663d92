package export

import (
	"fmt"
	"strings"

	"geotruth/pkg/model"
	"geotruth/pkg/timecode"
)

// ScriptFormat selects the output rendering for a narration script.
type ScriptFormat string

const (
	ScriptTeleprompter ScriptFormat = "teleprompter"
	ScriptSRT          ScriptFormat = "srt"
	ScriptVTT          ScriptFormat = "vtt"
	ScriptMarkdown     ScriptFormat = "markdown"
)

// cueWordsPerSecond is the fixed speaking rate used for per-cue end times in
// VTT/SRT output (~150 wpm). It is deliberately independent of the
// caller-configured reading speed, which only drives EstimateDuration.
const cueWordsPerSecond = 2.5

// Reading-speed bounds in words per minute.
const (
	MinReadingSpeedWPM     = 100
	MaxReadingSpeedWPM     = 250
	DefaultReadingSpeedWPM = 150
)

// ParseScriptFormat validates a caller-supplied format selector.
// An empty string selects the teleprompter format.
func ParseScriptFormat(s string) (ScriptFormat, error) {
	switch ScriptFormat(s) {
	case ScriptTeleprompter, ScriptSRT, ScriptVTT, ScriptMarkdown:
		return ScriptFormat(s), nil
	case "":
		return ScriptTeleprompter, nil
	default:
		return "", fmt.Errorf("unsupported script format %q", s)
	}
}

// Filename returns the suggested download filename for the format.
func (f ScriptFormat) Filename() string {
	switch f {
	case ScriptSRT:
		return "script.srt"
	case ScriptVTT:
		return "script.vtt"
	case ScriptMarkdown:
		return "script.md"
	default:
		return "script_teleprompter.txt"
	}
}

// Script renders the segment list in the given format.
func Script(segments []model.ScriptSegment, format ScriptFormat) (string, error) {
	switch format {
	case ScriptTeleprompter:
		return teleprompterScript(segments), nil
	case ScriptVTT:
		return vttScript(segments)
	case ScriptSRT:
		return srtScript(segments)
	case ScriptMarkdown:
		return markdownScript(segments), nil
	default:
		return "", fmt.Errorf("unsupported script format %q", format)
	}
}

// EstimateDuration returns the estimated narration length in seconds for the
// whole script at the given reading speed. Zero narration text yields zero.
func EstimateDuration(segments []model.ScriptSegment, readingSpeedWPM int) float64 {
	totalWords := 0
	for _, seg := range segments {
		totalWords += len(strings.Fields(seg.Narration))
	}
	return float64(totalWords) / float64(readingSpeedWPM) * 60
}

func teleprompterScript(segments []model.ScriptSegment) string {
	var lines []string
	for _, seg := range segments {
		lines = append(lines, "["+seg.TimeCode+"]", "", seg.Narration, "", "---", "")
	}
	return strings.Join(lines, "\n")
}

func vttScript(segments []model.ScriptSegment) (string, error) {
	lines := []string{"WEBVTT", ""}

	for i, seg := range segments {
		startSecs, err := timecode.ParseSeconds(seg.TimeCode)
		if err != nil {
			return "", fmt.Errorf("segment %d: %w", i+1, err)
		}

		words := len(strings.Fields(seg.Narration))
		endSecs := startSecs + float64(words)/cueWordsPerSecond

		start := timecode.NormalizeStart(seg.TimeCode) + ".000"
		end := timecode.Format(endSecs) + ".000"

		lines = append(lines, fmt.Sprintf("%d", i+1))
		lines = append(lines, start+" --> "+end)
		lines = append(lines, seg.Narration)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n"), nil
}

// srtScript derives SRT from the VTT rendering: the header is stripped and
// every "." becomes ",". The blanket replacement also converts literal
// periods inside the narration text; downstream consumers depend on this, so
// it is preserved as-is rather than fixed.
func srtScript(segments []model.ScriptSegment) (string, error) {
	content, err := vttScript(segments)
	if err != nil {
		return "", err
	}
	content = strings.ReplaceAll(content, "WEBVTT\n\n", "")
	content = strings.ReplaceAll(content, ".", ",")
	return content, nil
}

func markdownScript(segments []model.ScriptSegment) string {
	lines := []string{"# Narration Script\n"}
	for _, seg := range segments {
		lines = append(lines, "## ["+seg.TimeCode+"]")
		lines = append(lines, "\n"+seg.Narration+"\n")
	}
	return strings.Join(lines, "\n")
}
