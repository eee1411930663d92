// Package export renders chapters and narration scripts into the text-based
// interchange formats consumed by YouTube, players, and editing tools.
// Every formatter is a pure function of its input: identical input yields
// byte-identical output.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"geotruth/pkg/model"
	"geotruth/pkg/timecode"
)

// ChapterFormat selects the output rendering for a chapter list.
type ChapterFormat string

const (
	ChaptersYouTube  ChapterFormat = "youtube"
	ChaptersMarkdown ChapterFormat = "markdown"
	ChaptersSRT      ChapterFormat = "srt"
	ChaptersJSON     ChapterFormat = "json"
)

// chapterSRTDuration is the synthetic per-chapter cue length; chapters carry
// no end time, so SRT output assumes a fixed 30 seconds.
const chapterSRTDuration = 30

// ParseChapterFormat validates a caller-supplied format selector.
// An empty string selects the YouTube format.
func ParseChapterFormat(s string) (ChapterFormat, error) {
	switch ChapterFormat(s) {
	case ChaptersYouTube, ChaptersMarkdown, ChaptersSRT, ChaptersJSON:
		return ChapterFormat(s), nil
	case "":
		return ChaptersYouTube, nil
	default:
		return "", fmt.Errorf("unsupported chapter format %q", s)
	}
}

// Filename returns the suggested download filename for the format.
func (f ChapterFormat) Filename() string {
	switch f {
	case ChaptersMarkdown:
		return "chapters.md"
	case ChaptersSRT:
		return "chapters.srt"
	case ChaptersJSON:
		return "chapters.json"
	default:
		return "chapters.txt"
	}
}

// Chapters renders the chapter list in the given format. Order is preserved;
// the empty-list case is the caller's responsibility to reject.
func Chapters(chapters []model.Chapter, format ChapterFormat) (string, error) {
	switch format {
	case ChaptersYouTube:
		return youtubeChapters(chapters), nil
	case ChaptersMarkdown:
		return markdownChapters(chapters), nil
	case ChaptersSRT:
		return srtChapters(chapters)
	case ChaptersJSON:
		return jsonChapters(chapters)
	default:
		return "", fmt.Errorf("unsupported chapter format %q", format)
	}
}

func youtubeChapters(chapters []model.Chapter) string {
	lines := []string{"Chapters:"}
	for _, ch := range chapters {
		lines = append(lines, ch.TimeCode+" "+ch.Title)
		if ch.Description != "" {
			lines = append(lines, "  "+ch.Description)
		}
	}
	return strings.Join(lines, "\n")
}

func markdownChapters(chapters []model.Chapter) string {
	lines := []string{"# Video Chapters\n"}
	for i, ch := range chapters {
		lines = append(lines, fmt.Sprintf("## %d. %s (%s)", i+1, ch.Title, ch.TimeCode))
		if ch.Description != "" {
			lines = append(lines, "\n"+ch.Description+"\n")
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func srtChapters(chapters []model.Chapter) (string, error) {
	var lines []string
	for i, ch := range chapters {
		startSecs, err := timecode.ParseSeconds(ch.TimeCode)
		if err != nil {
			return "", fmt.Errorf("chapter %d: %w", i+1, err)
		}
		start := timecode.Format(startSecs) + ",000"
		end := timecode.Format(startSecs+chapterSRTDuration) + ",000"

		lines = append(lines, fmt.Sprintf("%d", i+1))
		lines = append(lines, start+" --> "+end)
		lines = append(lines, ch.Title)
		if ch.Description != "" {
			lines = append(lines, ch.Description)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n"), nil
}

func jsonChapters(chapters []model.Chapter) (string, error) {
	data, err := json.MarshalIndent(chapters, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal chapters: %w", err)
	}
	return string(data), nil
}
