package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geotruth/pkg/model"
)

func TestParseChapterFormat(t *testing.T) {
	f, err := ParseChapterFormat("")
	require.NoError(t, err)
	assert.Equal(t, ChaptersYouTube, f, "empty selector defaults to youtube")

	for _, s := range []string{"youtube", "markdown", "srt", "json"} {
		_, err := ParseChapterFormat(s)
		assert.NoError(t, err, s)
	}

	_, err = ParseChapterFormat("pdf")
	assert.Error(t, err)
}

func TestYouTubeChapters(t *testing.T) {
	out, err := Chapters([]model.Chapter{{TimeCode: "00:00", Title: "Intro"}}, ChaptersYouTube)
	require.NoError(t, err)
	assert.Equal(t, "Chapters:\n00:00 Intro", out)
}

func TestYouTubeChaptersWithDescriptions(t *testing.T) {
	chapters := []model.Chapter{
		{TimeCode: "00:00", Title: "Intro", Description: "Setting off"},
		{TimeCode: "05:30", Title: "The Old Town"},
	}
	out, err := Chapters(chapters, ChaptersYouTube)
	require.NoError(t, err)
	assert.Equal(t, "Chapters:\n00:00 Intro\n  Setting off\n05:30 The Old Town", out)
}

func TestMarkdownChapters(t *testing.T) {
	chapters := []model.Chapter{
		{TimeCode: "00:00", Title: "Intro", Description: "Setting off"},
		{TimeCode: "12:00", Title: "Harbor"},
	}
	out, err := Chapters(chapters, ChaptersMarkdown)
	require.NoError(t, err)

	assert.Equal(t, "# Video Chapters\n\n## 1. Intro (00:00)\n\nSetting off\n\n\n## 2. Harbor (12:00)\n", out)
}

func TestSRTChapters(t *testing.T) {
	chapters := []model.Chapter{
		{TimeCode: "00:00", Title: "Intro", Description: "Setting off"},
		{TimeCode: "01:02:03", Title: "Summit"},
	}
	out, err := Chapters(chapters, ChaptersSRT)
	require.NoError(t, err)

	expected := "1\n" +
		"00:00:00,000 --> 00:00:30,000\n" +
		"Intro\n" +
		"Setting off\n" +
		"\n" +
		"2\n" +
		"01:02:03,000 --> 01:02:33,000\n" +
		"Summit\n"
	assert.Equal(t, expected, out)
}

func TestSRTChaptersMalformedTimeCode(t *testing.T) {
	_, err := Chapters([]model.Chapter{{TimeCode: "abc", Title: "Broken"}}, ChaptersSRT)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time code")
}

func TestJSONChapters(t *testing.T) {
	chapters := []model.Chapter{{TimeCode: "00:00", Title: "Intro"}}
	out, err := Chapters(chapters, ChaptersJSON)
	require.NoError(t, err)

	var decoded []model.Chapter
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, chapters, decoded)
	assert.Contains(t, out, "\n  ", "output is indented")
	assert.NotContains(t, out, "description", "unset description is omitted")
}

// Formatters are pure: two renders of the same input are byte-identical.
func TestChapterFormattersDeterministic(t *testing.T) {
	chapters := []model.Chapter{
		{TimeCode: "00:00", Title: "Intro", Description: "Setting off"},
		{TimeCode: "10:00", Title: "Arrival"},
	}
	for _, format := range []ChapterFormat{ChaptersYouTube, ChaptersMarkdown, ChaptersSRT, ChaptersJSON} {
		a, err := Chapters(chapters, format)
		require.NoError(t, err)
		b, err := Chapters(chapters, format)
		require.NoError(t, err)
		assert.Equal(t, a, b, "format %s", format)
	}
}

// Chapters render in the order supplied, never re-sorted.
func TestChaptersPreserveOrder(t *testing.T) {
	chapters := []model.Chapter{
		{TimeCode: "10:00", Title: "Later"},
		{TimeCode: "00:00", Title: "Earlier"},
	}
	out, err := Chapters(chapters, ChaptersYouTube)
	require.NoError(t, err)
	assert.Equal(t, "Chapters:\n10:00 Later\n00:00 Earlier", out)
}

func TestChapterFilenames(t *testing.T) {
	assert.Equal(t, "chapters.txt", ChaptersYouTube.Filename())
	assert.Equal(t, "chapters.md", ChaptersMarkdown.Filename())
	assert.Equal(t, "chapters.srt", ChaptersSRT.Filename())
	assert.Equal(t, "chapters.json", ChaptersJSON.Filename())
}
