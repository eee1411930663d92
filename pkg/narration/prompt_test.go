package narration

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"geotruth/pkg/model"
)

func eventAt(hour, minute, second int, pois ...string) model.TruthEvent {
	ev := model.TruthEvent{
		Timestamp: time.Date(2024, 6, 1, hour, minute, second, 0, time.UTC),
		Location:  model.LocationResult{Lat: 47.3769, Lon: 8.5417},
	}
	for _, name := range pois {
		ev.POIs = append(ev.POIs, model.POI{Name: name})
	}
	return ev
}

func TestBuildPromptEventLines(t *testing.T) {
	bundle := model.TruthBundle{Events: []model.TruthEvent{
		eventAt(14, 30, 5, "Grossmünster", "Fraumünster", "St. Peter", "Lindenhof"),
		eventAt(14, 35, 0),
	}}

	prompt := BuildPrompt(bundle, "")

	// Only the first three landmark names appear.
	assert.Contains(t, prompt, "- At 14:30:05: Grossmünster, Fraumünster, St. Peter (location: 47.3769, 8.5417)")
	assert.NotContains(t, prompt, "Lindenhof")

	// Events without landmarks get the sentinel.
	assert.Contains(t, prompt, "- At 14:35:00: No landmarks (location: 47.3769, 8.5417)")

	assert.NotContains(t, prompt, "## Existing Audio Transcript")
	assert.Contains(t, prompt, "Return ONLY valid JSON, no markdown formatting.")
}

func TestBuildPromptCapsEvents(t *testing.T) {
	var events []model.TruthEvent
	for i := 0; i < 30; i++ {
		events = append(events, eventAt(10, 0, i))
	}
	prompt := BuildPrompt(model.TruthBundle{Events: events}, "")

	assert.Equal(t, 20, strings.Count(prompt, "- At "))
	assert.NotContains(t, prompt, "10:00:20", "event 21 must be dropped")
}

func TestBuildPromptEmptyBundle(t *testing.T) {
	prompt := BuildPrompt(model.TruthBundle{}, "")
	assert.Contains(t, prompt, "No events recorded")
}

func TestBuildPromptTranscriptTruncated(t *testing.T) {
	long := strings.Repeat("x", 2500)
	prompt := BuildPrompt(model.TruthBundle{}, long)

	assert.Contains(t, prompt, "## Existing Audio Transcript")
	assert.Contains(t, prompt, strings.Repeat("x", 2000))
	assert.NotContains(t, prompt, strings.Repeat("x", 2001))
}

func TestBuildPromptDeterministic(t *testing.T) {
	bundle := model.TruthBundle{Events: []model.TruthEvent{eventAt(9, 0, 0, "Tower")}}
	first := BuildPrompt(bundle, "hello")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, BuildPrompt(bundle, "hello"), fmt.Sprintf("render %d", i))
	}
}
