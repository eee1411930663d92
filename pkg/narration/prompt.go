package narration

import (
	"fmt"
	"strings"

	"geotruth/pkg/model"
)

const (
	maxPromptEvents     = 20
	maxPromptPOIs       = 3
	maxTranscriptRunes  = 2000
	promptInstructions  = `## Output Requirements
Generate a JSON response with this EXACT structure:
{
  "chapters": [
    {
      "time_code": "MM:SS",
      "title": "Chapter Title",
      "description": "Brief description"
    }
  ],
  "script": [
    {
      "time_code": "MM:SS",
      "narration": "Narration text to speak"
    }
  ]
}

Important:
- Each chapter should be 2-5 minutes apart
- Narration should be conversational and engaging
- Only include verifiable facts from the provided data
- Generate 3-5 chapters minimum

Return ONLY valid JSON, no markdown formatting.`
	promptPreamble = `You are a travel documentary narrator creating engaging, fact-checked content.

## Video Context
This is travel footage with verified GPS and location data. Generate narration that:
1. Only mentions facts that can be verified from the provided data
2. Is engaging and suitable for a travel vlog
3. Follows a natural storytelling flow`
)

// BuildPrompt renders the generation prompt from a verified truth bundle.
// Only the first 20 events and the first 3 landmark names per event make it
// into the prompt; anything more dilutes the model without adding facts.
func BuildPrompt(bundle model.TruthBundle, transcript string) string {
	events := bundle.Events
	if len(events) > maxPromptEvents {
		events = events[:maxPromptEvents]
	}

	var lines []string
	for _, ev := range events {
		pois := "No landmarks"
		if len(ev.POIs) > 0 {
			names := make([]string, 0, maxPromptPOIs)
			for _, p := range ev.POIs {
				names = append(names, p.Name)
				if len(names) == maxPromptPOIs {
					break
				}
			}
			pois = strings.Join(names, ", ")
		}
		lines = append(lines, fmt.Sprintf("- At %s: %s (location: %.4f, %.4f)",
			ev.Timestamp.Format("15:04:05"), pois, ev.Location.Lat, ev.Location.Lon))
	}

	eventsText := strings.Join(lines, "\n")
	if eventsText == "" {
		eventsText = "No events recorded"
	}

	transcriptSection := ""
	if transcript != "" {
		runes := []rune(transcript)
		if len(runes) > maxTranscriptRunes {
			runes = runes[:maxTranscriptRunes]
		}
		transcriptSection = fmt.Sprintf("\n## Existing Audio Transcript\n%s\n", string(runes))
	}

	return fmt.Sprintf("%s\n\n## Verified Events and Locations\n%s\n%s\n%s",
		promptPreamble, eventsText, transcriptSection, promptInstructions)
}
