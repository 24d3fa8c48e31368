package catalog

import (
	"encoding/json"
	"strings"
)

type jsonTranscript struct {
	Segments []TimedSegment `json:"segments"`
}

// parseTranscript handles the JSON transcript format (timed segments) and
// falls back to treating the payload as flat text.
func parseTranscript(body []byte) *Transcript {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return &Transcript{Status: TranscriptStatusMissing}
	}

	if strings.HasPrefix(trimmed, "{") {
		var parsed jsonTranscript
		if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Segments) > 0 {
			var sb strings.Builder
			for i, seg := range parsed.Segments {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(seg.Text)
			}
			return &Transcript{
				Status:   TranscriptStatusComplete,
				Text:     sb.String(),
				Segments: parsed.Segments,
			}
		}
	}

	return &Transcript{
		Status: TranscriptStatusComplete,
		Text:   trimmed,
	}
}
