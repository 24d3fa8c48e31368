package prompt

import (
	"fmt"
	"strings"

	"borrowed-brain-be/internal/constant"
	"borrowed-brain-be/internal/repository/contract"
)

// FormatTimestamp renders seconds as MM:SS, or H:MM:SS past the hour, matching
// the citation format the system prompt asks the model for.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// BuildSystemPrompt folds the retrieved chunks into the system instruction.
// Each excerpt is headed with the episode name and start timestamp so the
// model has everything it needs to emit [Episode Name @ MM:SS] citations.
func BuildSystemPrompt(chunks []*contract.ScoredTranscriptChunk) string {
	if len(chunks) == 0 {
		return fmt.Sprintf(constant.ChatSystemPromptV1, "(no excerpts matched this question)")
	}

	var sb strings.Builder
	for i, scored := range chunks {
		chunk := scored.Chunk
		if i > 0 {
			sb.WriteString("\n\n")
		}

		sb.WriteString(fmt.Sprintf("--- Excerpt %d ---\n", i+1))
		sb.WriteString("Episode: " + chunk.EpisodeName + "\n")
		if chunk.StartTime != nil {
			sb.WriteString("Timestamp: " + FormatTimestamp(*chunk.StartTime) + "\n")
		}
		if chunk.Speaker != nil && *chunk.Speaker != "" {
			sb.WriteString("Speaker: " + *chunk.Speaker + "\n")
		}
		sb.WriteString(chunk.Document)
	}

	return fmt.Sprintf(constant.ChatSystemPromptV1, sb.String())
}
