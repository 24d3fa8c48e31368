package prompt

import (
	"strings"
	"testing"

	"borrowed-brain-be/internal/entity"
	"borrowed-brain-be/internal/repository/contract"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{61.7, "01:01"},
		{754, "12:34"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-5, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	start := 90.0
	speaker := "Alice"
	chunks := []*contract.ScoredTranscriptChunk{
		{
			Chunk: &entity.TranscriptChunk{
				EpisodeName: "Deep Work Explained",
				Document:    "the key idea is focused attention",
				StartTime:   &start,
				Speaker:     &speaker,
			},
			Similarity: 0.9,
		},
		{
			Chunk: &entity.TranscriptChunk{
				EpisodeName: "Second Episode",
				Document:    "another passage",
			},
			Similarity: 0.8,
		},
	}

	out := BuildSystemPrompt(chunks)

	for _, want := range []string{
		"Episode: Deep Work Explained",
		"Timestamp: 01:30",
		"Speaker: Alice",
		"the key idea is focused attention",
		"Episode: Second Episode",
		"[Episode Name @ MM:SS]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(out, "Timestamp: 00:00\nanother passage") {
		t.Error("untimed chunk should not carry a timestamp line")
	}
}

func TestBuildSystemPromptEmpty(t *testing.T) {
	out := BuildSystemPrompt(nil)
	if !strings.Contains(out, "no excerpts matched") {
		t.Error("empty retrieval should still produce a grounded prompt")
	}
}
