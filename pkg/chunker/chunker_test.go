package chunker

import (
	"strings"
	"testing"
)

func TestChunkFlatText(t *testing.T) {
	c := New(800, 100)

	tests := []struct {
		name       string
		textLen    int
		wantChunks int
	}{
		{name: "shorter than chunk size", textLen: 500, wantChunks: 1},
		{name: "exactly chunk size", textLen: 800, wantChunks: 1},
		{name: "three chunks", textLen: 1700, wantChunks: 3},
		{name: "many chunks", textLen: 5000, wantChunks: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.textLen)
			chunks := c.Chunk(text, nil)

			if len(chunks) != tt.wantChunks {
				t.Fatalf("chunk count = %d, want %d", len(chunks), tt.wantChunks)
			}
			for i, ch := range chunks {
				if ch.Index != i {
					t.Errorf("chunk %d has index %d", i, ch.Index)
				}
				if len(ch.Text) > 800 {
					t.Errorf("chunk %d length %d exceeds 800", i, len(ch.Text))
				}
				if ch.StartTime != nil || ch.EndTime != nil || ch.Speaker != nil {
					t.Errorf("chunk %d carries timing metadata for flat text", i)
				}
			}
		})
	}
}

func TestChunkFlatTextOverlap(t *testing.T) {
	c := New(800, 100)

	// Distinct runes so overlapping regions can be compared byte for byte.
	var sb strings.Builder
	for i := 0; i < 1700; i++ {
		sb.WriteByte(byte('a' + i%26))
	}
	chunks := c.Chunk(sb.String(), nil)

	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}
	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i].Text[len(chunks[i].Text)-100:]
		head := chunks[i+1].Text[:100]
		if tail != head {
			t.Errorf("chunks %d and %d do not share a 100-char overlap", i, i+1)
		}
	}
}

func TestChunkDeterminism(t *testing.T) {
	c := New(800, 100)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 60)
	segments := []Segment{
		{Text: "hello there", StartTime: 0, EndTime: 2.5, Speaker: "A"},
		{Text: "general kenobi", StartTime: 2.5, EndTime: 5, Speaker: "B"},
	}

	first := c.Chunk(text, nil)
	second := c.Chunk(text, nil)
	if len(first) != len(second) {
		t.Fatalf("flat text chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("flat text chunk %d differs between runs", i)
		}
	}

	firstSeg := c.Chunk("", segments)
	secondSeg := c.Chunk("", segments)
	if len(firstSeg) != len(secondSeg) {
		t.Fatalf("segment chunk counts differ: %d vs %d", len(firstSeg), len(secondSeg))
	}
	for i := range firstSeg {
		if firstSeg[i].Text != secondSeg[i].Text {
			t.Errorf("segment chunk %d differs between runs", i)
		}
	}
}

func TestChunkSegmentsCarriesTiming(t *testing.T) {
	c := New(100, 20)
	segments := []Segment{
		{Text: strings.Repeat("a", 50), StartTime: 0, EndTime: 10, Speaker: "Alice"},
		{Text: strings.Repeat("b", 45), StartTime: 10, EndTime: 20, Speaker: "Alice"},
		{Text: strings.Repeat("c", 50), StartTime: 20, EndTime: 30, Speaker: "Bob"},
	}

	chunks := c.Chunk("", segments)
	if len(chunks) < 2 {
		t.Fatalf("chunk count = %d, want at least 2", len(chunks))
	}

	first := chunks[0]
	if first.StartTime == nil || *first.StartTime != 0 {
		t.Errorf("first chunk start = %v, want 0", first.StartTime)
	}
	if first.EndTime == nil || *first.EndTime != 20 {
		t.Errorf("first chunk end = %v, want 20", first.EndTime)
	}
	if first.Speaker == nil || *first.Speaker != "Alice" {
		t.Errorf("first chunk speaker = %v, want Alice", first.Speaker)
	}

	last := chunks[len(chunks)-1]
	if last.EndTime == nil || *last.EndTime != 30 {
		t.Errorf("last chunk end = %v, want 30", last.EndTime)
	}
}

func TestChunkSegmentsDominantSpeaker(t *testing.T) {
	c := New(200, 0)
	segments := []Segment{
		{Text: strings.Repeat("a", 30), StartTime: 0, EndTime: 5, Speaker: "Alice"},
		{Text: strings.Repeat("b", 90), StartTime: 5, EndTime: 15, Speaker: "Bob"},
		{Text: strings.Repeat("a", 30), StartTime: 15, EndTime: 20, Speaker: "Alice"},
	}

	chunks := c.Chunk("", segments)
	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
	if chunks[0].Speaker == nil || *chunks[0].Speaker != "Bob" {
		t.Errorf("speaker = %v, want Bob", chunks[0].Speaker)
	}
}

func TestChunkSegmentsOversizedSegment(t *testing.T) {
	c := New(100, 20)
	segments := []Segment{
		{Text: strings.Repeat("x", 300), StartTime: 0, EndTime: 60, Speaker: "Alice"},
		{Text: strings.Repeat("y", 40), StartTime: 60, EndTime: 70, Speaker: "Bob"},
	}

	chunks := c.Chunk("", segments)
	if len(chunks) != 2 {
		t.Fatalf("chunk count = %d, want 2", len(chunks))
	}
	if len(chunks[0].Text) != 300 {
		t.Errorf("oversized segment was split; len = %d", len(chunks[0].Text))
	}
}

func TestChunkEmptyInput(t *testing.T) {
	c := New(800, 100)
	if chunks := c.Chunk("", nil); chunks != nil {
		t.Errorf("empty input produced %d chunks", len(chunks))
	}
}
