package chunker

import "strings"

// Segment is one timed span from the transcript source (a catalog transcript
// cue or a speech-to-text utterance).
type Segment struct {
	Text      string
	StartTime float64
	EndTime   float64
	Speaker   string
}

// Chunk is the unit stored in the vector store. Timing and speaker are nil
// when the source provided flat text only.
type Chunk struct {
	Index     int
	Text      string
	StartTime *float64
	EndTime   *float64
	Speaker   *string
}

type Chunker struct {
	chunkSize int
	overlap   int
}

func New(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk is a pure function: the same text and segment list always produce the
// same boundaries, so a retried sync run re-upserts identical documents.
func (c *Chunker) Chunk(text string, segments []Segment) []Chunk {
	if len(segments) > 0 {
		return c.chunkSegments(segments)
	}
	return c.chunkText(text)
}

// chunkText slices flat text into runs of at most chunkSize runes, stepping
// by chunkSize-overlap so adjacent chunks share exactly overlap runes.
func (c *Chunker) chunkText(text string) []Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= c.chunkSize {
		return []Chunk{{Index: 0, Text: text}}
	}

	step := c.chunkSize - c.overlap
	if step <= 0 {
		step = c.chunkSize
	}

	var chunks []Chunk
	for i := 0; i < totalLen; i += step {
		end := i + c.chunkSize
		if end > totalLen {
			end = totalLen
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  string(runes[i:end]),
		})
		if end == totalLen {
			break
		}
	}
	return chunks
}

// chunkSegments accumulates whole segments until the character budget would be
// exceeded, closing each chunk at a segment boundary. The next chunk re-reads
// trailing segments until at least overlap characters are shared, always
// advancing by at least one segment.
func (c *Chunker) chunkSegments(segments []Segment) []Chunk {
	var chunks []Chunk

	start := 0
	for start < len(segments) {
		var sb strings.Builder
		end := start
		for end < len(segments) {
			segText := segments[end].Text
			if sb.Len() > 0 && sb.Len()+1+len(segText) > c.chunkSize {
				break
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(segText)
			end++
		}
		if end == start {
			// A single segment over budget still becomes one chunk.
			sb.WriteString(segments[start].Text)
			end = start + 1
		}

		chunkStart := segments[start].StartTime
		chunkEnd := segments[end-1].EndTime
		ch := Chunk{
			Index:     len(chunks),
			Text:      sb.String(),
			StartTime: &chunkStart,
			EndTime:   &chunkEnd,
		}
		if speaker := dominantSpeaker(segments[start:end]); speaker != "" {
			ch.Speaker = &speaker
		}
		chunks = append(chunks, ch)

		if end == len(segments) {
			break
		}
		start = c.nextStart(segments, start, end)
	}
	return chunks
}

// nextStart walks back from the chunk boundary until the carried-over tail
// reaches the overlap budget, never rewinding past start+1 so every chunk
// makes progress.
func (c *Chunker) nextStart(segments []Segment, start, end int) int {
	next := end
	carried := 0
	for next > start+1 && carried < c.overlap {
		carried += len(segments[next-1].Text)
		next--
	}
	return next
}

// dominantSpeaker picks the label covering the most characters of the chunk.
// First occurrence wins ties so the result is stable.
func dominantSpeaker(segments []Segment) string {
	weights := make(map[string]int)
	order := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Speaker == "" {
			continue
		}
		if _, seen := weights[seg.Speaker]; !seen {
			order = append(order, seg.Speaker)
		}
		weights[seg.Speaker] += len(seg.Text)
	}

	best := ""
	bestWeight := 0
	for _, speaker := range order {
		if weights[speaker] > bestWeight {
			best = speaker
			bestWeight = weights[speaker]
		}
	}
	return best
}
