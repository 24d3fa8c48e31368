package catalog

import "testing"

func TestParseTranscript(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStatus   string
		wantSegments int
		wantText     string
	}{
		{
			name:       "empty body",
			body:       "   ",
			wantStatus: TranscriptStatusMissing,
		},
		{
			name:         "timed segments",
			body:         `{"version":"1.0.0","segments":[{"speaker":"Alice","startTime":0.5,"endTime":2,"body":"hello"},{"speaker":"Bob","startTime":2,"endTime":4,"body":"world"}]}`,
			wantStatus:   TranscriptStatusComplete,
			wantSegments: 2,
			wantText:     "hello world",
		},
		{
			name:       "flat text",
			body:       "just a plain transcript",
			wantStatus: TranscriptStatusComplete,
			wantText:   "just a plain transcript",
		},
		{
			name:       "json without segments",
			body:       `{"something":"else"}`,
			wantStatus: TranscriptStatusComplete,
			wantText:   `{"something":"else"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTranscript([]byte(tt.body))

			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if len(got.Segments) != tt.wantSegments {
				t.Errorf("segments = %d, want %d", len(got.Segments), tt.wantSegments)
			}
			if got.Text != tt.wantText {
				t.Errorf("text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}
