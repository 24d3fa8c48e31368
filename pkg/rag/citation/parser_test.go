package citation

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []Marker
	}{
		{
			name:  "no markers",
			reply: "I could not find that in the transcripts.",
			want:  nil,
		},
		{
			name:  "single marker",
			reply: "Focus matters [Deep Work Explained @ 12:34] according to the host.",
			want:  []Marker{{EpisodeName: "Deep Work Explained", Seconds: 754}},
		},
		{
			name:  "hour-long timestamp",
			reply: "Late in the show [Marathon Episode @ 1:02:05] they revisit it.",
			want:  []Marker{{EpisodeName: "Marathon Episode", Seconds: 3725}},
		},
		{
			name:  "multiple markers in order",
			reply: "First [Ep One @ 00:30], then [Ep Two @ 05:00].",
			want: []Marker{
				{EpisodeName: "Ep One", Seconds: 30},
				{EpisodeName: "Ep Two", Seconds: 300},
			},
		},
		{
			name:  "duplicate marker collapses",
			reply: "[Ep One @ 00:30] and again [Ep One @ 00:30].",
			want:  []Marker{{EpisodeName: "Ep One", Seconds: 30}},
		},
		{
			name:  "same episode different timestamps",
			reply: "[Ep One @ 00:30] and later [Ep One @ 10:00].",
			want: []Marker{
				{EpisodeName: "Ep One", Seconds: 30},
				{EpisodeName: "Ep One", Seconds: 600},
			},
		},
		{
			name:  "plain brackets are not citations",
			reply: "Lists [like this] are ignored, [so is @ this].",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.reply)

			if len(got) != len(tt.want) {
				t.Fatalf("marker count = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("marker %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
