package citation

import (
	"regexp"
	"strconv"
	"strings"
)

// Marker is one [Episode Name @ MM:SS] reference parsed out of a model reply.
type Marker struct {
	EpisodeName string
	Seconds     float64
}

// Matches [Episode Name @ MM:SS] and [Episode Name @ H:MM:SS].
var markerPattern = regexp.MustCompile(`\[([^\[\]@]+?)\s*@\s*(?:(\d{1,2}):)?(\d{1,2}):(\d{2})\]`)

// Parse extracts citation markers from a reply, in order of first appearance.
// Repeats of the same episode and timestamp collapse to one marker.
func Parse(reply string) []Marker {
	matches := markerPattern.FindAllStringSubmatch(reply, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var markers []Marker
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}

		hours := 0
		if m[2] != "" {
			hours, _ = strconv.Atoi(m[2])
		}
		minutes, _ := strconv.Atoi(m[3])
		seconds, _ := strconv.Atoi(m[4])
		total := float64(hours*3600 + minutes*60 + seconds)

		key := name + "@" + m[2] + ":" + m[3] + ":" + m[4]
		if seen[key] {
			continue
		}
		seen[key] = true
		markers = append(markers, Marker{EpisodeName: name, Seconds: total})
	}
	return markers
}
