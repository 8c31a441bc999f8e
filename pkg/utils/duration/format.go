// ABOUTME: Duration helpers for reading-time estimates
// ABOUTME: Converts word counts at a speaking rate into a listening time and formats it for people

package duration

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultWordsPerMinute is the speaking rate assumed when none is configured
const DefaultWordsPerMinute = 150

// ListeningTime estimates how long speaking words takes at wpm words per minute
func ListeningTime(words, wpm int) time.Duration {
	if words <= 0 {
		return 0
	}
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	seconds := math.Ceil(float64(words) * 60 / float64(wpm))
	return time.Duration(seconds) * time.Second
}

// CountWords counts whitespace separated words across texts
func CountWords(texts ...string) int {
	total := 0
	for _, t := range texts {
		total += len(strings.Fields(t))
	}
	return total
}

// HumanReadable formats d as "45 seconds", "1 minute" or "2 hours 5 minutes"
func HumanReadable(d time.Duration) string {
	seconds := int(d.Round(time.Second) / time.Second)
	if seconds < 60 {
		return plural(seconds, "second")
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	parts := []string{}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
