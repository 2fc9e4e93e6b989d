package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts "MM:SS" or "HH:MM:SS" to total seconds. Parsing is
// lenient: a wrong component count or any non-numeric component yields 0
// for the whole clock, never an error.
func ParseClock(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// FormatClock renders total seconds as zero-padded "MM:SS", prefixing the
// hours field only when it is non-zero. Negative input clamps to zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds / 60 % 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// formatSRTClock renders seconds as "HH:MM:SS,mmm" (SRT timestamp format).
// Segment times carry whole-second precision, so milliseconds are zero.
func formatSRTClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d,000", seconds/3600, seconds/60%60, seconds%60)
}

func formatRange(start, end int, hasEnd bool) string {
	if hasEnd {
		return FormatClock(start) + " - " + FormatClock(end)
	}
	return FormatClock(start)
}
