package transcript

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// utf8BOM is prefixed to CSV exports so spreadsheet tools detect the encoding.
const utf8BOM = "\uFEFF"

// Text renders the row sequence back to plain transcript text: each row's
// canonical line joined with newlines. Exports always reflect corrected,
// offset-applied times, never the raw uncorrected input.
func Text(rows []Row) string {
	return strings.Join(lo.Map(rows, func(r Row, _ int) string {
		return r.Line
	}), "\n")
}

// CSV renders rows as UTF-8 CSV with a BOM and a Time,Speaker,Content
// header. Segment rows fill all three columns; separator and non-blank raw
// rows emit content-only records. Every field is quote-wrapped with
// internal quotes doubled.
func CSV(rows []Row) string {
	var b strings.Builder
	b.WriteString(utf8BOM)
	writeCSVRecord(&b, "Time", "Speaker", "Content")
	for _, r := range rows {
		switch r.Kind {
		case KindSegment:
			writeCSVRecord(&b, r.Time, r.Speaker, r.Content)
		case KindSeparator:
			writeCSVRecord(&b, "", "", r.Content)
		case KindRaw:
			if strings.TrimSpace(r.Content) != "" {
				writeCSVRecord(&b, "", "", r.Content)
			}
		}
	}
	return b.String()
}

func writeCSVRecord(b *strings.Builder, fields ...string) {
	quoted := lo.Map(fields, func(f string, _ int) string {
		return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	})
	b.WriteString(strings.Join(quoted, ","))
	b.WriteByte('\n')
}

// SRT renders segment rows as a SubRip subtitle track: sequential 1-based
// cues with "HH:MM:SS,mmm --> HH:MM:SS,mmm" timing lines. A segment with no
// end time gets a 5 second default duration; an end at or before the start
// (possible after manual edits) is forced to start+3s.
func SRT(rows []Row) string {
	segments := lo.Filter(rows, func(r Row, _ int) bool {
		return r.Kind == KindSegment
	})

	var b strings.Builder
	for i, r := range segments {
		start := r.Start
		end := r.End
		if !r.HasEnd {
			end = start + 5
		}
		if end <= start {
			end = start + 3
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatSRTClock(start), formatSRTClock(end))
		if r.Speaker != "" {
			fmt.Fprintf(&b, "%s: %s\n", r.Speaker, r.Content)
		} else {
			fmt.Fprintf(&b, "%s\n", r.Content)
		}
	}
	return b.String()
}
