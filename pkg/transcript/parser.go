package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Separator marker decoration. A line like
// "--- [Continued: part2.mp3 | Start: 01:30] ---" declares a new source
// file whose local timestamps begin at the given absolute offset.
const (
	separatorPrefix = "--- ["
	separatorSuffix = "] ---"
)

var (
	segmentRe = regexp.MustCompile(`^\[\s*(\d{1,2}:\d{2}(?::\d{2})?)(?:\s*-\s*(\d{1,2}:\d{2}(?::\d{2})?))?\s*\]\s*(.*)$`)
	speakerRe = regexp.MustCompile(`^(?:\*\*)?([^:*]+?)(?:\*\*)?:\s+(.*)$`)
	offsetRe  = regexp.MustCompile(`Start:\s*(\d{1,2}:\d{2}(?::\d{2})?)`)
)

// Parse converts raw transcript text into an ordered row sequence. It is a
// pure function of its inputs and safe to call on every text change.
//
// Lines are classified in priority order: separator, blank, segment, raw.
// The current base offset is threaded through the walk as an explicit
// accumulator; a separator whose text declares "Start: <clock>" replaces
// the offset (it does not stack), and every following segment adds the
// offset to its locally-stated times. Rows stay index-aligned with the
// input lines so edits can address them by SourceLine.
func Parse(text string, speakers []Speaker) []Row {
	lines := strings.Split(text, "\n")
	rows := make([]Row, 0, len(lines))
	offset := 0
	for i, line := range lines {
		var row Row
		row, offset = classifyLine(line, i, offset, speakers)
		rows = append(rows, row)
	}
	return rows
}

func classifyLine(line string, index, offset int, speakers []Speaker) (Row, int) {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, separatorPrefix) {
		if m := offsetRe.FindStringSubmatch(trimmed); m != nil {
			offset = ParseClock(m[1])
		}
		// The canonical form drops the marker decoration. Exports carry
		// offset-corrected absolute times, so re-applying the declared
		// offset on a reparse of exported text would double-count it.
		content := stripSeparatorMarker(trimmed)
		return Row{
			Kind:       KindSeparator,
			Content:    content,
			Line:       content,
			SourceLine: index,
		}, offset
	}

	if trimmed == "" {
		return Row{Kind: KindRaw, Line: line, SourceLine: index}, offset
	}

	if m := segmentRe.FindStringSubmatch(trimmed); m != nil {
		start := ParseClock(m[1]) + offset
		if start < 0 {
			start = 0
		}
		hasEnd := m[2] != ""
		end := 0
		if hasEnd {
			end = ParseClock(m[2]) + offset
			if end < 0 {
				end = 0
			}
		}
		speaker, content := splitSpeaker(m[3], speakers)
		row := Row{
			Kind:       KindSegment,
			Time:       formatRange(start, end, hasEnd),
			Start:      start,
			End:        end,
			HasEnd:     hasEnd,
			Speaker:    speaker,
			Content:    content,
			SourceLine: index,
		}
		row.Line = canonicalLine(row)
		return row, offset
	}

	// Anything else is carried through verbatim: titles, commentary,
	// malformed model output.
	return Row{Kind: KindRaw, Content: line, Line: line, SourceLine: index}, offset
}

// splitSpeaker extracts an optional leading "speaker: " label from a
// segment's remainder, stripping bold markers and applying the speaker map.
func splitSpeaker(rest string, speakers []Speaker) (speaker, content string) {
	m := speakerRe.FindStringSubmatch(rest)
	if m == nil {
		return "", rest
	}
	label := strings.TrimSpace(m[1])
	if mapped, ok := lo.Find(speakers, func(s Speaker) bool {
		return strings.EqualFold(s.ID, label)
	}); ok {
		label = mapped.Name
	}
	return label, m[2]
}

func canonicalLine(r Row) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.Time)
	b.WriteString("]")
	if r.Speaker != "" {
		b.WriteString(" ")
		b.WriteString(r.Speaker)
		b.WriteString(": ")
		b.WriteString(r.Content)
	} else if r.Content != "" {
		b.WriteString(" ")
		b.WriteString(r.Content)
	}
	return b.String()
}

func stripSeparatorMarker(s string) string {
	s = strings.Trim(s, "- ")
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.TrimSpace(s)
}

// SeparatorLine builds the marker line inserted between appended file
// segments, e.g. SeparatorLine("Continued: part2.mp3", 90).
func SeparatorLine(label string, startSeconds int) string {
	return fmt.Sprintf("%s%s | Start: %s%s", separatorPrefix, label, FormatClock(startSeconds), separatorSuffix)
}
