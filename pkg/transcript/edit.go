package transcript

import (
	"errors"
	"regexp"
	"strings"
)

// Field names an editable part of a row.
type Field string

const (
	FieldTime    Field = "time"
	FieldSpeaker Field = "speaker"
	FieldContent Field = "content"
)

var (
	ErrRowOutOfRange = errors.New("row index out of range")
	ErrUnknownField  = errors.New("unknown edit field")
	ErrNotSegment    = errors.New("time edits apply to segment rows only")
)

var timePrefixRe = regexp.MustCompile(`^\s*\[[^\]]*\]`)

// ApplyEdit rewrites exactly one line of raw transcript text and returns
// the updated buffer. The caller reparses the buffer afterwards; the edit
// itself never renumbers or reorders lines.
//
// Content and speaker edits on a segment row keep the original bracketed
// time prefix verbatim: offset-corrected times are display values only and
// are not written back on such edits. A time edit stores the local,
// pre-offset clock: the effective offset is read from the nearest preceding
// separator's declared start (0 when absent), subtracted from the entered
// time and clamped at zero. Edits to raw and separator rows replace the
// whole line.
func ApplyEdit(text string, index int, field Field, value string, speakers []Speaker) (string, error) {
	lines := strings.Split(text, "\n")
	if index < 0 || index >= len(lines) {
		return "", ErrRowOutOfRange
	}
	row := Parse(text, speakers)[index]

	switch field {
	case FieldContent, FieldSpeaker:
		if row.Kind != KindSegment {
			lines[index] = value
			break
		}
		prefix := timePrefixRe.FindString(lines[index])
		speaker := row.Speaker
		content := row.Content
		if field == FieldSpeaker {
			speaker = strings.TrimSpace(value)
		} else {
			content = value
		}
		lines[index] = rebuildSegmentLine(prefix, speaker, content)

	case FieldTime:
		if row.Kind != KindSegment {
			return "", ErrNotSegment
		}
		offset := precedingOffset(lines, index)
		local := func(clock string) int {
			v := ParseClock(clock) - offset
			if v < 0 {
				v = 0
			}
			return v
		}
		var bracket string
		if from, to, found := strings.Cut(value, "-"); found {
			bracket = "[" + FormatClock(local(from)) + " - " + FormatClock(local(to)) + "]"
		} else {
			bracket = "[" + FormatClock(local(value)) + "]"
		}
		rest := strings.TrimPrefix(lines[index], timePrefixRe.FindString(lines[index]))
		lines[index] = bracket + rest

	default:
		return "", ErrUnknownField
	}

	return strings.Join(lines, "\n"), nil
}

func rebuildSegmentLine(prefix, speaker, content string) string {
	if speaker != "" {
		return prefix + " " + speaker + ": " + content
	}
	if content == "" {
		return prefix
	}
	return prefix + " " + content
}

// precedingOffset scans backward from index for the nearest separator line
// and returns its declared start, or 0 when none is found or parseable.
func precedingOffset(lines []string, index int) int {
	for i := index - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, separatorPrefix) {
			continue
		}
		if m := offsetRe.FindStringSubmatch(trimmed); m != nil {
			return ParseClock(m[1])
		}
		return 0
	}
	return 0
}
