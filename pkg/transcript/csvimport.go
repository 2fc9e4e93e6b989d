package transcript

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ErrNoRows indicates a CSV import yielded zero usable rows. The caller
// should surface this instead of silently replacing the transcript with
// empty content.
var ErrNoRows = errors.New("no importable rows found in CSV")

// headerTokens are first-column values that mark a header row, matched
// case-insensitively within the first few data lines.
var headerTokens = []string{"time", "時間"}

const headerScanWindow = 5

// FromCSV converts CSV text (possibly carrying a BOM or \r\n line endings)
// back into raw transcript text suitable for replacing the current buffer.
// It returns the rebuilt text and the number of imported rows.
//
// Column policy: three or more columns map to (time, speaker, content),
// with extra columns re-joined into content by commas; exactly two map to
// (time, content); a single column is content only. Rows with neither time
// nor content are dropped silently. Confirming the destructive replacement
// with the user is the caller's responsibility.
func FromCSV(data []byte) (string, int, error) {
	text, err := unicode.UTF8BOM.NewDecoder().String(string(data))
	if err != nil {
		text = strings.TrimPrefix(string(data), utf8BOM)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	imported := 0
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, separatorPrefix) {
			continue
		}
		fields := splitCSVLine(trimmed)
		seen++
		if seen <= headerScanWindow && isHeaderRow(fields) {
			continue
		}
		clock, speaker, content := mapColumns(fields)
		rebuilt := buildImportedLine(clock, speaker, content)
		if rebuilt == "" {
			continue
		}
		out = append(out, rebuilt)
		imported++
	}

	if imported == 0 {
		return "", 0, ErrNoRows
	}
	return strings.Join(out, "\n"), imported, nil
}

// splitCSVLine is a small state-machine field parser: double-quote enclosed
// fields keep commas and doubled quotes literal.
func splitCSVLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

func isHeaderRow(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	first := strings.TrimSpace(fields[0])
	for _, token := range headerTokens {
		if strings.EqualFold(first, token) {
			return true
		}
	}
	return false
}

func mapColumns(fields []string) (clock, speaker, content string) {
	switch {
	case len(fields) >= 3:
		// Extra columns defend against unescaped commas inside content.
		return fields[0], fields[1], strings.Join(fields[2:], ",")
	case len(fields) == 2:
		return fields[0], "", fields[1]
	case len(fields) == 1:
		return "", "", fields[0]
	}
	return "", "", ""
}

func buildImportedLine(clock, speaker, content string) string {
	clock = strings.TrimSpace(clock)
	speaker = strings.TrimSpace(speaker)
	content = strings.TrimSpace(content)

	if clock == "" && content == "" {
		return ""
	}
	if clock == "" {
		return content
	}
	if !strings.HasPrefix(clock, "[") {
		clock = "[" + clock + "]"
	}
	if speaker != "" {
		return clock + " " + speaker + ": " + content
	}
	return strings.TrimSpace(clock + " " + content)
}
