package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCSVRoundTrip(t *testing.T) {
	text := strings.Join([]string{
		"Meeting notes",
		"--- [Continued: f.mp3 | Start: 01:30] ---",
		"[00:05] Alice: Hello",
		"[00:10 - 00:20] Bob: Hi, with a comma",
	}, "\n")
	before := Parse(text, nil)

	rebuilt, n, err := FromCSV([]byte(CSV(before)))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	after := Parse(rebuilt, nil)
	segsBefore := segments(before)
	segsAfter := segments(after)
	require.Equal(t, len(segsBefore), len(segsAfter))
	for i := range segsBefore {
		assert.Equal(t, segsBefore[i].Start, segsAfter[i].Start, "segment %d", i)
		assert.Equal(t, segsBefore[i].Speaker, segsAfter[i].Speaker, "segment %d", i)
		assert.Equal(t, segsBefore[i].Content, segsAfter[i].Content, "segment %d", i)
	}
}

func segments(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if r.Kind == KindSegment {
			out = append(out, r)
		}
	}
	return out
}

func TestFromCSVSkipsHeader(t *testing.T) {
	csv := "\"Time\",\"Speaker\",\"Content\"\n\"00:05\",\"Alice\",\"Hello\"\n"
	text, n, err := FromCSV([]byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "[00:05] Alice: Hello", text)
}

func TestFromCSVLocalHeaderToken(t *testing.T) {
	csv := "時間,發言者,內容\n00:05,Alice,你好\n"
	text, n, err := FromCSV([]byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "[00:05] Alice: 你好", text)
}

func TestFromCSVBOMAndCRLF(t *testing.T) {
	csv := "\uFEFF\"Time\",\"Speaker\",\"Content\"\r\n\"00:05\",\"Alice\",\"Hello\"\r\n"
	text, n, err := FromCSV([]byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "[00:05] Alice: Hello", text)
}

func TestFromCSVQuotedCommasAndQuotes(t *testing.T) {
	csv := `"00:05","Alice","She said ""hi"", then left"`
	text, n, err := FromCSV([]byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, `[00:05] Alice: She said "hi", then left`, text)
}

func TestFromCSVExtraColumnsRejoined(t *testing.T) {
	// Unescaped commas split content over extra columns.
	csv := "00:05,Alice,first,second,third"
	text, _, err := FromCSV([]byte(csv))
	require.NoError(t, err)
	assert.Equal(t, "[00:05] Alice: first,second,third", text)
}

func TestFromCSVTwoColumns(t *testing.T) {
	text, _, err := FromCSV([]byte("00:05,Hello there"))
	require.NoError(t, err)
	assert.Equal(t, "[00:05] Hello there", text)
}

func TestFromCSVSingleColumn(t *testing.T) {
	text, _, err := FromCSV([]byte("just a note"))
	require.NoError(t, err)
	assert.Equal(t, "just a note", text)
}

func TestFromCSVSkipsSeparatorMarkerLines(t *testing.T) {
	csv := "--- [Continued: f.mp3 | Start: 01:30] ---\n00:05,Alice,Hello\n"
	text, n, err := FromCSV([]byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "[00:05] Alice: Hello", text)
}

func TestFromCSVBracketedTimeNotDoubled(t *testing.T) {
	text, _, err := FromCSV([]byte("[00:05],Alice,Hello"))
	require.NoError(t, err)
	assert.Equal(t, "[00:05] Alice: Hello", text)
}

func TestFromCSVNoUsableRows(t *testing.T) {
	for _, csv := range []string{
		"",
		"\n\n",
		"\"Time\",\"Speaker\",\"Content\"\n",
		"--- [Continued: x | Start: 00:10] ---\n",
	} {
		_, n, err := FromCSV([]byte(csv))
		assert.ErrorIs(t, err, ErrNoRows, "input %q", csv)
		assert.Zero(t, n)
	}
}

func TestFromCSVHeaderOnlyInWindow(t *testing.T) {
	// A "Time" first column past the scan window is data, not a header.
	rows := []string{"a", "b", "c", "d", "e", "Time,,late"}
	text, n, err := FromCSV([]byte(strings.Join(rows, "\n")))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Contains(t, text, "Time")
}
