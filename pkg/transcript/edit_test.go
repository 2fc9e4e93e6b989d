package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEditContentKeepsTimePrefix(t *testing.T) {
	text := strings.Join([]string{
		"[00:05] Alice: Hello",
		"[00:10] Bob: Hi",
		"[00:15] Carol: Bye",
	}, "\n")

	out, err := ApplyEdit(text, 1, FieldContent, "Hi there", nil)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "[00:05] Alice: Hello", lines[0])
	assert.Equal(t, "[00:10] Bob: Hi there", lines[1])
	assert.Equal(t, "[00:15] Carol: Bye", lines[2])
}

func TestApplyEditContentDoesNotRecomputeOffset(t *testing.T) {
	text := strings.Join([]string{
		"--- [Continued: f.mp3 | Start: 01:30] ---",
		"[00:05] Alice: Hello",
	}, "\n")

	out, err := ApplyEdit(text, 1, FieldContent, "edited", nil)
	require.NoError(t, err)

	// Raw text keeps the local, pre-offset time.
	assert.Equal(t, "[00:05] Alice: edited", strings.Split(out, "\n")[1])
	assert.Equal(t, 95, Parse(out, nil)[1].Start)
}

func TestApplyEditSpeaker(t *testing.T) {
	out, err := ApplyEdit("[00:05] Alice: Hello", 0, FieldSpeaker, "Bob", nil)
	require.NoError(t, err)
	assert.Equal(t, "[00:05] Bob: Hello", out)
}

func TestApplyEditSpeakerCleared(t *testing.T) {
	out, err := ApplyEdit("[00:05] Alice: Hello", 0, FieldSpeaker, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "[00:05] Hello", out)
}

func TestApplyEditTimeSubtractsSeparatorOffset(t *testing.T) {
	text := strings.Join([]string{
		"--- [Continued: f.mp3 | Start: 01:30] ---",
		"[00:05] Alice: Hello",
	}, "\n")

	// User enters the displayed absolute time; raw text stores local time.
	out, err := ApplyEdit(text, 1, FieldTime, "01:40", nil)
	require.NoError(t, err)
	assert.Equal(t, "[00:10] Alice: Hello", strings.Split(out, "\n")[1])
	assert.Equal(t, 100, Parse(out, nil)[1].Start)
}

func TestApplyEditTimeClampsAtZero(t *testing.T) {
	text := strings.Join([]string{
		"--- [Continued: f.mp3 | Start: 01:30] ---",
		"[00:05] Alice: Hello",
	}, "\n")

	out, err := ApplyEdit(text, 1, FieldTime, "00:10", nil)
	require.NoError(t, err)
	assert.Equal(t, "[00:00] Alice: Hello", strings.Split(out, "\n")[1])
}

func TestApplyEditTimeRange(t *testing.T) {
	out, err := ApplyEdit("[00:05 - 00:08] Alice: Hello", 0, FieldTime, "00:10 - 00:20", nil)
	require.NoError(t, err)
	assert.Equal(t, "[00:10 - 00:20] Alice: Hello", out)
}

func TestApplyEditTimeWithoutSeparatorDefaultsToZeroOffset(t *testing.T) {
	out, err := ApplyEdit("[00:05] Alice: Hello", 0, FieldTime, "00:42", nil)
	require.NoError(t, err)
	assert.Equal(t, "[00:42] Alice: Hello", out)
}

func TestApplyEditRawRowReplacesWholeLine(t *testing.T) {
	out, err := ApplyEdit("some free text", 0, FieldContent, "new text", nil)
	require.NoError(t, err)
	assert.Equal(t, "new text", out)
}

func TestApplyEditTimeOnRawRowFails(t *testing.T) {
	_, err := ApplyEdit("free text", 0, FieldTime, "00:05", nil)
	assert.ErrorIs(t, err, ErrNotSegment)
}

func TestApplyEditOutOfRange(t *testing.T) {
	_, err := ApplyEdit("[00:05] Alice: Hello", 3, FieldContent, "x", nil)
	assert.ErrorIs(t, err, ErrRowOutOfRange)

	_, err = ApplyEdit("[00:05] Alice: Hello", -1, FieldContent, "x", nil)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestApplyEditUnknownField(t *testing.T) {
	_, err := ApplyEdit("[00:05] Alice: Hello", 0, Field("bogus"), "x", nil)
	assert.ErrorIs(t, err, ErrUnknownField)
}
