package media

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported media format")
	ErrInvalidWAV        = errors.New("invalid WAV file")
)

// Info describes an uploaded media file. Header fields are filled for WAV
// only; other formats pass through with extension-derived metadata.
type Info struct {
	Format     string        `json:"format"`
	MIME       string        `json:"mime"`
	SampleRate int           `json:"sample_rate,omitempty"`
	Channels   int           `json:"channels,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
}

var mimeByExt = map[string]string{
	"wav":  "audio/wav",
	"mp3":  "audio/mpeg",
	"flac": "audio/flac",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"ogg":  "audio/ogg",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
}

// Probe inspects an uploaded file by name and, for WAV, by decoding the
// header. The reader is rewound to the start before returning so the bytes
// can be forwarded to the transcription model unchanged.
func Probe(r io.ReadSeeker, filename string) (*Info, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	mime, ok := mimeByExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	info := &Info{Format: ext, MIME: mime}
	if ext != "wav" {
		return info, nil
	}

	d := wav.NewDecoder(r)
	d.ReadInfo()
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	info.SampleRate = int(d.SampleRate)
	info.Channels = int(d.NumChans)
	if dur, err := d.Duration(); err == nil {
		info.Duration = dur
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind media file: %w", err)
	}
	return info, nil
}
