package transcript

// Kind classifies a transcript row.
type Kind string

const (
	// KindSegment is a timestamped utterance.
	KindSegment Kind = "segment"
	// KindSeparator marks a source-file boundary carrying a new base offset.
	KindSeparator Kind = "separator"
	// KindRaw is a freeform or blank line with no recognized structure.
	KindRaw Kind = "raw"
)

// Row is the unit of transcript content. The row sequence is a derived
// projection of raw transcript text; raw text stays the source of truth.
type Row struct {
	Kind Kind `json:"kind"`

	// Time is the display time string after offset correction,
	// "MM:SS" or "MM:SS - MM:SS". Empty for non-segment rows.
	Time string `json:"time,omitempty"`

	// Start and End are absolute offsets in seconds after cumulative
	// correction. Meaningful only for segment rows.
	Start  int  `json:"startSeconds"`
	End    int  `json:"endSeconds"`
	HasEnd bool `json:"hasEnd,omitempty"`

	Speaker string `json:"speaker,omitempty"`
	Content string `json:"content"`

	// Line is the canonical reconstructed line used for every export.
	// For segment rows it carries corrected times and the resolved
	// speaker; for other rows it is the original line verbatim.
	Line string `json:"line"`

	// SourceLine is the position in the original line-split text.
	// Edits address rows by this index.
	SourceLine int `json:"sourceLineIndex"`
}

// Speaker maps a raw speaker token (e.g. "Speaker 1") to a display name.
// The list is ordered; lookup is case-insensitive on ID.
type Speaker struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
