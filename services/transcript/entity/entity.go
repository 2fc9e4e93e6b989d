package entity

import "time"

// Transcript holds the raw transcript text for one recording session.
// Body is the single source of truth; row projections are derived from it
// by callers and never persisted.
type Transcript struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateTranscriptRequest struct {
	Title string `json:"title"`
}

type GetTranscriptRequest struct {
	ID string `json:"id"`
}

type ReplaceTextRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type AppendTextRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type DeleteTranscriptRequest struct {
	ID string `json:"id"`
}
