package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/echoscribe/backend/pkg/json"
	"github.com/echoscribe/backend/pkg/media"
	"github.com/echoscribe/backend/pkg/transcript"
	"github.com/echoscribe/backend/services/transcript/consts"
	"github.com/echoscribe/backend/services/transcript/entity"
	"github.com/echoscribe/backend/topics"
)

const multipartMemoryLimit = 32 << 20

var errTooBusy = errors.New("transcription capacity exhausted, retry later")

type transcribeResponse struct {
	Success    bool               `json:"success"`
	Transcript *entity.Transcript `json:"transcript"`
	Media      *media.Info        `json:"media"`
	Characters int                `json:"characters"`
}

// Transcribe accepts a multipart upload ("file" plus an optional "start"
// clock), streams the model's transcription to websocket subscribers and
// appends the result to the transcript. When the transcript already has
// text, a separator line carrying the start clock is inserted first so the
// parser can offset the new segment times.
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.monitor.TryAcquire() {
		json.WriteError(w, http.StatusServiceUnavailable, errTooBusy)
		return
	}
	defer h.monitor.Release()

	r.Body = http.MaxBytesReader(w, r.Body, consts.MaxAudioSize+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		json.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart upload: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	if len(data) > consts.MaxAudioSize {
		json.WriteError(w, http.StatusRequestEntityTooLarge,
			fmt.Errorf("file exceeds %d bytes", consts.MaxAudioSize))
		return
	}

	info, err := media.Probe(bytes.NewReader(data), header.Filename)
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, err)
		return
	}

	current, err := h.transcripts.Get(r.Context(), id)
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	topic := topics.Transcript(id).FullName()
	h.log.Info("transcription started",
		slog.String("id", id),
		slog.String("file", header.Filename),
		slog.String("format", info.Format),
		slog.Int("bytes", len(data)))

	text, err := h.model.StreamTranscribe(r.Context(), data, info.MIME, func(delta string) {
		h.hub.Publish(topic, StreamEvent{Type: EventDelta, Text: delta})
	})
	if err != nil {
		h.log.Error("transcription failed", slog.String("id", id), slog.String("error", err.Error()))
		h.hub.Publish(topic, StreamEvent{Type: EventError, Text: err.Error()})
		json.WriteError(w, http.StatusBadGateway, err)
		return
	}

	chunk := text
	if current.Body != "" {
		start := transcript.ParseClock(r.FormValue("start"))
		chunk = transcript.SeparatorLine(header.Filename, start) + "\n" + text
	}

	updated, err := h.transcripts.AppendText(r.Context(), id, chunk)
	if err != nil {
		h.hub.Publish(topic, StreamEvent{Type: EventError, Text: err.Error()})
		h.writeClientError(w, err)
		return
	}

	h.hub.Publish(topic, StreamEvent{Type: EventDone})
	h.log.Info("transcription appended",
		slog.String("id", id),
		slog.Int("characters", len(text)))

	json.WriteJSON(w, http.StatusOK, transcribeResponse{
		Success:    true,
		Transcript: updated,
		Media:      info,
		Characters: len(text),
	})
}
