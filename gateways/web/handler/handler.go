package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	transcriptClient "github.com/echoscribe/backend/gateways/web/clients/transcript"
	"github.com/echoscribe/backend/gateways/web/monitor"
	pkgjson "github.com/echoscribe/backend/pkg/json"
	"github.com/echoscribe/backend/pkg/transcript"
	"github.com/echoscribe/backend/services/transcript/consts"
	"github.com/echoscribe/backend/services/transcript/entity"
)

// TranscriptClient is the persistence surface the handler needs from the
// transcript service.
type TranscriptClient interface {
	Create(ctx context.Context, title string) (*entity.Transcript, error)
	Get(ctx context.Context, id string) (*entity.Transcript, error)
	List(ctx context.Context) ([]*entity.Transcript, error)
	ReplaceText(ctx context.Context, id, text string) (*entity.Transcript, error)
	AppendText(ctx context.Context, id, text string) (*entity.Transcript, error)
	Delete(ctx context.Context, id string) error
}

// ModelClient is the hosted generative model surface.
type ModelClient interface {
	StreamTranscribe(ctx context.Context, audio []byte, mimeType string, onDelta func(text string)) (string, error)
	Summarize(ctx context.Context, text string) (string, error)
}

var errConfirmRequired = errors.New("destructive operation requires confirm=true")

type Handler struct {
	transcripts TranscriptClient
	model       ModelClient
	monitor     monitor.LoadMonitor
	hub         *StreamHub
	speakers    []transcript.Speaker
	log         *slog.Logger
}

func New(
	transcripts TranscriptClient,
	model ModelClient,
	mon monitor.LoadMonitor,
	hub *StreamHub,
	speakers []transcript.Speaker,
	log *slog.Logger,
) *Handler {
	return &Handler{
		transcripts: transcripts,
		model:       model,
		monitor:     mon,
		hub:         hub,
		speakers:    speakers,
		log:         log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", h.HealthCheck)
		api.Route("/transcripts", func(tr chi.Router) {
			tr.Post("/", h.CreateTranscript)
			tr.Get("/", h.ListTranscripts)
			tr.Route("/{id}", func(one chi.Router) {
				one.Get("/", h.GetTranscript)
				one.Delete("/", h.DeleteTranscript)
				one.Put("/text", h.ReplaceText)
				one.Get("/rows", h.GetRows)
				one.Patch("/rows/{index}", h.EditRow)
				one.Post("/transcribe", h.Transcribe)
				one.Get("/stream", h.Stream)
				one.Get("/export", h.Export)
				one.Post("/import", h.ImportCSV)
				one.Post("/summary", h.Summarize)
			})
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	pkgjson.WriteJSON(w, http.StatusOK, map[string]any{
		"healthy": h.monitor.IsHealthy(),
		"load":    h.monitor.GetMetrics(),
	})
}

type createTranscriptRequest struct {
	Title string `json:"title"`
}

func (h *Handler) CreateTranscript(w http.ResponseWriter, r *http.Request) {
	var req createTranscriptRequest
	if err := pkgjson.ParseJSON(r, &req); err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, err)
		return
	}

	t, err := h.transcripts.Create(r.Context(), req.Title)
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	h.log.Info("transcript created", slog.String("id", t.ID))
	pkgjson.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	list, err := h.transcripts.List(r.Context())
	if err != nil {
		h.writeClientError(w, err)
		return
	}
	pkgjson.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	t, err := h.transcripts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeClientError(w, err)
		return
	}
	pkgjson.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTranscript(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		pkgjson.WriteError(w, http.StatusBadRequest, errConfirmRequired)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.transcripts.Delete(r.Context(), id); err != nil {
		h.writeClientError(w, err)
		return
	}

	h.log.Info("transcript deleted", slog.String("id", id))
	pkgjson.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type replaceTextRequest struct {
	Text string `json:"text"`
}

func (h *Handler) ReplaceText(w http.ResponseWriter, r *http.Request) {
	var req replaceTextRequest
	if err := pkgjson.ParseJSON(r, &req); err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, err)
		return
	}

	t, err := h.transcripts.ReplaceText(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.writeClientError(w, err)
		return
	}
	pkgjson.WriteJSON(w, http.StatusOK, t)
}

type rowsResponse struct {
	TranscriptID string           `json:"transcript_id"`
	Rows         []transcript.Row `json:"rows"`
}

// GetRows returns the derived row projection of the raw transcript text.
// The projection is rebuilt on every call and never stored.
func (h *Handler) GetRows(w http.ResponseWriter, r *http.Request) {
	t, err := h.transcripts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	rows := transcript.Parse(t.Body, h.requestSpeakers(r))
	pkgjson.WriteJSON(w, http.StatusOK, rowsResponse{TranscriptID: t.ID, Rows: rows})
}

type editRowRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// EditRow rewrites one raw-text line and persists the updated buffer. The
// response carries the freshly reparsed projection.
func (h *Handler) EditRow(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid row index: %w", err))
		return
	}

	var req editRowRequest
	if err := pkgjson.ParseJSON(r, &req); err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, err)
		return
	}

	id := chi.URLParam(r, "id")
	t, err := h.transcripts.Get(r.Context(), id)
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	speakers := h.requestSpeakers(r)
	updatedText, err := transcript.ApplyEdit(t.Body, index, transcript.Field(req.Field), req.Value, speakers)
	if err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.transcripts.ReplaceText(r.Context(), id, updatedText)
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	h.log.Info("row edited",
		slog.String("id", id),
		slog.Int("row", index),
		slog.String("field", req.Field))
	pkgjson.WriteJSON(w, http.StatusOK, rowsResponse{
		TranscriptID: updated.ID,
		Rows:         transcript.Parse(updated.Body, speakers),
	})
}

// Export downloads the transcript as txt, csv or srt, rendered from the
// offset-corrected projection.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	t, err := h.transcripts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	rows := transcript.Parse(t.Body, h.requestSpeakers(r))

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "txt"
	}

	var body, contentType string
	switch format {
	case "txt":
		body = transcript.Text(rows)
		contentType = "text/plain; charset=utf-8"
	case "csv":
		body = transcript.CSV(rows)
		contentType = "text/csv; charset=utf-8"
	case "srt":
		body = transcript.SRT(rows)
		contentType = "application/x-subrip"
	default:
		pkgjson.WriteError(w, http.StatusBadRequest, fmt.Errorf("unknown export format %q", format))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "transcript-"+t.ID+"."+format))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

type importResponse struct {
	Success  bool `json:"success"`
	Imported int  `json:"imported"`
}

// ImportCSV replaces the whole transcript with text rebuilt from an
// uploaded CSV. The replacement is destructive, so the caller must pass
// confirm=true after prompting the user.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		pkgjson.WriteError(w, http.StatusBadRequest, errConfirmRequired)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, consts.MaxTranscriptSize))
	if err != nil {
		pkgjson.WriteError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	text, imported, err := transcript.FromCSV(data)
	if errors.Is(err, transcript.ErrNoRows) {
		pkgjson.WriteError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, err)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.transcripts.ReplaceText(r.Context(), id, text); err != nil {
		h.writeClientError(w, err)
		return
	}

	h.log.Info("csv imported", slog.String("id", id), slog.Int("rows", imported))
	pkgjson.WriteJSON(w, http.StatusOK, importResponse{Success: true, Imported: imported})
}

type summaryResponse struct {
	TranscriptID string `json:"transcript_id"`
	Summary      string `json:"summary"`
}

func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	t, err := h.transcripts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	canonical := transcript.Text(transcript.Parse(t.Body, h.requestSpeakers(r)))
	summary, err := h.model.Summarize(r.Context(), canonical)
	if err != nil {
		h.log.Error("summary generation failed", slog.String("error", err.Error()))
		pkgjson.WriteError(w, http.StatusBadGateway, err)
		return
	}

	pkgjson.WriteJSON(w, http.StatusOK, summaryResponse{TranscriptID: t.ID, Summary: summary})
}

// requestSpeakers merges "speaker=ID=Name" query parameters over the
// gateway-wide speaker map.
func (h *Handler) requestSpeakers(r *http.Request) []transcript.Speaker {
	var overrides []transcript.Speaker
	for _, raw := range r.URL.Query()["speaker"] {
		id, name, found := strings.Cut(raw, "=")
		if !found || strings.TrimSpace(id) == "" {
			continue
		}
		overrides = append(overrides, transcript.Speaker{
			ID:   strings.TrimSpace(id),
			Name: strings.TrimSpace(name),
		})
	}
	if len(overrides) == 0 {
		return h.speakers
	}
	return transcript.MergeSpeakers(h.speakers, overrides)
}

func (h *Handler) writeClientError(w http.ResponseWriter, err error) {
	if errors.Is(err, transcriptClient.ErrNotFound) {
		pkgjson.WriteError(w, http.StatusNotFound, err)
		return
	}
	h.log.Error("transcript service call failed", slog.String("error", err.Error()))
	pkgjson.WriteError(w, http.StatusBadGateway, err)
}
