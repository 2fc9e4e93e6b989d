package server

import (
	"errors"
	"log/slog"
	"net/http"

	pkgjson "github.com/echoscribe/backend/pkg/json"
	"github.com/echoscribe/backend/services/transcript/entity"
	"github.com/echoscribe/backend/services/transcript/storage"
	"github.com/echoscribe/backend/services/transcript/usecase"
)

// Server exposes the transcript service over HTTP/JSON for the gateways.
type Server struct {
	usecase usecase.Usecase
	log     *slog.Logger
}

func New(usecase usecase.Usecase, log *slog.Logger) *Server {
	return &Server{
		usecase: usecase,
		log:     log,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/transcripts", s.CreateTranscript)
	mux.HandleFunc("GET /api/v1/transcripts", s.ListTranscripts)
	mux.HandleFunc("GET /api/v1/transcripts/{id}", s.GetTranscript)
	mux.HandleFunc("PUT /api/v1/transcripts/{id}/text", s.ReplaceText)
	mux.HandleFunc("POST /api/v1/transcripts/{id}/append", s.AppendText)
	mux.HandleFunc("DELETE /api/v1/transcripts/{id}", s.DeleteTranscript)
	mux.HandleFunc("GET /api/v1/health", s.HealthCheck)
}

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	pkgjson.WriteJSON(w, http.StatusOK, map[string]bool{"status": true})
}

func (s *Server) CreateTranscript(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateTranscriptRequest
	if err := pkgjson.ParseJSON(r, &req); err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, err)
		return
	}

	t, err := s.usecase.CreateTranscript(r.Context(), &req)
	if err != nil {
		s.log.Error("failed to create transcript", slog.String("error", err.Error()))
		pkgjson.WriteError(w, http.StatusInternalServerError, err)
		return
	}

	s.log.Info("transcript created", slog.String("id", t.ID), slog.String("title", t.Title))
	pkgjson.WriteJSON(w, http.StatusCreated, t)
}

func (s *Server) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	list, err := s.usecase.ListTranscripts(r.Context())
	if err != nil {
		s.log.Error("failed to list transcripts", slog.String("error", err.Error()))
		pkgjson.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	pkgjson.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) GetTranscript(w http.ResponseWriter, r *http.Request) {
	t, err := s.usecase.GetTranscript(r.Context(), &entity.GetTranscriptRequest{ID: r.PathValue("id")})
	if err != nil {
		s.writeUsecaseError(w, err)
		return
	}
	pkgjson.WriteJSON(w, http.StatusOK, t)
}

func (s *Server) ReplaceText(w http.ResponseWriter, r *http.Request) {
	var req entity.ReplaceTextRequest
	if err := pkgjson.ParseJSON(r, &req); err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, err)
		return
	}
	req.ID = r.PathValue("id")

	t, err := s.usecase.ReplaceText(r.Context(), &req)
	if err != nil {
		s.writeUsecaseError(w, err)
		return
	}

	s.log.Info("transcript text replaced", slog.String("id", t.ID), slog.Int("bytes", len(t.Body)))
	pkgjson.WriteJSON(w, http.StatusOK, t)
}

func (s *Server) AppendText(w http.ResponseWriter, r *http.Request) {
	var req entity.AppendTextRequest
	if err := pkgjson.ParseJSON(r, &req); err != nil {
		pkgjson.WriteError(w, http.StatusBadRequest, err)
		return
	}
	req.ID = r.PathValue("id")

	t, err := s.usecase.AppendText(r.Context(), &req)
	if err != nil {
		s.writeUsecaseError(w, err)
		return
	}

	s.log.Info("transcript text appended", slog.String("id", t.ID), slog.Int("bytes", len(req.Text)))
	pkgjson.WriteJSON(w, http.StatusOK, t)
}

func (s *Server) DeleteTranscript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.usecase.DeleteTranscript(r.Context(), &entity.DeleteTranscriptRequest{ID: id}); err != nil {
		s.writeUsecaseError(w, err)
		return
	}

	s.log.Info("transcript deleted", slog.String("id", id))
	pkgjson.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) writeUsecaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		pkgjson.WriteError(w, http.StatusNotFound, err)
		return
	}
	s.log.Error("transcript service error", slog.String("error", err.Error()))
	pkgjson.WriteError(w, http.StatusInternalServerError, err)
}
