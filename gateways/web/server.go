package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	config "github.com/echoscribe/backend/config/web"
	modelClient "github.com/echoscribe/backend/gateways/web/clients/model"
	transcriptClient "github.com/echoscribe/backend/gateways/web/clients/transcript"
	"github.com/echoscribe/backend/gateways/web/handler"
	"github.com/echoscribe/backend/gateways/web/monitor"
	"github.com/echoscribe/backend/pkg/transcript"
)

type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	handler *handler.Handler
}

func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	log.Info("creating web gateway")

	var speakers []transcript.Speaker
	if cfg.SpeakerMapPath != "" {
		var err error
		speakers, err = transcript.LoadSpeakerFile(cfg.SpeakerMapPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load speaker map: %w", err)
		}
		log.Info("speaker map loaded",
			slog.String("path", cfg.SpeakerMapPath),
			slog.Int("speakers", len(speakers)))
	}

	transcripts := transcriptClient.New(&cfg.TranscriptService, log)
	model := modelClient.New(&cfg.Model, log)
	mon := monitor.NewSemaphoreLoadMonitor(cfg.MaxConcurrentJobs, cfg.HealthThreshold)
	hub := handler.NewStreamHub(log)

	h := handler.New(transcripts, model, mon, hub, speakers, log)

	log.Info("web gateway created",
		slog.Int("port", cfg.Port),
		slog.String("model", cfg.Model.Name),
		slog.Int64("max_concurrent_jobs", cfg.MaxConcurrentJobs))
	return &Server{cfg: cfg, log: log, handler: h}, nil
}

func (s *Server) Start(ctx context.Context) error {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.URLFormat)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: router,
		// Transcription uploads hold the connection for the whole model
		// call, so no write timeout here.
		ReadTimeout: 5 * time.Minute,
		IdleTimeout: 60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("web gateway started", slog.String("address", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		s.log.Info("start shutdown", slog.String("signal", sig.String()))
	case <-ctx.Done():
		s.log.Info("closing server due to context cancellation")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("graceful shutdown failed", slog.String("error", err.Error()))
		srv.Close()
		return fmt.Errorf("failed to gracefully shutdown server: %w", err)
	}

	s.log.Info("server stopped cleanly")
	return nil
}
