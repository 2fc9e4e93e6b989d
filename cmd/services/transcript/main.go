package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/echoscribe/backend/config/transcript"
	"github.com/echoscribe/backend/pkg/gen"
	"github.com/echoscribe/backend/pkg/logger"
	"github.com/echoscribe/backend/services/transcript/server"
	"github.com/echoscribe/backend/services/transcript/storage"
	"github.com/echoscribe/backend/services/transcript/storage/postgres"
	"github.com/echoscribe/backend/services/transcript/usecase"
)

func main() {
	log := logger.New(logger.Config{
		Level:      slog.LevelDebug,
		Output:     os.Stderr,
		AddSource:  true,
		JSONFormat: false,
	})

	cfg := config.MustLoad()

	ctx := logger.WithContext(context.Background(), log)

	rootCtx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, os.Interrupt)
	defer cancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("failed to run()", slog.String("error", err.Error()))
		return
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var stg storage.Storage
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pg.Close()
		stg = pg
		log.Info("using postgres storage")
	} else {
		stg = storage.New()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	usc := usecase.New(stg, gen.UUID())
	srv := server.New(usc, log)

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	address := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         address,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()
	log.Info("transcript service started", slog.String("address", address))

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("start shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			httpServer.Close()
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
	}

	return nil
}
