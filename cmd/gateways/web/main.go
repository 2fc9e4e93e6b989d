package main

import (
	"context"
	"log/slog"
	"os"

	config "github.com/echoscribe/backend/config/web"
	web "github.com/echoscribe/backend/gateways/web"
	"github.com/echoscribe/backend/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:      slog.LevelDebug,
		Output:     os.Stderr,
		AddSource:  true,
		JSONFormat: false,
	})

	cfg := config.MustLoad()

	srv, err := web.New(cfg, log)
	if err != nil {
		log.Error("failed to create web gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(context.Background()); err != nil {
		log.Error("web gateway stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
