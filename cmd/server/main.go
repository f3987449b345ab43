// Command server runs the gameshow scoreboard service.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/louisbranch/gameshow/internal/platform/config"
	"github.com/louisbranch/gameshow/internal/platform/otel"
	"github.com/louisbranch/gameshow/internal/scoreboard/app"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(tint.NewHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "gameshow")
	if err != nil {
		config.Exitf("setup tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("shutdown tracing", "error", err)
		}
	}()

	cfg, err := app.LoadConfig()
	if err != nil {
		config.Exitf("load config: %v", err)
	}

	server, err := app.NewServer(cfg, logger)
	if err != nil {
		config.Exitf("create server: %v", err)
	}
	defer func() {
		if err := server.Close(); err != nil {
			logger.Error("close server", "error", err)
		}
	}()

	if err := server.ListenAndServe(ctx); err != nil {
		config.Exitf("serve: %v", err)
	}
}
