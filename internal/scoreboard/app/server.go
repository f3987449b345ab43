// Package app wires the scoreboard service together and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/louisbranch/gameshow/internal/platform/config"
	"github.com/louisbranch/gameshow/internal/scoreboard/api/httpapi"
	"github.com/louisbranch/gameshow/internal/scoreboard/buzzer"
	"github.com/louisbranch/gameshow/internal/scoreboard/feed"
	"github.com/louisbranch/gameshow/internal/scoreboard/game"
	"github.com/louisbranch/gameshow/internal/scoreboard/quest"
	"github.com/louisbranch/gameshow/internal/scoreboard/roster"
	"github.com/louisbranch/gameshow/internal/scoreboard/scoring"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage/notify"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server's environment configuration.
type Config struct {
	HTTPAddr    string `env:"GAMESHOW_HTTP_ADDR" envDefault:":8080"`
	DBPath      string `env:"GAMESHOW_DB_PATH" envDefault:"gameshow.db"`
	TokenSecret string `env:"GAMESHOW_TOKEN_SECRET"`
}

// LoadConfig reads server configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("GAMESHOW_TOKEN_SECRET is required")
	}
	return cfg, nil
}

// Server is the assembled scoreboard service.
type Server struct {
	cfg    Config
	store  *sqlite.Store
	hub    *feed.Hub
	http   *http.Server
	logger *slog.Logger
}

// NewServer opens storage, builds the services, and prepares the HTTP server.
func NewServer(cfg Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	hub := feed.NewHub()
	notifying := notify.Wrap(store, hub)

	rosterSvc, err := roster.New(notifying, []byte(cfg.TokenSecret))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create roster service: %w", err)
	}

	handler := httpapi.New(httpapi.Deps{
		Roster:  rosterSvc,
		Game:    game.New(notifying),
		Buzzer:  buzzer.New(notifying),
		Quest:   quest.New(notifying),
		Scoring: scoring.New(notifying),
		Hub:     hub,
		Logger:  logger,
	})

	return &Server{
		cfg:    cfg,
		store:  store,
		hub:    hub,
		http:   &http.Server{Addr: cfg.HTTPAddr, Handler: handler},
		logger: logger,
	}, nil
}

// ListenAndServe serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.ListenAndServe()
	}()
	s.logger.Info("server listening", "addr", s.cfg.HTTPAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}
