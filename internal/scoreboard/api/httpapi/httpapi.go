// Package httpapi is the JSON and SSE boundary of the scoreboard service.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louisbranch/gameshow/internal/scoreboard/buzzer"
	"github.com/louisbranch/gameshow/internal/scoreboard/feed"
	"github.com/louisbranch/gameshow/internal/scoreboard/game"
	"github.com/louisbranch/gameshow/internal/scoreboard/quest"
	"github.com/louisbranch/gameshow/internal/scoreboard/roster"
	"github.com/louisbranch/gameshow/internal/scoreboard/scoring"
)

// Deps holds the services the handler dispatches to.
type Deps struct {
	Roster  *roster.Service
	Game    *game.Service
	Buzzer  *buzzer.Service
	Quest   *quest.Service
	Scoring *scoring.Service
	Hub     *feed.Hub
	Logger  *slog.Logger
}

// Handler serves the scoreboard HTTP surface.
type Handler struct {
	deps Deps
	log  *slog.Logger
}

// New builds the router. Every route is JSON except /events, which streams
// SSE frames from the change feed.
func New(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{deps: deps, log: logger}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Post("/join", h.handleJoin)
	r.Get("/session", h.handleSession)
	r.Post("/admin/login", h.handleAdminLogin)

	r.Get("/state", h.handleState)
	r.Get("/players", h.handlePlayers)
	r.Get("/teams", h.handleTeams)
	r.Get("/questions", h.handleQuestions)
	r.Get("/buzzes", h.handleBuzzes)
	r.Get("/feud/round", h.handleFeudRound)
	r.Get("/events", h.handleEvents)

	r.Post("/buzz", h.requirePlayer(h.handleBuzz))
	r.Post("/side-quests/assign", h.requirePlayer(h.handleQuestAssign))
	r.Post("/side-quests/switch", h.requirePlayer(h.handleQuestSwitch))
	r.Get("/side-quests/history", h.handleQuestHistory)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/mode", h.requireAdmin(h.handleSetMode))
		r.Post("/mode/end", h.requireAdmin(h.handleEndMode))
		r.Post("/questions/{questionID}/select", h.requireAdmin(h.handleSelectQuestion))
		r.Post("/questions/clear", h.requireAdmin(h.handleClearQuestion))
		r.Post("/feud/next", h.requireAdmin(h.handleNextRound))
		r.Post("/feud/answers/{answerID}/reveal", h.requireAdmin(h.handleRevealAnswer))
		r.Post("/feud/strike", h.requireAdmin(h.handleStrike))
		r.Post("/feud/close", h.requireAdmin(h.handleCloseRound))
		r.Post("/points", h.requireAdmin(h.handleAwardPoints))
		r.Post("/buzzers/reset", h.requireAdmin(h.handleResetBuzzers))
		r.Post("/side-quests/complete", h.requireAdmin(h.handleQuestComplete))
	})

	return otelhttp.NewHandler(r, "gameshow.http")
}
