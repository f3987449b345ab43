package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

type contextKey string

const playerKey contextKey = "player"

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// requirePlayer resolves the bearer token to a player and stashes it on the
// request context.
func (h *Handler) requirePlayer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := h.deps.Roster.ResolvePlayer(r.Context(), bearerToken(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), playerKey, player)
		next(w, r.WithContext(ctx))
	}
}

// requireAdmin verifies the bearer token against the admin allow-list.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.deps.Roster.RequireAdmin(r.Context(), bearerToken(r)); err != nil {
			h.writeError(w, r, err)
			return
		}
		next(w, r)
	}
}

func playerFrom(ctx context.Context) storage.PlayerRecord {
	player, _ := ctx.Value(playerKey).(storage.PlayerRecord)
	return player
}
