package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
)

func (h *Handler) handleBuzz(w http.ResponseWriter, r *http.Request) {
	player := playerFrom(r.Context())
	buzz, err := h.deps.Buzzer.Buzz(r.Context(), player)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]buzzView{"buzz": {
		ID:         buzz.ID,
		QuestionID: buzz.QuestionID,
		PlayerID:   buzz.PlayerID,
		PlayerName: buzz.PlayerName,
		TeamName:   buzz.TeamName,
		CreatedAt:  buzz.CreatedAt,
	}})
}

type resetBuzzersRequest struct {
	Scope string `json:"scope"`
}

// handleResetBuzzers clears the ledger. An empty body means the current scope.
func (h *Handler) handleResetBuzzers(w http.ResponseWriter, r *http.Request) {
	var req resetBuzzersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, apperrors.New(apperrors.CodeResetScopeInvalid, "request body is not valid JSON"))
		return
	}
	var err error
	switch strings.ToLower(strings.TrimSpace(req.Scope)) {
	case "", "current":
		err = h.deps.Buzzer.ResetCurrent(r.Context())
	case "all":
		err = h.deps.Buzzer.ResetAll(r.Context())
	default:
		err = apperrors.WithMetadata(apperrors.CodeResetScopeInvalid, "scope must be current or all", map[string]string{
			"Scope": req.Scope,
		})
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) handleQuestAssign(w http.ResponseWriter, r *http.Request) {
	player := playerFrom(r.Context())
	view, err := h.deps.Quest.GetOrAssign(r.Context(), player.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]assignmentView{"quest": toAssignmentView(view)})
}

func (h *Handler) handleQuestSwitch(w http.ResponseWriter, r *http.Request) {
	player := playerFrom(r.Context())
	view, err := h.deps.Quest.Switch(r.Context(), player.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]assignmentView{"quest": toAssignmentView(view)})
}

func (h *Handler) handleQuestHistory(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimSpace(r.URL.Query().Get("playerId"))
	if playerID == "" {
		player, err := h.deps.Roster.ResolvePlayer(r.Context(), bearerToken(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		playerID = player.ID
	}
	entries, err := h.deps.Quest.History(r.Context(), playerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]assignmentView{"history": toHistoryViews(entries)})
}

type questCompleteRequest struct {
	PlayerID string `json:"player_id"`
}

func (h *Handler) handleQuestComplete(w http.ResponseWriter, r *http.Request) {
	var req questCompleteRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.deps.Quest.Complete(r.Context(), req.PlayerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]assignmentView{"quest": toAssignmentView(view)})
}

type awardPointsRequest struct {
	PlayerID string `json:"player_id"`
	Delta    int64  `json:"delta"`
}

func (h *Handler) handleAwardPoints(w http.ResponseWriter, r *http.Request) {
	var req awardPointsRequest
	if !h.decode(w, r, &req) {
		return
	}
	player, err := h.deps.Scoring.AwardPoints(r.Context(), req.PlayerID, req.Delta)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]playerView{"player": toPlayerView(player)})
}
