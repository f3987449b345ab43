package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
	"github.com/louisbranch/gameshow/internal/scoreboard/domain"
)

type stateResponse struct {
	Mode             string        `json:"mode"`
	Version          int64         `json:"version"`
	SelectedQuestion *questionView `json:"selected_question,omitempty"`
	ActiveRound      *roundView    `json:"active_round,omitempty"`
	RoundAnswers     []answerView  `json:"round_answers,omitempty"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Game.State(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := stateResponse{Mode: string(view.Mode), Version: view.Version}
	if view.SelectedQuestion != nil {
		q := toQuestionView(*view.SelectedQuestion)
		resp.SelectedQuestion = &q
	}
	if view.ActiveRound != nil {
		round := toRoundView(*view.ActiveRound)
		resp.ActiveRound = &round
		resp.RoundAnswers = toAnswerViews(view.RoundAnswers)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePlayers(w http.ResponseWriter, r *http.Request) {
	board, err := h.deps.Scoring.Board(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]playerView{"players": toPlayerViews(board.Players)})
}

func (h *Handler) handleTeams(w http.ResponseWriter, r *http.Request) {
	board, err := h.deps.Scoring.Board(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]teamView{"teams": toTeamViews(board.Teams)})
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.deps.Game.Board(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]questionView{"questions": toQuestionViews(questions)})
}

func (h *Handler) handleFeudRound(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Game.State(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := struct {
		Round   *roundView   `json:"round"`
		Answers []answerView `json:"answers,omitempty"`
	}{}
	if view.ActiveRound != nil {
		round := toRoundView(*view.ActiveRound)
		resp.Round = &round
		resp.Answers = toAnswerViews(view.RoundAnswers)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type setModeRequest struct {
	Mode string `json:"mode"`
}

func (h *Handler) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req setModeRequest
	if !h.decode(w, r, &req) {
		return
	}
	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.deps.Game.SetMode(r.Context(), mode); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"mode": string(mode)})
}

func (h *Handler) handleEndMode(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Game.EndMode(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"mode": string(domain.ModeNormal)})
}

func (h *Handler) handleSelectQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")
	if err := h.deps.Game.SelectQuestion(r.Context(), questionID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"selected_question": questionID})
}

func (h *Handler) handleClearQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Game.ClearQuestion(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) handleNextRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.deps.Game.NextFeudRound(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]roundView{"round": toRoundView(round)})
}

func (h *Handler) handleRevealAnswer(w http.ResponseWriter, r *http.Request) {
	answerID := chi.URLParam(r, "answerID")
	if err := h.deps.Game.RevealAnswer(r.Context(), answerID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"revealed": answerID})
}

func (h *Handler) handleStrike(w http.ResponseWriter, r *http.Request) {
	strikes, err := h.deps.Game.AddStrike(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"strikes": strikes})
}

type closeRoundRequest struct {
	TeamID string `json:"team_id"`
}

func (h *Handler) handleCloseRound(w http.ResponseWriter, r *http.Request) {
	var req closeRoundRequest
	if !h.decode(w, r, &req) {
		return
	}
	total, err := h.deps.Game.CloseFeudRound(r.Context(), req.TeamID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"awarded": total})
}

// handleBuzzes serves the ledger for whatever is in play. When nothing
// accepts buzzes the ledger is empty rather than an error.
func (h *Handler) handleBuzzes(w http.ResponseWriter, r *http.Request) {
	buzzes, err := h.deps.Buzzer.Order(r.Context())
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeBuzzNotAllowed) {
			h.writeJSON(w, http.StatusOK, map[string][]buzzView{"buzzes": {}})
			return
		}
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]buzzView{"buzzes": toBuzzViews(buzzes)})
}
