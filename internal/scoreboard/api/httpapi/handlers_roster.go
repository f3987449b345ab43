package httpapi

import (
	"net/http"
)

type joinRequest struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

type joinResponse struct {
	Player playerView `json:"player"`
	Team   teamView   `json:"team"`
	Token  string     `json:"token"`
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.deps.Roster.Join(r.Context(), req.Name, req.Team)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, joinResponse{
		Player: toPlayerView(result.Player),
		Team:   teamView{ID: result.Team.ID, Name: result.Team.Name, Points: result.Team.Points},
		Token:  result.Token,
	})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	player, err := h.deps.Roster.ResolvePlayer(r.Context(), bearerToken(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]playerView{"player": toPlayerView(player)})
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.deps.Roster.AdminLogin(r.Context(), req.Username, req.Key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
