package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

// SearchPlayers finds players by partial name
// @Summary Search Players
// @Tags Players
// @Produce json
// @Param name query string true "Name fragment"
// @Success 200 {object} models.PlayerSearchResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /players/search [get]
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		h.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	players, err := h.players.Search(r.Context(), name)
	if err != nil {
		h.logger.Errorw("Failed to search players", "error", err, "name", name)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to search players")
		return
	}
	if players == nil {
		players = []models.Player{}
	}
	h.jsonResponse(w, http.StatusOK, models.PlayerSearchResponse{Query: name, Players: players})
}

// GetPlayer returns one directory entry
// @Summary Get Player
// @Tags Players
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} models.Player
// @Failure 404 {object} map[string]string "Not Found"
// @Router /players/{playerID} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := parsePlayerID(chi.URLParam(r, "playerID"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	player, err := h.players.Get(r.Context(), id)
	if errors.Is(err, store.ErrPlayerNotFound) {
		h.errorResponse(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		h.logger.Errorw("Failed to get player", "error", err, "player", id)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to get player")
		return
	}
	h.jsonResponse(w, http.StatusOK, player)
}
