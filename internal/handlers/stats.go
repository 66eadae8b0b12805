package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fakebaseball/stats-api/internal/analysis"
)

// GetValueDistribution returns the player's value distribution
// @Summary Value Distribution
// @Tags Stats
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Success 200 {object} models.DistributionReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /stats/{role}/{playerID}/distribution [get]
func (h *Handler) GetValueDistribution(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}
	rep, err := h.patterns.ValueDistribution(r.Context(), role, id)
	h.respond(w, rep, err, "value distribution", id)
}

// GetDeltaDistribution returns the player's delta distribution
// @Summary Delta Distribution
// @Tags Stats
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Param scheme query string false "canonical (default) or legacy"
// @Success 200 {object} models.DistributionReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /stats/{role}/{playerID}/deltas [get]
func (h *Handler) GetDeltaDistribution(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}
	scheme, ok := analysis.DeltaSchemeByName(r.URL.Query().Get("scheme"))
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "scheme must be canonical or legacy")
		return
	}
	rep, err := h.patterns.DeltaDistribution(r.Context(), role, id, scheme)
	h.respond(w, rep, err, "delta distribution", id)
}

// GetModifierDistribution returns the distribution of diffs the player saw
// @Summary Modifier Distribution
// @Tags Stats
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Success 200 {object} models.DistributionReport
// @Router /stats/{role}/{playerID}/modifiers [get]
func (h *Handler) GetModifierDistribution(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}
	rep, err := h.patterns.ModifierDistribution(r.Context(), role, id)
	h.respond(w, rep, err, "modifier distribution", id)
}

// GetTransitionMatrix returns a 10x10 transition matrix
// @Summary Transition Matrix
// @Tags Stats
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Param kind path string true "value, modifier or delta"
// @Success 200 {object} models.MatrixReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /stats/{role}/{playerID}/matrix/{kind} [get]
func (h *Handler) GetTransitionMatrix(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}
	kind, ok := analysis.ParseMatrixKind(chi.URLParam(r, "kind"))
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "kind must be value, modifier or delta")
		return
	}
	rep, err := h.patterns.TransitionMatrix(r.Context(), role, id, kind)
	h.respond(w, rep, err, "transition matrix", id)
}

// GetHistory returns the player's most recent values and deltas
// @Summary Recent History
// @Tags Stats
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Param limit query int false "Number of appearances (default 10)"
// @Success 200 {object} models.HistoryReport
// @Router /stats/{role}/{playerID}/history [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}
	limit, ok := queryInt(r, "limit")
	if !ok || (limit != nil && *limit <= 0) {
		h.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	rep, err := h.patterns.History(r.Context(), role, id, derefOr(limit, 0))
	h.respond(w, rep, err, "history", id)
}

// GetFirstValues returns the player's opening value of each game
// @Summary First Values
// @Tags Stats
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Success 200 {object} models.FirstValuesReport
// @Router /stats/{role}/{playerID}/first-values [get]
func (h *Handler) GetFirstValues(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}
	rep, err := h.patterns.FirstValues(r.Context(), role, id)
	h.respond(w, rep, err, "first values", id)
}

// GetGameSequences returns the player's most recent games in order
// @Summary Game Sequences
// @Tags Stats
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Param games query int false "Number of games (default 5)"
// @Success 200 {object} models.SequencesReport
// @Router /stats/{role}/{playerID}/sequences [get]
func (h *Handler) GetGameSequences(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}
	games, ok := queryInt(r, "games")
	if !ok || (games != nil && *games <= 0) {
		h.errorResponse(w, http.StatusBadRequest, "games must be a positive integer")
		return
	}
	rep, err := h.patterns.GameSequences(r.Context(), role, id, derefOr(games, 0))
	h.respond(w, rep, err, "game sequences", id)
}

// GetPatternReport returns every report and a prediction in one response
// @Summary Full Pattern Report
// @Tags Stats
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Success 200 {object} models.PatternReport
// @Router /stats/{role}/{playerID}/report [get]
func (h *Handler) GetPatternReport(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}
	rep, err := h.patterns.Report(r.Context(), role, id)
	h.respond(w, rep, err, "pattern report", id)
}

// respond writes rep, or a 500 when the service failed.
func (h *Handler) respond(w http.ResponseWriter, rep interface{}, err error, what string, playerID int64) {
	if err != nil {
		h.logger.Errorw("Failed to build "+what, "error", err, "player", playerID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to build "+what)
		return
	}
	h.jsonResponse(w, http.StatusOK, rep)
}

func derefOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
