package handlers

import (
	"net/http"

	"github.com/fakebaseball/stats-api/internal/analysis"
)

// GetPrediction forecasts the player's next value
// @Summary Predict Next Value
// @Description Weighs recent windows of the player's history (and, for batters, the team's) that match the priors.
// @Tags Predictions
// @Produce json
// @Param role path string true "batting or pitching"
// @Param playerID path int true "Player ID"
// @Param prior_value query int false "Most recent value (1-1000)"
// @Param prior_modifier query int false "Most recent diff (0-500)"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /predictions/{role}/{playerID} [get]
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	role, id, ok := h.subject(w, r)
	if !ok {
		return
	}

	prior, ok := queryInt(r, "prior_value")
	if !ok || (prior != nil && (*prior < analysis.ValueMin || *prior > analysis.ValueMax)) {
		h.errorResponse(w, http.StatusBadRequest, "prior_value must be an integer from 1 to 1000")
		return
	}
	mod, ok := queryInt(r, "prior_modifier")
	if !ok || (mod != nil && (*mod < analysis.ModifierMin || *mod > analysis.ModifierMax)) {
		h.errorResponse(w, http.StatusBadRequest, "prior_modifier must be an integer from 0 to 500")
		return
	}

	pred, err := h.predictions.Predict(r.Context(), role, id, prior, mod)
	if err != nil {
		h.logger.Errorw("Failed to predict", "error", err, "player", id, "role", role)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to get prediction")
		return
	}
	h.jsonResponse(w, http.StatusOK, pred)
}
