package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fakebaseball/stats-api/internal/models"
)

const readyTimeout = 2 * time.Second

var validate = validator.New()

// ValidateStruct checks v against its validate tags.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]bool, len(h.checks))
	allHealthy := true
	for name, check := range h.checks {
		err := check(ctx)
		checks[name] = err == nil
		if err != nil {
			allHealthy = false
			h.logger.Warnw("Readiness check failed", "backend", name, "error", err)
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	depth := 0
	if h.pool != nil {
		depth = h.pool.QueueDepth()
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": depth,
	})
}

// subject parses the {role} and {playerID} URL parameters, writing a 400 on
// failure.
func (h *Handler) subject(w http.ResponseWriter, r *http.Request) (models.Role, int64, bool) {
	role, err := models.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	id, err := parsePlayerID(chi.URLParam(r, "playerID"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	return role, id, true
}

func parsePlayerID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid player ID %q", s)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. ok is false when the
// parameter is present but malformed.
func queryInt(r *http.Request, key string) (v *int, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
