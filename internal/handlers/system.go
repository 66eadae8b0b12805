package handlers

import (
	"net/http"
	"os"
)

// InstallDatabase applies each configured schema file to its backend
// @Summary Install Database Schema
// @Description Executes the SQL migrations for every configured backend
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /system/install [post]
func (h *Handler) InstallDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results := make(map[string]string, len(h.schemas))
	hasError := false

	for _, target := range h.schemas {
		content, err := os.ReadFile(target.Path)
		if err == nil {
			err = target.Installer.InstallSchema(ctx, string(content))
		}
		if err != nil {
			h.logger.Errorw("Failed to install schema", "db", target.Name, "path", target.Path, "error", err)
			results[target.Name] = "failed: " + err.Error()
			hasError = true
			continue
		}
		h.logger.Infow("Installed schema", "db", target.Name)
		results[target.Name] = "success"
	}

	statusCode := http.StatusOK
	if hasError {
		statusCode = http.StatusInternalServerError
	}
	h.jsonResponse(w, statusCode, map[string]interface{}{
		"status":  "completed",
		"results": results,
		"error":   hasError,
	})
}
