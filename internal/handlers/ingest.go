package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/fakebaseball/stats-api/internal/models"
)

// IngestPlateAppearances handles POST /api/v1/ingest/plate-appearances
// @Summary Ingest Plate Appearances
// @Description Accepts a JSON array or newline-separated JSON plate appearances. Numeric fields may be string-encoded.
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body []models.PlateAppearance true "Plate appearances"
// @Success 202 {object} models.IngestResponse "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Queue full"
// @Router /ingest/plate-appearances [post]
func (h *Handler) IngestPlateAppearances(w http.ResponseWriter, r *http.Request) {
	records, ok := h.readRecords(w, r)
	if !ok {
		return
	}

	batchID := uuid.New()
	resp := models.IngestResponse{BatchID: batchID.String(), Status: "accepted"}
	for i, raw := range records {
		var pa models.PlateAppearance
		if err := json.Unmarshal(raw, &pa); err != nil {
			h.logger.Warnw("Failed to unmarshal plate appearance", "error", err, "record", i, "batch", batchID)
			resp.Rejected++
			continue
		}
		if err := ValidateStruct(&pa); err != nil {
			h.logger.Warnw("Validation failed for plate appearance", "error", err, "record", i, "paID", pa.PAID)
			resp.Rejected++
			continue
		}

		if !h.pool.Enqueue(&pa, batchID) {
			h.logger.Warnw("Worker pool queue full, dropping remaining appearances in batch",
				"batch", batchID, "dropped", len(records)-i)
			resp.Rejected += len(records) - i
			resp.Status = "partial"
			break
		}
		resp.Processed++
	}

	if resp.Status == "partial" && resp.Processed == 0 {
		h.errorResponse(w, http.StatusServiceUnavailable, "Ingest queue is full")
		return
	}

	h.logger.Infow("Plate appearances accepted",
		"batch", batchID,
		"processed", resp.Processed,
		"rejected", resp.Rejected,
	)
	h.jsonResponse(w, http.StatusAccepted, resp)
}

// IngestPlayers handles POST /api/v1/ingest/players
// @Summary Upsert Players
// @Description Inserts or replaces players in the directory. Accepts a JSON array or newline-separated JSON.
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body []models.Player true "Players"
// @Success 200 {object} models.UpsertPlayersResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /ingest/players [post]
func (h *Handler) IngestPlayers(w http.ResponseWriter, r *http.Request) {
	records, ok := h.readRecords(w, r)
	if !ok {
		return
	}

	resp := models.UpsertPlayersResponse{Status: "ok"}
	players := make([]models.Player, 0, len(records))
	for i, raw := range records {
		var p models.Player
		if err := json.Unmarshal(raw, &p); err != nil {
			h.logger.Warnw("Failed to unmarshal player", "error", err, "record", i)
			resp.Rejected++
			continue
		}
		if err := ValidateStruct(&p); err != nil {
			h.logger.Warnw("Validation failed for player", "error", err, "record", i, "player", p.PlayerID)
			resp.Rejected++
			continue
		}
		players = append(players, p)
	}

	n, err := h.directory.UpsertPlayers(r.Context(), players)
	resp.Upserted = n
	if err != nil {
		h.logger.Errorw("Failed to upsert players", "error", err, "upserted", n, "total", len(players))
		h.errorResponse(w, http.StatusInternalServerError, "Failed to upsert players")
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// readRecords reads the body and splits it into JSON records. A body that
// starts with '[' is a JSON array; anything else is one object per line.
func (h *Handler) readRecords(w http.ResponseWriter, r *http.Request) ([]json.RawMessage, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}
	defer r.Body.Close()

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		h.errorResponse(w, http.StatusBadRequest, "Empty request body")
		return nil, false
	}

	if body[0] == '[' {
		var records []json.RawMessage
		if err := json.Unmarshal(body, &records); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Malformed JSON array")
			return nil, false
		}
		return records, true
	}

	var records []json.RawMessage
	for _, line := range bytes.Split(body, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		records = append(records, json.RawMessage(line))
	}
	return records, true
}
