package models

import (
	"time"

	"github.com/fakebaseball/stats-api/internal/analysis"
)

// PredictionResult is a next-value forecast for one player and role.
type PredictionResult struct {
	PlayerID      int64 `json:"player_id"`
	Role          Role  `json:"role"`
	PriorValue    *int  `json:"prior_value"`
	PriorModifier *int  `json:"prior_modifier"`

	analysis.Prediction

	ConfidencePercent float64   `json:"confidence_percent"`
	ConfidenceLabel   string    `json:"confidence_label"`
	GeneratedAt       time.Time `json:"generated_at"`
}
