package models

import "github.com/fakebaseball/stats-api/internal/analysis"

// DistributionReport wraps a distribution with the player it describes.
type DistributionReport struct {
	PlayerID     int64                 `json:"player_id"`
	Role         Role                  `json:"role"`
	Appearances  int                   `json:"appearances"`
	Distribution analysis.Distribution `json:"distribution"`
}

// MatrixReport wraps a transition matrix with the player it describes.
type MatrixReport struct {
	PlayerID int64                     `json:"player_id"`
	Role     Role                      `json:"role"`
	Matrix   analysis.TransitionMatrix `json:"matrix"`
}

// HistoryReport is a player's recent values and deltas.
type HistoryReport struct {
	PlayerID int64            `json:"player_id"`
	Role     Role             `json:"role"`
	Limit    int              `json:"limit"`
	History  analysis.History `json:"history"`
}

// FirstValuesReport is a player's opening value in each game.
type FirstValuesReport struct {
	PlayerID    int64                `json:"player_id"`
	Role        Role                 `json:"role"`
	FirstValues analysis.FirstValues `json:"first_values"`
}

// SequencesReport is a player's most recent game sequences.
type SequencesReport struct {
	PlayerID  int64                   `json:"player_id"`
	Role      Role                    `json:"role"`
	Sequences []analysis.GameSequence `json:"sequences"`
}

// PatternReport bundles every per-player report in one response.
type PatternReport struct {
	PlayerID    int64   `json:"player_id"`
	Player      *Player `json:"player,omitempty"`
	Role        Role    `json:"role"`
	Appearances int     `json:"appearances"`

	Values      analysis.Distribution                             `json:"values"`
	Deltas      analysis.Distribution                             `json:"deltas"`
	Modifiers   analysis.Distribution                             `json:"modifiers"`
	Matrices    map[analysis.MatrixKind]analysis.TransitionMatrix `json:"matrices"`
	History     analysis.History                                  `json:"history"`
	FirstValues analysis.FirstValues                              `json:"first_values"`
	Sequences   []analysis.GameSequence                           `json:"sequences"`
	Prediction  *PredictionResult                                 `json:"prediction"`
}
