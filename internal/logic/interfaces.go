package logic

import (
	"context"

	"github.com/fakebaseball/stats-api/internal/analysis"
	"github.com/fakebaseball/stats-api/internal/models"
)

// PatternService builds descriptive reports over one player's history.
type PatternService interface {
	ValueDistribution(ctx context.Context, role models.Role, playerID int64) (*models.DistributionReport, error)
	DeltaDistribution(ctx context.Context, role models.Role, playerID int64, scheme analysis.BucketScheme) (*models.DistributionReport, error)
	ModifierDistribution(ctx context.Context, role models.Role, playerID int64) (*models.DistributionReport, error)
	TransitionMatrix(ctx context.Context, role models.Role, playerID int64, kind analysis.MatrixKind) (*models.MatrixReport, error)
	History(ctx context.Context, role models.Role, playerID int64, limit int) (*models.HistoryReport, error)
	FirstValues(ctx context.Context, role models.Role, playerID int64) (*models.FirstValuesReport, error)
	GameSequences(ctx context.Context, role models.Role, playerID int64, games int) (*models.SequencesReport, error)
	Report(ctx context.Context, role models.Role, playerID int64) (*models.PatternReport, error)
}

// PredictionService forecasts a player's next value. Either prior may be
// nil.
type PredictionService interface {
	Predict(ctx context.Context, role models.Role, playerID int64, priorValue, priorModifier *int) (*models.PredictionResult, error)
}

// PlayerService resolves players in the directory.
type PlayerService interface {
	Search(ctx context.Context, name string) ([]models.Player, error)
	Get(ctx context.Context, playerID int64) (*models.Player, error)
}
