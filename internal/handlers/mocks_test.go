package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/fakebaseball/stats-api/internal/analysis"
	"github.com/fakebaseball/stats-api/internal/models"
)

type MockIngestQueue struct {
	EnqueueFunc func(pa *models.PlateAppearance, batchID uuid.UUID) bool
	Enqueued    []*models.PlateAppearance
}

func (m *MockIngestQueue) Enqueue(pa *models.PlateAppearance, batchID uuid.UUID) bool {
	if m.EnqueueFunc != nil && !m.EnqueueFunc(pa, batchID) {
		return false
	}
	m.Enqueued = append(m.Enqueued, pa)
	return true
}

func (m *MockIngestQueue) QueueDepth() int { return len(m.Enqueued) }

// MockPatternService records the last call and returns canned reports.
type MockPatternService struct {
	Err        error
	LastRole   models.Role
	LastID     int64
	LastScheme analysis.BucketScheme
	LastKind   analysis.MatrixKind
	LastLimit  int
}

func (m *MockPatternService) record(role models.Role, id int64) {
	m.LastRole, m.LastID = role, id
}

func (m *MockPatternService) ValueDistribution(ctx context.Context, role models.Role, id int64) (*models.DistributionReport, error) {
	m.record(role, id)
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.DistributionReport{PlayerID: id, Role: role}, nil
}

func (m *MockPatternService) DeltaDistribution(ctx context.Context, role models.Role, id int64, scheme analysis.BucketScheme) (*models.DistributionReport, error) {
	m.record(role, id)
	m.LastScheme = scheme
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.DistributionReport{PlayerID: id, Role: role, Distribution: analysis.Distribution{Scheme: scheme.Name}}, nil
}

func (m *MockPatternService) ModifierDistribution(ctx context.Context, role models.Role, id int64) (*models.DistributionReport, error) {
	m.record(role, id)
	return &models.DistributionReport{PlayerID: id, Role: role}, m.Err
}

func (m *MockPatternService) TransitionMatrix(ctx context.Context, role models.Role, id int64, kind analysis.MatrixKind) (*models.MatrixReport, error) {
	m.record(role, id)
	m.LastKind = kind
	return &models.MatrixReport{PlayerID: id, Role: role}, m.Err
}

func (m *MockPatternService) History(ctx context.Context, role models.Role, id int64, limit int) (*models.HistoryReport, error) {
	m.record(role, id)
	m.LastLimit = limit
	return &models.HistoryReport{PlayerID: id, Role: role, Limit: limit}, m.Err
}

func (m *MockPatternService) FirstValues(ctx context.Context, role models.Role, id int64) (*models.FirstValuesReport, error) {
	m.record(role, id)
	return &models.FirstValuesReport{PlayerID: id, Role: role}, m.Err
}

func (m *MockPatternService) GameSequences(ctx context.Context, role models.Role, id int64, games int) (*models.SequencesReport, error) {
	m.record(role, id)
	m.LastLimit = games
	return &models.SequencesReport{PlayerID: id, Role: role}, m.Err
}

func (m *MockPatternService) Report(ctx context.Context, role models.Role, id int64) (*models.PatternReport, error) {
	m.record(role, id)
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.PatternReport{PlayerID: id, Role: role}, nil
}

type MockPredictionService struct {
	PredictFunc func(ctx context.Context, role models.Role, id int64, prior, mod *int) (*models.PredictionResult, error)
}

func (m *MockPredictionService) Predict(ctx context.Context, role models.Role, id int64, prior, mod *int) (*models.PredictionResult, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, role, id, prior, mod)
	}
	return &models.PredictionResult{PlayerID: id, Role: role, PriorValue: prior, PriorModifier: mod}, nil
}

type MockPlayerService struct {
	SearchFunc func(ctx context.Context, name string) ([]models.Player, error)
	GetFunc    func(ctx context.Context, id int64) (*models.Player, error)
}

func (m *MockPlayerService) Search(ctx context.Context, name string) ([]models.Player, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockPlayerService) Get(ctx context.Context, id int64) (*models.Player, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.Player{PlayerID: id}, nil
}

type MockDirectory struct {
	Upserted  []models.Player
	UpsertErr error
}

func (m *MockDirectory) SearchPlayers(ctx context.Context, name string, limit int) ([]models.Player, error) {
	return nil, nil
}

func (m *MockDirectory) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	return nil, nil
}

func (m *MockDirectory) Teammates(ctx context.Context, id int64) ([]int64, error) {
	return nil, nil
}

func (m *MockDirectory) UpsertPlayers(ctx context.Context, players []models.Player) (int, error) {
	if m.UpsertErr != nil {
		return 0, m.UpsertErr
	}
	m.Upserted = append(m.Upserted, players...)
	return len(players), nil
}

type MockInstaller struct {
	Schemas []string
	Err     error
}

func (m *MockInstaller) InstallSchema(ctx context.Context, schema string) error {
	m.Schemas = append(m.Schemas, schema)
	return m.Err
}
