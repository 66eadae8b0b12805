package worker

import (
	"context"
	"sync"

	"github.com/fakebaseball/stats-api/internal/models"
)

type MockWriter struct {
	mu      sync.Mutex
	Batches [][]models.PlateAppearance
	Err     error
}

func (m *MockWriter) WriteAppearances(ctx context.Context, pas []models.PlateAppearance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Batches = append(m.Batches, append([]models.PlateAppearance(nil), pas...))
	return nil
}

func (m *MockWriter) Written() []models.PlateAppearance {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PlateAppearance
	for _, b := range m.Batches {
		out = append(out, b...)
	}
	return out
}
