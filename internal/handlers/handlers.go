package handlers

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/logic"
	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

// MaxBodySize limits the size of request bodies to 8MB, enough for a full
// session of plate appearances in one post.
const MaxBodySize = 8 << 20

// IngestQueue defines the interface for the appearance ingestion worker pool
type IngestQueue interface {
	Enqueue(pa *models.PlateAppearance, batchID uuid.UUID) bool
	QueueDepth() int
}

// SchemaTarget is one backend the install endpoint applies a schema file to.
type SchemaTarget struct {
	Name      string
	Path      string
	Installer store.SchemaInstaller
}

type Config struct {
	WorkerPool IngestQueue
	Directory  store.PlayerDirectory
	Logger     *zap.Logger
	// Checks are the readiness probes, keyed by backend name.
	Checks  map[string]func(ctx context.Context) error
	Schemas []SchemaTarget
	// Services
	Patterns    logic.PatternService
	Predictions logic.PredictionService
	Players     logic.PlayerService
}

type Handler struct {
	pool        IngestQueue
	directory   store.PlayerDirectory
	logger      *zap.SugaredLogger
	checks      map[string]func(ctx context.Context) error
	schemas     []SchemaTarget
	patterns    logic.PatternService
	predictions logic.PredictionService
	players     logic.PlayerService
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:        cfg.WorkerPool,
		directory:   cfg.Directory,
		logger:      cfg.Logger.Sugar(),
		checks:      cfg.Checks,
		schemas:     cfg.Schemas,
		patterns:    cfg.Patterns,
		predictions: cfg.Predictions,
		players:     cfg.Players,
	}
}
