package logic

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fakebaseball/stats-api/internal/analysis"
	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pastats_predictions_total",
		Help: "Predictions served, by role and outcome",
	}, []string{"role", "outcome"})

	predictionConfidence = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pastats_prediction_confidence",
		Help:    "Confidence of served predictions",
		Buckets: []float64{0.05, 0.1, 0.2, 0.4, 0.6, 0.8, analysis.MaxConfidence},
	}, []string{"role"})
)

type predictionService struct {
	events  store.EventStore
	players store.PlayerDirectory
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewPredictionService(events store.EventStore, players store.PlayerDirectory, logger *zap.Logger) PredictionService {
	return &predictionService{
		events:  events,
		players: players,
		logger:  logger.Sugar(),
		now:     time.Now,
	}
}

func (s *predictionService) Predict(ctx context.Context, role models.Role, playerID int64, priorValue, priorModifier *int) (*models.PredictionResult, error) {
	own, peer, err := loadHistories(ctx, s.events, s.players, role, playerID)
	if err != nil {
		return nil, err
	}

	res := predictFrom(role, playerID, own, peer, priorValue, priorModifier, s.now())
	s.logger.Debugw("Prediction served",
		"player", playerID,
		"role", role,
		"sample", res.SampleSize,
		"confidence", res.Confidence,
		"fallback", res.Fallback,
	)
	return res, nil
}

// engineFor returns the engine configured for role.
func engineFor(role models.Role) analysis.Engine {
	if role == models.RolePitching {
		return analysis.NewEngine(analysis.PitchingConfig)
	}
	return analysis.NewEngine(analysis.BattingConfig)
}

// loadHistories fetches the player's own events and, when role's engine
// blends peers, the events of the player's teammates.
func loadHistories(ctx context.Context, events store.EventStore, players store.PlayerDirectory, role models.Role, playerID int64) (own, peer []analysis.Event, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pas, err := events.AppearancesFor(ctx, role, playerID)
		if err != nil {
			return fmt.Errorf("own history: %w", err)
		}
		own = models.Events(pas, role)
		return nil
	})

	if engineFor(role).Config().BlendPeers {
		g.Go(func() error {
			mates, err := players.Teammates(ctx, playerID)
			if err != nil {
				return fmt.Errorf("peer group: %w", err)
			}
			if len(mates) == 0 {
				return nil
			}
			pas, err := events.AppearancesForPlayers(ctx, role, mates)
			if err != nil {
				return fmt.Errorf("peer history: %w", err)
			}
			for _, e := range models.Events(pas, role) {
				if e.ActorID != playerID {
					peer = append(peer, e)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return own, peer, nil
}

func predictFrom(role models.Role, playerID int64, own, peer []analysis.Event, priorValue, priorModifier *int, now time.Time) *models.PredictionResult {
	pred := engineFor(role).Predict(own, peer, priorValue, priorModifier)

	outcome := "matched"
	switch {
	case pred.Value == nil:
		outcome = "empty"
	case pred.Fallback:
		outcome = "fallback"
	}
	predictionsTotal.WithLabelValues(string(role), outcome).Inc()
	if pred.Value != nil {
		predictionConfidence.WithLabelValues(string(role)).Observe(pred.Confidence)
	}

	return &models.PredictionResult{
		PlayerID:          playerID,
		Role:              role,
		PriorValue:        priorValue,
		PriorModifier:     priorModifier,
		Prediction:        pred,
		ConfidencePercent: math.Round(pred.Confidence*1000) / 10,
		ConfidenceLabel:   analysis.ConfidenceLabel(pred.Confidence),
		GeneratedAt:       now.UTC(),
	}
}
