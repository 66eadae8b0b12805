package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fakebaseball/stats-api/internal/analysis"
	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

// PatternConfig sets the default sizes of the tail reports.
type PatternConfig struct {
	HistoryLimit  int
	SequenceGames int
}

type patternService struct {
	events  store.EventStore
	players store.PlayerDirectory
	cfg     PatternConfig
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewPatternService(events store.EventStore, players store.PlayerDirectory, cfg PatternConfig, logger *zap.Logger) PatternService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = analysis.DefaultHistoryLimit
	}
	if cfg.SequenceGames <= 0 {
		cfg.SequenceGames = analysis.DefaultSequenceGames
	}
	return &patternService{
		events:  events,
		players: players,
		cfg:     cfg,
		logger:  logger.Sugar(),
		now:     time.Now,
	}
}

func (s *patternService) ownEvents(ctx context.Context, role models.Role, playerID int64) ([]analysis.Event, error) {
	pas, err := s.events.AppearancesFor(ctx, role, playerID)
	if err != nil {
		return nil, fmt.Errorf("load %s history for %d: %w", role, playerID, err)
	}
	return models.Events(pas, role), nil
}

func (s *patternService) ValueDistribution(ctx context.Context, role models.Role, playerID int64) (*models.DistributionReport, error) {
	events, err := s.ownEvents(ctx, role, playerID)
	if err != nil {
		return nil, err
	}
	return &models.DistributionReport{
		PlayerID:     playerID,
		Role:         role,
		Appearances:  len(events),
		Distribution: analysis.BuildDistribution(analysis.Values(events), analysis.ValueScheme),
	}, nil
}

// DeltaDistribution buckets the chronological deltas with scheme.
func (s *patternService) DeltaDistribution(ctx context.Context, role models.Role, playerID int64, scheme analysis.BucketScheme) (*models.DistributionReport, error) {
	events, err := s.ownEvents(ctx, role, playerID)
	if err != nil {
		return nil, err
	}
	return &models.DistributionReport{
		PlayerID:     playerID,
		Role:         role,
		Appearances:  len(events),
		Distribution: analysis.BuildDistribution(analysis.DeltaHistory(events), scheme),
	}, nil
}

func (s *patternService) ModifierDistribution(ctx context.Context, role models.Role, playerID int64) (*models.DistributionReport, error) {
	events, err := s.ownEvents(ctx, role, playerID)
	if err != nil {
		return nil, err
	}
	return &models.DistributionReport{
		PlayerID:     playerID,
		Role:         role,
		Appearances:  len(events),
		Distribution: analysis.BuildDistribution(analysis.Modifiers(events), analysis.ModifierScheme),
	}, nil
}

func (s *patternService) TransitionMatrix(ctx context.Context, role models.Role, playerID int64, kind analysis.MatrixKind) (*models.MatrixReport, error) {
	events, err := s.ownEvents(ctx, role, playerID)
	if err != nil {
		return nil, err
	}
	return &models.MatrixReport{
		PlayerID: playerID,
		Role:     role,
		Matrix:   analysis.BuildTransitionMatrix(analysis.SortByGroup(events), kind),
	}, nil
}

func (s *patternService) History(ctx context.Context, role models.Role, playerID int64, limit int) (*models.HistoryReport, error) {
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	events, err := s.ownEvents(ctx, role, playerID)
	if err != nil {
		return nil, err
	}
	return &models.HistoryReport{
		PlayerID: playerID,
		Role:     role,
		Limit:    limit,
		History:  analysis.RecentHistory(events, limit),
	}, nil
}

func (s *patternService) FirstValues(ctx context.Context, role models.Role, playerID int64) (*models.FirstValuesReport, error) {
	events, err := s.ownEvents(ctx, role, playerID)
	if err != nil {
		return nil, err
	}
	return &models.FirstValuesReport{
		PlayerID:    playerID,
		Role:        role,
		FirstValues: analysis.FirstValuesByGroup(events),
	}, nil
}

func (s *patternService) GameSequences(ctx context.Context, role models.Role, playerID int64, games int) (*models.SequencesReport, error) {
	if games <= 0 {
		games = s.cfg.SequenceGames
	}
	events, err := s.ownEvents(ctx, role, playerID)
	if err != nil {
		return nil, err
	}
	return &models.SequencesReport{
		PlayerID:  playerID,
		Role:      role,
		Sequences: analysis.RecentGameSequences(events, games),
	}, nil
}

// Report loads the player's histories and directory entry concurrently and
// builds every report from the one snapshot. The prediction uses the most
// recent appearance's value and modifier as priors.
func (s *patternService) Report(ctx context.Context, role models.Role, playerID int64) (*models.PatternReport, error) {
	var (
		own, peer []analysis.Event
		player    *models.Player
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		own, peer, err = loadHistories(gctx, s.events, s.players, role, playerID)
		return err
	})
	g.Go(func() error {
		p, err := s.players.GetPlayer(gctx, playerID)
		switch {
		case errors.Is(err, store.ErrPlayerNotFound):
		case err != nil:
			// The report is still useful without the directory entry
			s.logger.Warnw("Player lookup failed", "player", playerID, "error", err)
		default:
			player = p
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sorted := analysis.SortByGroup(own)
	report := &models.PatternReport{
		PlayerID:    playerID,
		Player:      player,
		Role:        role,
		Appearances: len(own),
		Values:      analysis.BuildDistribution(analysis.Values(own), analysis.ValueScheme),
		Deltas:      analysis.BuildDistribution(analysis.DeltaHistory(own), analysis.DeltaScheme),
		Modifiers:   analysis.BuildDistribution(analysis.Modifiers(own), analysis.ModifierScheme),
		Matrices: map[analysis.MatrixKind]analysis.TransitionMatrix{
			analysis.MatrixValue:    analysis.BuildTransitionMatrix(sorted, analysis.MatrixValue),
			analysis.MatrixModifier: analysis.BuildTransitionMatrix(sorted, analysis.MatrixModifier),
			analysis.MatrixDelta:    analysis.BuildTransitionMatrix(sorted, analysis.MatrixDelta),
		},
		History:     analysis.RecentHistory(own, s.cfg.HistoryLimit),
		FirstValues: analysis.FirstValuesByGroup(own),
		Sequences:   analysis.RecentGameSequences(own, s.cfg.SequenceGames),
	}

	var priorValue, priorModifier *int
	if last, ok := analysis.Latest(own); ok {
		priorValue, priorModifier = last.Value, last.Modifier
	}
	report.Prediction = predictFrom(role, playerID, own, peer, priorValue, priorModifier, s.now())
	return report, nil
}
