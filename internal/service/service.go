package service

import (
	"context"
	"time"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/stats"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default query values when a request omits them
const (
	DefaultCategory = "passing"
	DefaultTeam1    = "texans"
	DefaultTeam2    = "chiefs"
)

// EventPublisher receives one event per finished comparison
type EventPublisher interface {
	PublishMatchup(ctx context.Context, ev publisher.MatchupEvent) error
}

// StatsService resolves teams against the roster and runs fetches and comparisons
type StatsService struct {
	registry   *registry.Registry
	aggregator *stats.Aggregator
	publisher  EventPublisher
	logger     *zap.Logger
}

// NewStatsService creates a new stats service. publisher may be nil.
func NewStatsService(reg *registry.Registry, aggregator *stats.Aggregator, publisher EventPublisher, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		registry:   reg,
		aggregator: aggregator,
		publisher:  publisher,
		logger:     logger,
	}
}

// TeamStats returns both teams' statistics for a category, keyed by team key.
// The "all" category concatenates every known category in fixed order.
func (s *StatsService) TeamStats(ctx context.Context, category, team1, team2 string) (models.TeamStatsSet, error) {
	t1, t2, err := s.resolveTeams(team1, team2)
	if err != nil {
		return nil, err
	}

	if registry.IsAggregate(category) {
		return s.aggregator.FetchAll(ctx, t1, t2, s.registry.CategoryKeys())
	}
	return s.aggregator.FetchCategory(ctx, t1, t2, category)
}

// Compare fetches both teams and pairs their statistics by name
func (s *StatsService) Compare(ctx context.Context, category, team1, team2 string) (*models.ComparisonReport, error) {
	start := time.Now()

	t1, t2, err := s.resolveTeams(team1, team2)
	if err != nil {
		return nil, err
	}

	set, err := s.TeamStats(ctx, category, t1.Key, t2.Key)
	if err != nil {
		return nil, err
	}

	results := stats.PairByName(set[t1.Key], set[t2.Key])
	w1, w2, draws := stats.Tally(results)

	report := &models.ComparisonReport{
		ComparisonID: uuid.NewString(),
		Category:     category,
		Team1:        t1.Key,
		Team2:        t2.Key,
		Stats:        set,
		Results:      results,
		Team1Wins:    w1,
		Team2Wins:    w2,
		Draws:        draws,
	}

	if registry.IsAggregate(category) {
		report.Summaries = map[string]models.CategorySummary{
			t1.Key: stats.ExtractSummary(set[t1.Key]),
			t2.Key: stats.ExtractSummary(set[t2.Key]),
		}
	}

	s.publish(ctx, report, time.Since(start))

	return report, nil
}

// Teams returns the supported roster
func (s *StatsService) Teams() []models.Team {
	return s.registry.Teams()
}

// Categories returns the selectable categories
func (s *StatsService) Categories() []models.CategoryInfo {
	return s.registry.Categories()
}

func (s *StatsService) resolveTeams(team1, team2 string) (models.Team, models.Team, error) {
	t1, err := s.registry.GetTeam(team1)
	if err != nil {
		return models.Team{}, models.Team{}, err
	}
	t2, err := s.registry.GetTeam(team2)
	if err != nil {
		return models.Team{}, models.Team{}, err
	}
	return t1, t2, nil
}

// publish is best effort; a failed publish never fails the comparison
func (s *StatsService) publish(ctx context.Context, report *models.ComparisonReport, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishMatchup(ctx, publisher.MatchupEvent{
		ComparisonID: report.ComparisonID,
		Category:     report.Category,
		Team1:        report.Team1,
		Team2:        report.Team2,
		Team1Wins:    report.Team1Wins,
		Team2Wins:    report.Team2Wins,
		Draws:        report.Draws,
		DurationMs:   elapsed.Milliseconds(),
	})
	if err != nil {
		s.logger.Warn("failed to publish matchup event",
			zap.String("comparison_id", report.ComparisonID),
			zap.Error(err))
	}
}
