package stats

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
	"go.uber.org/zap"
)

// Fetcher is the provider operation the aggregator depends on
type Fetcher interface {
	FetchTeamCategories(ctx context.Context, teamID, season string) ([]models.Category, error)
}

// Aggregator fetches and normalizes statistics for a pair of teams
type Aggregator struct {
	fetcher Fetcher
	season  string
	logger  *zap.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(fetcher Fetcher, season string, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		fetcher: fetcher,
		season:  season,
		logger:  logger,
	}
}

type fetchResult struct {
	stats []models.Statistic
	err   error
}

// FetchCategory fetches both teams concurrently and selects one category
func (a *Aggregator) FetchCategory(ctx context.Context, team1, team2 models.Team, key string) (models.TeamStatsSet, error) {
	teams := []models.Team{team1, team2}
	results := make([]fetchResult, len(teams))

	var wg sync.WaitGroup
	for i, team := range teams {
		wg.Add(1)
		go func(i int, team models.Team) {
			defer wg.Done()
			results[i] = a.fetchOne(ctx, team, key)
		}(i, team)
	}
	wg.Wait()

	set := make(models.TeamStatsSet, len(teams))
	for i, team := range teams {
		if results[i].err != nil {
			return nil, results[i].err
		}
		set[team.Key] = results[i].stats
	}
	return set, nil
}

// FetchAll issues one fetch per (team, category key), waits for every one of
// them, and concatenates each team's statistics in key order. Any failure
// fails the aggregation.
func (a *Aggregator) FetchAll(ctx context.Context, team1, team2 models.Team, keys []string) (models.TeamStatsSet, error) {
	teams := []models.Team{team1, team2}
	results := make([][]fetchResult, len(teams))
	for i := range results {
		results[i] = make([]fetchResult, len(keys))
	}

	var wg sync.WaitGroup
	for ti, team := range teams {
		for ki, key := range keys {
			wg.Add(1)
			go func(ti, ki int, team models.Team, key string) {
				defer wg.Done()
				results[ti][ki] = a.fetchOne(ctx, team, key)
			}(ti, ki, team, key)
		}
	}
	wg.Wait()

	set := make(models.TeamStatsSet, len(teams))
	for ti, team := range teams {
		var combined []models.Statistic
		for ki := range keys {
			r := results[ti][ki]
			if r.err != nil {
				return nil, r.err
			}
			combined = append(combined, r.stats...)
		}
		if len(combined) == 0 {
			return nil, &models.EmptyResultError{Team: team.Key}
		}
		set[team.Key] = combined
	}

	a.logger.Info("aggregated all categories",
		zap.String("team1", team1.Key),
		zap.String("team2", team2.Key),
		zap.Int("categories", len(keys)),
		zap.Int("team1_stats", len(set[team1.Key])),
		zap.Int("team2_stats", len(set[team2.Key])))

	return set, nil
}

func (a *Aggregator) fetchOne(ctx context.Context, team models.Team, key string) fetchResult {
	categories, err := a.fetcher.FetchTeamCategories(ctx, team.ProviderID, a.season)
	if err != nil {
		return fetchResult{err: err}
	}

	stats, err := SelectCategory(categories, key)
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			nf.Team = team.Key
		}
		return fetchResult{err: err}
	}
	return fetchResult{stats: stats}
}

// ExtractSummary picks the eight headline values by first alias match.
// Fields without a match are registry.NotAvailable.
func ExtractSummary(stats []models.Statistic) models.CategorySummary {
	var summary models.CategorySummary
	for _, field := range registry.SummaryFields {
		field.Set(&summary, FirstMatch(stats, field.Aliases))
	}
	return summary
}

// FirstMatch returns the value of the first statistic whose name contains any alias
func FirstMatch(stats []models.Statistic, aliases []string) string {
	for _, s := range stats {
		for _, alias := range aliases {
			if strings.Contains(s.Name, alias) {
				if s.Value == "" {
					return registry.NotAvailable
				}
				return s.Value
			}
		}
	}
	return registry.NotAvailable
}
