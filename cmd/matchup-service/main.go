// Command matchup-service compares two NFL teams' season statistics and
// writes a short matchup analysis.
//
// Usage:
//
//	matchup-service serve
//	matchup-service compare --category passing --team1 texans --team2 chiefs
//	matchup-service compare --category all --analyze
//	matchup-service teams
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/config"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/providers/nflapi"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/retry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/service"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/stats"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:           "matchup-service",
		Short:         "NFL team matchup statistics and analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(teamsCmd())

	if err := root.Execute(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command needs after startup
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *registry.Registry
	redis    *redis.Client
}

// bootstrap loads config, validates it and builds the logger
func bootstrap() (*app, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry.New(),
	}, nil
}

// connectRedis is a no-op when REDIS_URL is unset
func (a *app) connectRedis(ctx context.Context) error {
	if a.cfg.Redis.URL == "" {
		return nil
	}

	opts, err := redis.ParseURL(a.cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	a.redis = client
	return nil
}

func (a *app) statsService() *service.StatsService {
	client := nflapi.New(a.cfg.Provider.APIKey,
		nflapi.WithBaseURL(a.providerURL()),
		nflapi.WithRetryPolicy(retry.NewRetryPolicy(a.cfg.Provider.MaxRetries, a.cfg.Provider.RetryDelay)),
		nflapi.WithLogger(a.logger.Named("nflapi")),
	)

	aggregator := stats.NewAggregator(client, a.cfg.Provider.Season, a.logger.Named("aggregator"))

	var pub service.EventPublisher
	if a.redis != nil {
		pub = publisher.NewStreamPublisher(a.redis)
	}

	return service.NewStatsService(a.registry, aggregator, pub, a.logger.Named("service"))
}

func (a *app) providerURL() string {
	if a.cfg.Provider.BaseURL != "" {
		return a.cfg.Provider.BaseURL
	}
	return "https://" + nflapi.DefaultHost
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.logger.Sync()
}
