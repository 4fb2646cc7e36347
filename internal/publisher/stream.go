package publisher

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CompletedStream receives one entry per finished comparison
const CompletedStream = "matchups.completed"

// MatchupEvent describes a finished comparison. It carries outcome
// metadata only; statistic values are never written.
type MatchupEvent struct {
	ComparisonID string
	Category     string
	Team1        string
	Team2        string
	Team1Wins    int
	Team2Wins    int
	Draws        int
	DurationMs   int64
}

// StreamPublisher publishes matchup events to a Redis stream
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: CompletedStream,
		maxLen: 10000,
	}
}

// PublishMatchup appends a matchup event to the stream
func (p *StreamPublisher) PublishMatchup(ctx context.Context, ev MatchupEvent) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"comparison_id": ev.ComparisonID,
			"category":      ev.Category,
			"team1":         ev.Team1,
			"team2":         ev.Team2,
			"team1_wins":    ev.Team1Wins,
			"team2_wins":    ev.Team2Wins,
			"draws":         ev.Draws,
			"duration_ms":   ev.DurationMs,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing matchup event: %w", err)
	}
	return nil
}
