package nflapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/retry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
	"go.uber.org/zap"
)

const (
	DefaultHost = "nfl-api-data.p.rapidapi.com"

	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 1 * time.Second
)

// Client handles RapidAPI nfl-api-data requests
type Client struct {
	baseURL    string
	host       string
	apiKey     string
	httpClient *http.Client
	retry      *retry.RetryPolicy
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different server (tests use httptest)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient overrides the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryPolicy overrides the 3 attempts / 1s policy
func WithRetryPolicy(p *retry.RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new provider client
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: "https://" + DefaultHost,
		host:    DefaultHost,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry:  retry.NewRetryPolicy(DefaultMaxAttempts, DefaultRetryDelay),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// teamStatsResponse is the subset of the provider payload we rely on
type teamStatsResponse struct {
	Error      json.RawMessage `json:"error"`
	Statistics *struct {
		Splits *struct {
			Categories []models.Category `json:"categories"`
		} `json:"splits"`
	} `json:"statistics"`
}

// attemptError tags a single attempt failure with its kind
type attemptError struct {
	kind models.ProviderErrorKind
	err  error
}

func (e *attemptError) Error() string { return e.err.Error() }
func (e *attemptError) Unwrap() error { return e.err }

// FetchTeamCategories fetches a team's season statistics grouped by category.
// Failures are retried per the client's policy and surface as *models.ProviderError.
func (c *Client) FetchTeamCategories(ctx context.Context, teamID, season string) ([]models.Category, error) {
	if c.apiKey == "" {
		return nil, &models.ProviderError{
			Kind:   models.ProviderTransport,
			TeamID: teamID,
			Err:    errors.New("RAPIDAPI_KEY is not set"),
		}
	}

	q := url.Values{}
	q.Set("id", teamID)
	q.Set("year", season)
	endpoint := fmt.Sprintf("%s/nfl-team-statistics?%s", c.baseURL, q.Encode())

	var categories []models.Category
	attempt := 0
	attempts, err := c.retry.Execute(ctx, func(ctx context.Context) error {
		attempt++
		cats, err := c.fetch(ctx, endpoint)
		if err != nil {
			if attempt < c.retry.MaxAttempts() {
				c.logger.Warn("provider request failed, retrying",
					zap.String("team_id", teamID),
					zap.Int("attempt", attempt),
					zap.Int("attempts_left", c.retry.MaxAttempts()-attempt),
					zap.Error(err))
			}
			return err
		}
		categories = cats
		return nil
	})
	if err != nil {
		kind := models.ProviderTransport
		var ae *attemptError
		if errors.As(err, &ae) {
			kind = ae.kind
		}
		return nil, &models.ProviderError{Kind: kind, TeamID: teamID, Attempts: attempts, Err: err}
	}

	c.logger.Debug("fetched team statistics",
		zap.String("team_id", teamID),
		zap.String("season", season),
		zap.Int("categories", len(categories)),
		zap.Int("attempts", attempts))

	return categories, nil
}

// fetch performs one attempt
func (c *Client) fetch(ctx context.Context, endpoint string) ([]models.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &attemptError{models.ProviderTransport, fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &attemptError{models.ProviderTransport, fmt.Errorf("making request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &attemptError{models.ProviderTransport, fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &attemptError{models.ProviderStatus, fmt.Errorf("provider API error: status=%d, body=%s", resp.StatusCode, truncate(body, 256))}
	}

	var payload teamStatsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &attemptError{models.ProviderDecode, fmt.Errorf("decoding response: %w", err)}
	}

	if msg, ok := upstreamError(payload.Error); ok {
		return nil, &attemptError{models.ProviderUpstream, fmt.Errorf("provider returned error: %s", msg)}
	}

	if payload.Statistics == nil || payload.Statistics.Splits == nil || payload.Statistics.Splits.Categories == nil {
		return nil, &attemptError{models.ProviderMalformed, errors.New("invalid API response structure: missing statistics.splits.categories")}
	}

	return payload.Statistics.Splits.Categories, nil
}

// upstreamError reports whether the body's error field carries a value
func upstreamError(raw json.RawMessage) (string, bool) {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "false", "0", `""`:
		return "", false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, true
	}
	return s, true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
