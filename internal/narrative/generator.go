package narrative

import (
	"context"
	"errors"
	"strings"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/llm"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/stats"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
	"go.uber.org/zap"
)

// SeasonGames is the regular season length assumed by the score prediction
const SeasonGames = 17

// Completion settings per mode
const (
	Temperature          = 0.5
	CategoryMaxTokens    = 1000
	AllCategoryMaxTokens = 750
)

// LLMClient defines the completion operation the generator needs
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Generator turns a pair of stat lists into a written matchup analysis
type Generator struct {
	llmClient LLMClient
	registry  *registry.Registry
	model     string
	logger    *zap.Logger
}

// NewGenerator creates a new narrative generator
func NewGenerator(llmClient LLMClient, reg *registry.Registry, model string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = llm.DefaultModel
	}
	return &Generator{
		llmClient: llmClient,
		registry:  reg,
		model:     model,
		logger:    logger,
	}
}

// BuildPrompt picks the template for the request's mode and returns the
// prompt with the completion options to send it with
func (g *Generator) BuildPrompt(req models.AnalysisRequest) (string, llm.TextGenerationOptions) {
	if registry.IsAggregate(req.Category) {
		s1 := stats.ExtractSummary(req.Team1Stats)
		s2 := stats.ExtractSummary(req.Team2Stats)
		return BuildAllCategoriesPrompt(req.Team1, req.Team2, s1, s2), llm.TextGenerationOptions{
			Model:       g.model,
			Temperature: Temperature,
			MaxTokens:   AllCategoryMaxTokens,
		}
	}

	label := g.registry.DisplayName(req.Category)
	paired := stats.PairByName(req.Team1Stats, req.Team2Stats)
	return BuildCategoryPrompt(label, req.Team1, req.Team2, paired), llm.TextGenerationOptions{
		Model:       g.model,
		Temperature: Temperature,
		MaxTokens:   CategoryMaxTokens,
	}
}

// Generate submits the prompt once. Every failure is a *models.CompletionError.
func (g *Generator) Generate(ctx context.Context, req models.AnalysisRequest) (string, error) {
	prompt, opts := g.BuildPrompt(req)

	g.logger.Debug("submitting analysis prompt",
		zap.String("category", req.Category),
		zap.Int("max_tokens", opts.MaxTokens),
		zap.Int("prompt_chars", len(prompt)))

	text, err := g.llmClient.GenerateText(ctx, prompt, opts)
	if err != nil {
		return "", &models.CompletionError{Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &models.CompletionError{Err: errors.New("empty completion")}
	}

	return text, nil
}
