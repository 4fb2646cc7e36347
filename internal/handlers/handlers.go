package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/service"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
	"go.uber.org/zap"
)

// StatsService is the pipeline the stats handlers depend on
type StatsService interface {
	TeamStats(ctx context.Context, category, team1, team2 string) (models.TeamStatsSet, error)
	Compare(ctx context.Context, category, team1, team2 string) (*models.ComparisonReport, error)
	Teams() []models.Team
	Categories() []models.CategoryInfo
}

// Handler serves statistics, comparisons and the static tables
type Handler struct {
	stats   StatsService
	timeout time.Duration
}

// NewHandler creates a new handler with dependencies
func NewHandler(stats StatsService, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Handler{
		stats:   stats,
		timeout: timeout,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "matchup-service",
	})
}

// GetStats returns both teams' statistics for a category
// Query params: category, team1, team2
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	category, team1, team2 := selection(r)

	set, err := h.stats.TeamStats(ctx, category, team1, team2)
	if err != nil {
		respondServiceError(w, err, "Failed to generate NFL stat. Please check the API endpoint and key.")
		return
	}

	respondJSON(w, http.StatusOK, set)
}

// Compare returns a server-side comparison report
// Query params: category, team1, team2
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	category, team1, team2 := selection(r)

	report, err := h.stats.Compare(ctx, category, team1, team2)
	if err != nil {
		respondServiceError(w, err, "failed to compare teams")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetTeams returns the supported roster
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams := h.stats.Teams()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

// GetCategories returns the selectable categories
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.stats.Categories()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

func selection(r *http.Request) (category, team1, team2 string) {
	q := r.URL.Query()
	category = q.Get("category")
	if category == "" {
		category = service.DefaultCategory
	}
	team1 = q.Get("team1")
	if team1 == "" {
		team1 = service.DefaultTeam1
	}
	team2 = q.Get("team2")
	if team2 == "" {
		team2 = service.DefaultTeam2
	}
	return category, team1, team2
}

// statusFor maps a pipeline error to an HTTP status
func statusFor(err error) int {
	var invalid *models.InvalidTeamError
	var notFound *models.NotFoundError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes a pipeline error. Client errors carry their own
// message and the list of valid choices; server errors get fallback.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)

	var invalid *models.InvalidTeamError
	var notFound *models.NotFoundError

	switch {
	case errors.As(err, &invalid):
		respondErrorWithChoices(w, status, err.Error(), invalid.Available)
	case errors.As(err, &notFound):
		respondErrorWithChoices(w, status, err.Error(), notFound.Available)
	default:
		respondError(w, status, fallback, err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("error encoding response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		zap.L().Error(message, zap.Int("status", status), zap.Error(err))
	}

	respondJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func respondErrorWithChoices(w http.ResponseWriter, status int, message string, available []string) {
	respondJSON(w, status, models.ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      status,
		Available: available,
	})
}
