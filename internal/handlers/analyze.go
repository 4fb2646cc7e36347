package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/audit"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Narrator produces the narrative for an analysis request
type Narrator interface {
	Generate(ctx context.Context, req models.AnalysisRequest) (string, error)
}

// Limiter gates narrative generations
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// ExecutionRecorder stores analysis attempt metadata
type ExecutionRecorder interface {
	LogExecution(ctx context.Context, log *audit.ExecutionLog) error
}

// AnalyzeHandler handles narrative generation requests
type AnalyzeHandler struct {
	narrator Narrator
	limiter  Limiter
	recorder ExecutionRecorder
	timeout  time.Duration
	logger   *zap.Logger
}

// AnalyzeOption configures an AnalyzeHandler
type AnalyzeOption func(*AnalyzeHandler)

// WithLimiter enables rate limiting of /analyze
func WithLimiter(l Limiter) AnalyzeOption {
	return func(h *AnalyzeHandler) { h.limiter = l }
}

// WithRecorder enables the analysis execution log
func WithRecorder(r ExecutionRecorder) AnalyzeOption {
	return func(h *AnalyzeHandler) { h.recorder = r }
}

// WithLogger sets the handler's logger
func WithLogger(l *zap.Logger) AnalyzeOption {
	return func(h *AnalyzeHandler) { h.logger = l }
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(narrator Narrator, timeout time.Duration, opts ...AnalyzeOption) *AnalyzeHandler {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	h := &AnalyzeHandler{
		narrator: narrator,
		timeout:  timeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Analyze generates a narrative comparison of two teams' statistics
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if strings.TrimSpace(req.Category) == "" {
		respondError(w, http.StatusBadRequest, "category is required", nil)
		return
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(r.Context())
		if err != nil {
			// Redis trouble should not take analysis down with it
			h.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		} else if !allowed {
			h.record(r, req, audit.StatusRateLimited, start, "")
			respondError(w, http.StatusTooManyRequests, "too many analysis requests, try again shortly", nil)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := h.narrator.Generate(ctx, req)
	if err != nil {
		h.record(r, req, audit.StatusFailed, start, err.Error())
		respondError(w, http.StatusInternalServerError, "Failed to analyze stats comparison.", err)
		return
	}

	h.record(r, req, audit.StatusSuccess, start, "")
	respondJSON(w, http.StatusOK, models.AnalysisResponse{Summary: summary})
}

func (h *AnalyzeHandler) record(r *http.Request, req models.AnalysisRequest, status string, start time.Time, errMsg string) {
	if h.recorder == nil {
		return
	}

	err := h.recorder.LogExecution(r.Context(), &audit.ExecutionLog{
		RequestID:    chimiddleware.GetReqID(r.Context()),
		Category:     req.Category,
		Team1:        req.Team1,
		Team2:        req.Team2,
		Status:       status,
		LatencyMs:    int(time.Since(start).Milliseconds()),
		ErrorMessage: errMsg,
	})
	if err != nil {
		h.logger.Warn("failed to record analysis", zap.String("status", status), zap.Error(err))
	}
}
