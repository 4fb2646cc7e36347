package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Schema creates the analysis_logs table
const Schema = `
CREATE TABLE IF NOT EXISTS analysis_logs (
	id            BIGSERIAL PRIMARY KEY,
	request_id    TEXT,
	category      TEXT NOT NULL,
	team1         TEXT NOT NULL,
	team2         TEXT NOT NULL,
	status        TEXT NOT NULL,
	latency_ms    INTEGER NOT NULL,
	error_message TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Status values for an analysis attempt
const (
	StatusSuccess     = "success"
	StatusFailed      = "failed"
	StatusRateLimited = "rate_limited"
)

// AnalysisLogger records narrative generation attempts to Postgres.
// Only request metadata is stored, never statistics or generated text.
type AnalysisLogger struct {
	db *sql.DB
}

// ExecutionLog represents an analysis_logs entry
type ExecutionLog struct {
	RequestID    string
	Category     string
	Team1        string
	Team2        string
	Status       string
	LatencyMs    int
	ErrorMessage string
}

// NewAnalysisLogger creates a new analysis logger
func NewAnalysisLogger(db *sql.DB) *AnalysisLogger {
	return &AnalysisLogger{
		db: db,
	}
}

// Open connects to Postgres and ensures the table exists
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create analysis_logs: %w", err)
	}

	return db, nil
}

// LogExecution inserts one analysis attempt
func (l *AnalysisLogger) LogExecution(ctx context.Context, log *ExecutionLog) error {
	query := `
		INSERT INTO analysis_logs (
			request_id, category, team1, team2, status, latency_ms, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := l.db.ExecContext(ctx, query,
		log.RequestID,
		log.Category,
		log.Team1,
		log.Team2,
		log.Status,
		log.LatencyMs,
		nullString(log.ErrorMessage),
	)

	if err != nil {
		return fmt.Errorf("failed to log analysis: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
