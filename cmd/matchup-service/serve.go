package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/audit"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/llm"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/middleware"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/narrative"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return runServer(a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	return cmd
}

func runServer(a *app) error {
	fmt.Println("=== Fortuna Matchup Service v0 ===")
	fmt.Printf("✓ Registry loaded: %s\n", a.registry)

	ctx := context.Background()
	cfg := a.cfg

	if err := a.connectRedis(ctx); err != nil {
		return err
	}
	if a.redis != nil {
		fmt.Println("✓ Connected to Redis")
	} else {
		fmt.Println("⚠️  REDIS_URL not set, rate limiting and matchup events disabled")
	}

	var auditDB *sql.DB
	if cfg.Postgres.AuditDSN != "" {
		db, err := audit.Open(ctx, cfg.Postgres.AuditDSN)
		if err != nil {
			return err
		}
		auditDB = db
		defer auditDB.Close()
		fmt.Println("✓ Connected to analysis log database")
	}

	llmClient, err := llm.NewClient(cfg.Completion.APIKey, cfg.Completion.BaseURL)
	if err != nil {
		return err
	}
	generator := narrative.NewGenerator(llmClient, a.registry, cfg.Completion.Model, a.logger.Named("narrative"))

	analyzeOpts := []handlers.AnalyzeOption{handlers.WithLogger(a.logger.Named("analyze"))}
	if a.redis != nil {
		analyzeOpts = append(analyzeOpts, handlers.WithLimiter(
			ratelimit.NewTokenBucket(a.redis, cfg.RateLimit.MaxRequests, cfg.RateLimit.Period)))
	}
	if auditDB != nil {
		analyzeOpts = append(analyzeOpts, handlers.WithRecorder(audit.NewAnalysisLogger(auditDB)))
	}

	handler := handlers.NewHandler(a.statsService(), cfg.Server.RequestTimeout)
	analyzeHandler := handlers.NewAnalyzeHandler(generator, cfg.Server.RequestTimeout, analyzeOpts...)

	// Setup router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(a.logger.Named("http")))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout + 5*time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handlers.Mount(r, handler, analyzeHandler)

	// Narrative generation can take most of a minute
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Matchup service listening on %s\n", cfg.Server.Addr)
		fmt.Println("  Endpoints (also under /api and /api/v1):")
		fmt.Println("    GET  /health")
		fmt.Println("    GET  /stats?category=&team1=&team2=")
		fmt.Println("    GET  /compare?category=&team1=&team2=")
		fmt.Println("    GET  /teams")
		fmt.Println("    GET  /categories")
		fmt.Println("    POST /analyze")

		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			a.logger.Warn("graceful shutdown failed", zap.Error(err))
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
	return nil
}
