package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quaestorlabs/quaestor/backend/internal/api"
	"github.com/quaestorlabs/quaestor/backend/internal/api/handlers"
	"github.com/quaestorlabs/quaestor/backend/internal/metrics"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                 - Health check
  GET  /metrics                - Prometheus metrics
  GET  /ws/progress            - Pipeline progress stream (websocket)
  GET  /api/personas           - List personas
  GET  /api/personas/{id}      - Persona scoring criteria
  POST /api/score/hybrid       - Run the two-stage pipeline
  POST /api/score/prefilter    - Run only the deterministic stage
  GET  /api/score/breakdown    - Per-category score decomposition
  GET  /api/score/runs         - Recent persisted runs

Example:
  go run ./cmd/quaestor api
  go run ./cmd/quaestor api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	reg := metrics.NewRegistry()
	hub := api.NewProgressHub(log)

	p, cleanup, err := buildPipeline(cfg, log, hub, reg)
	if err != nil {
		return err
	}
	defer cleanup()

	personasHandler := handlers.NewPersonasHandler(p.registry, log)
	scoringHandler := handlers.NewScoringHandler(
		p.provider, p.engine, p.prefilter, p.orchestrator, p.runs,
		cfg.Scoring.DefaultTopN, log,
	)

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = reg.Handler()
	}

	router := api.NewRouter(api.RouterDeps{
		Personas:       personasHandler,
		Scoring:        scoringHandler,
		ProgressHub:    hub,
		MetricsHandler: metricsHandler,
	}, log)

	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
