package jobs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/quaestorlabs/quaestor/backend/internal/hybrid"
	"github.com/quaestorlabs/quaestor/backend/internal/personas"
	"github.com/quaestorlabs/quaestor/backend/pkg/config"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// ScanJob runs the hybrid pipeline over the configured ticker universe
// for every registered persona once a day, after US market close.
type ScanJob struct {
	orchestrator *hybrid.Orchestrator
	registry     *personas.Registry
	config       *config.Config
	logger       *logger.Logger
}

// NewScanJob creates a new universe scan job
func NewScanJob(orch *hybrid.Orchestrator, registry *personas.Registry, cfg *config.Config, log *logger.Logger) *ScanJob {
	return &ScanJob{
		orchestrator: orch,
		registry:     registry,
		config:       cfg,
		logger:       log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "universe_scan"
}

// Schedule returns the cron schedule (5 PM ET is 22:00 UTC)
func (j *ScanJob) Schedule() string {
	return "0 0 22 * * 1-5" // weekdays after market close (with seconds)
}

// Run executes one scan across all personas
func (j *ScanJob) Run(ctx context.Context) error {
	symbols, err := LoadUniverse(j.config.Scoring.UniverseFile)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}
	if len(symbols) == 0 {
		return fmt.Errorf("universe file %s is empty", j.config.Scoring.UniverseFile)
	}

	j.logger.WithFields(map[string]interface{}{
		"universe": len(symbols),
		"personas": len(j.registry.IDs()),
	}).Info("Starting scheduled universe scan")

	var failed int
	for _, persona := range j.registry.IDs() {
		results, err := j.orchestrator.HybridScore(ctx, symbols, persona, j.config.Scoring.DefaultTopN)
		if err != nil {
			failed++
			j.logger.WithError(err).WithFields(map[string]interface{}{
				"persona": persona,
			}).Error("Scan failed for persona")
			continue
		}

		j.logger.WithFields(map[string]interface{}{
			"persona": persona,
			"results": len(results),
		}).Info("Scan completed for persona")
	}

	if failed == len(j.registry.IDs()) {
		return fmt.Errorf("scan failed for all %d personas", failed)
	}
	return nil
}

// LoadUniverse reads a newline-separated ticker list. Blank lines and
// lines starting with # are skipped.
func LoadUniverse(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("no universe file configured")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var symbols []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, strings.ToUpper(line))
	}

	return symbols, nil
}
