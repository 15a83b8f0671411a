package prefilter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/scoring"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// PreFilter cheaply scores a whole ticker universe with the deterministic
// engine so that only the strongest candidates reach the expensive model
// stage.
type PreFilter struct {
	provider contracts.SnapshotProvider
	engine   *scoring.Engine
	logger   *logger.Logger
}

// New creates a pre-filter stage.
func New(provider contracts.SnapshotProvider, engine *scoring.Engine, log *logger.Logger) *PreFilter {
	return &PreFilter{
		provider: provider,
		engine:   engine,
		logger:   log,
	}
}

// Run fetches snapshots for the universe in one batched request, scores
// every ticker that carries ratio data and returns the survivors sorted
// by preliminary score descending.
//
// A ticker with no snapshot or no ratio bundle is skipped, never scored
// zero: a fabricated zero would corrupt the ranking.
func (p *PreFilter) Run(ctx context.Context, symbols []string, persona contracts.PersonaID) ([]contracts.PreFilterResult, error) {
	// Callers pass tickers as typed: the provider keys its snapshot map
	// by the upper-cased symbol, so normalize and dedupe once here.
	normalized := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		normalized = append(normalized, symbol)
	}
	symbols = normalized

	snapshots, err := p.provider.GetBatch(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshots: %w", err)
	}

	results := make([]contracts.PreFilterResult, 0, len(symbols))
	skipped := 0

	for _, symbol := range symbols {
		data, ok := snapshots[symbol]
		if !ok || data == nil || data.Ratios == nil {
			skipped++
			p.logger.WithFields(map[string]interface{}{
				"symbol":  symbol,
				"persona": persona,
			}).Debug("Skipping ticker without ratio data")
			continue
		}

		score, scored, err := p.engine.Score(data.Ratios, persona)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", symbol, err)
		}
		if !scored {
			skipped++
			p.logger.WithFields(map[string]interface{}{
				"symbol":  symbol,
				"persona": persona,
			}).Debug("Skipping ticker with insufficient metrics")
			continue
		}

		results = append(results, contracts.PreFilterResult{
			Symbol:           symbol,
			PreliminaryScore: score,
			Data:             data,
		})
	}

	// Descending by preliminary score; ties keep input order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PreliminaryScore > results[j].PreliminaryScore
	})

	p.logger.WithFields(map[string]interface{}{
		"persona":  persona,
		"universe": len(symbols),
		"scored":   len(results),
		"skipped":  skipped,
	}).Info("Pre-filter completed")

	return results, nil
}
