package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// breakdownCmd represents the breakdown command
var breakdownCmd = &cobra.Command{
	Use:   "breakdown [symbol]",
	Short: "Show the per-category score decomposition for one ticker",
	Long: `Fetches the ticker's financial snapshot and prints how each
metric landed in the persona's bracket tables.

Example:
  go run ./cmd/quaestor breakdown AAPL --persona quality_value`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakdown,
}

var breakdownPersona string

func init() {
	rootCmd.AddCommand(breakdownCmd)

	breakdownCmd.Flags().StringVar(&breakdownPersona, "persona", "", "persona id (required)")
	breakdownCmd.MarkFlagRequired("persona")
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(strings.TrimSpace(args[0]))

	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(cfg, log, nil, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	snapshots, err := p.provider.GetBatch(ctx, []string{symbol})
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	data, ok := snapshots[symbol]
	if !ok || !data.HasRatios() {
		return fmt.Errorf("no financial ratios available for %s", symbol)
	}

	breakdown, err := p.engine.Breakdown(data.Ratios, contracts.PersonaID(breakdownPersona))
	if err != nil {
		return err
	}

	fmt.Printf("%s / %s: %d\n", symbol, breakdownPersona, breakdown.Score)
	for _, cat := range breakdown.Categories {
		fmt.Printf("\n%s (weight %.2f): %.1f / %.1f\n", cat.Name, cat.Weight, cat.RawPoints, cat.MaxPoints)
		for _, m := range cat.Metrics {
			fmt.Printf("  %-18s %10.3f -> %5.1f pts (%s)\n", m.Metric, m.Value, m.Points, m.Label)
		}
	}
	return nil
}
