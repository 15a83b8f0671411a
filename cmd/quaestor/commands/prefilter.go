package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// prefilterCmd represents the prefilter command
var prefilterCmd = &cobra.Command{
	Use:   "prefilter [symbols...]",
	Short: "Run only the deterministic pre-filter stage",
	Long: `Scores tickers against a persona's bracket tables without any
model call. Useful for checking which candidates would reach the
model stage, or when only API keys for market data are available.

Example:
  go run ./cmd/quaestor prefilter AAPL MSFT KO --persona dividend_income
  go run ./cmd/quaestor prefilter --universe universe.txt --persona fortress`,
	RunE: runPrefilter,
}

var (
	prefilterPersona  string
	prefilterUniverse string
)

func init() {
	rootCmd.AddCommand(prefilterCmd)

	prefilterCmd.Flags().StringVar(&prefilterPersona, "persona", "", "persona id (required)")
	prefilterCmd.Flags().StringVar(&prefilterUniverse, "universe", "", "ticker list file")
	prefilterCmd.MarkFlagRequired("persona")
}

func runPrefilter(cmd *cobra.Command, args []string) error {
	symbols, err := resolveSymbols(args, prefilterUniverse)
	if err != nil {
		return err
	}

	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(cfg, log, nil, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	persona := contracts.PersonaID(prefilterPersona)
	results, err := p.prefilter.Run(ctx, symbols, persona)
	if err != nil {
		return err
	}

	threshold, err := p.registry.MinThreshold(persona)
	if err != nil {
		return err
	}

	fmt.Printf("Persona: %s (opportunity threshold %d)\n", prefilterPersona, threshold)
	fmt.Printf("%-8s %6s  %s\n", "SYMBOL", "SCORE", "OPPORTUNITY")
	for _, r := range results {
		marker := ""
		if r.PreliminaryScore >= threshold {
			marker = "yes"
		}
		fmt.Printf("%-8s %6d  %s\n", r.Symbol, r.PreliminaryScore, marker)
	}

	if len(results) == 0 {
		fmt.Println("No tickers had enough financial data to score.")
	}
	return nil
}
