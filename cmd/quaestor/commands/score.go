package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/scheduler/jobs"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [symbols...]",
	Short: "Run the two-stage hybrid pipeline",
	Long: `Runs the full hybrid pipeline: deterministic persona pre-filter
over the given tickers, then one batched model call for the top
candidates.

Symbols come from the arguments, or from --universe when given.

Example:
  go run ./cmd/quaestor score AAPL MSFT NVDA --persona quality_value
  go run ./cmd/quaestor score --universe universe.txt --persona garp --top-n 5`,
	RunE: runScore,
}

var (
	scorePersona  string
	scoreTopN     int
	scoreUniverse string
	scoreTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scorePersona, "persona", "", "persona id (required)")
	scoreCmd.Flags().IntVar(&scoreTopN, "top-n", 0, "max finalists (default from config)")
	scoreCmd.Flags().StringVar(&scoreUniverse, "universe", "", "ticker list file")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 5*time.Minute, "run timeout")
	scoreCmd.MarkFlagRequired("persona")
}

func runScore(cmd *cobra.Command, args []string) error {
	symbols, err := resolveSymbols(args, scoreUniverse)
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

	topN := scoreTopN
	if topN <= 0 {
		topN = cfg.Scoring.DefaultTopN
	}

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	results, err := p.orchestrator.HybridScore(ctx, symbols, contracts.PersonaID(scorePersona), topN)
	if err != nil {
		return err
	}

	printResults(scorePersona, results)
	return nil
}

// resolveSymbols merges positional symbols with an optional universe file.
func resolveSymbols(args []string, universeFile string) ([]string, error) {
	symbols := make([]string, 0, len(args))
	for _, arg := range args {
		symbols = append(symbols, strings.ToUpper(strings.TrimSpace(arg)))
	}

	if universeFile != "" {
		fromFile, err := jobs.LoadUniverse(universeFile)
		if err != nil {
			return nil, fmt.Errorf("load universe: %w", err)
		}
		symbols = append(symbols, fromFile...)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols given (pass arguments or --universe)")
	}
	return symbols, nil
}

func printResults(persona string, results []contracts.HybridResult) {
	fmt.Printf("Persona: %s\n", persona)
	fmt.Printf("%-8s %6s %6s %6s  %-17s %s\n", "SYMBOL", "PRE", "FINAL", "CONF", "VERDICT", "THESIS")

	for _, r := range results {
		thesis := ""
		if len(r.Thesis) > 0 {
			thesis = r.Thesis[0]
		}
		fmt.Printf("%-8s %6d %6d %5.2f  %-17s %s\n",
			r.Symbol, r.PreliminaryScore, r.FinalScore, r.Confidence, r.Verdict, thesis)
	}

	if len(results) == 0 {
		fmt.Println("No candidates passed the pre-filter.")
	}
}
