package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quaestor",
	Short: "Quaestor - persona-driven equity scoring",
	Long: `Quaestor CLI

Two-stage hybrid scoring: a deterministic persona pre-filter over a
ticker universe, then one batched generative-model call for the
finalists.

Examples:
  go run ./cmd/quaestor api
  go run ./cmd/quaestor score AAPL MSFT NVDA --persona quality_value
  go run ./cmd/quaestor prefilter --universe universe.txt --persona garp
  go run ./cmd/quaestor breakdown AAPL --persona deep_value
  go run ./cmd/quaestor personas`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
