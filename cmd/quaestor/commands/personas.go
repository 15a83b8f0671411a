package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quaestorlabs/quaestor/backend/internal/personas"
)

// personasCmd represents the personas command
var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List registered investor personas",
	Long: `Lists every persona the registry knows about, including any
loaded from the PERSONA_OVERRIDES_FILE YAML file.

Example:
  go run ./cmd/quaestor personas`,
	RunE: runPersonas,
}

func init() {
	rootCmd.AddCommand(personasCmd)
}

func runPersonas(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadEnv()
	if err != nil {
		return err
	}

	var registry *personas.Registry
	if cfg.Scoring.PersonaOverrides != "" {
		registry, err = personas.LoadWithOverrides(cfg.Scoring.PersonaOverrides)
	} else {
		registry, err = personas.Builtin()
	}
	if err != nil {
		return err
	}

	fmt.Printf("%-16s %-24s %9s  %s\n", "ID", "NAME", "THRESHOLD", "CATEGORIES")
	for _, c := range registry.All() {
		fmt.Printf("%-16s %-24s %9d  %s\n",
			c.ID, c.Name, c.MinThreshold, strings.Join(c.CategoryNames(), ", "))
	}
	return nil
}
