package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quaestorlabs/quaestor/backend/internal/scheduler"
	"github.com/quaestorlabs/quaestor/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run scheduled universe scans",
	Long: `Starts the cron scheduler. The universe scan job runs the hybrid
pipeline for every persona over the configured SCORING_UNIVERSE_FILE
each weekday after US market close.

Example:
  go run ./cmd/quaestor scheduler
  go run ./cmd/quaestor scheduler --run-now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "trigger the scan immediately on start")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	if cfg.Scoring.UniverseFile == "" {
		return fmt.Errorf("SCORING_UNIVERSE_FILE must be set for scheduled scans")
	}

	p, cleanup, err := buildPipeline(cfg, log, nil, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	sched := scheduler.New(log)
	scanJob := jobs.NewScanJob(p.orchestrator, p.registry, cfg, log)
	if err := sched.AddJob(scanJob); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(scanJob.Name()); err != nil {
			return err
		}
	}

	fmt.Println("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
