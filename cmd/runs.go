package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/scheduler"
)

// runOnce executes a single automation run and tears the app down after.
func runOnce(build func(a *app) scheduler.Runner) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		a, err := newApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.close()

		_, err = build(a).Run(context.Background())
		return err
	}
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one discovery pass (search, scrape, classify, persist)",
	RunE:  runOnce(func(a *app) scheduler.Runner { return a.discovery() }),
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Snapshot metrics and scores for every approved tool",
	RunE:  runOnce(func(a *app) scheduler.Runner { return a.metricsUpdater() }),
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-scrape a batch of stale tools and apply changed fields",
	RunE:  runOnce(func(a *app) scheduler.Runner { return a.refresher() }),
}

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run all automation pipelines on their cron schedules",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		a, err := newApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.close()

		sched := scheduler.New(log)
		entries := []struct {
			runType string
			spec    string
			runner  scheduler.Runner
		}{
			{domain.RunTypeDiscovery, cfg.Scheduler.DiscoverySchedule, a.discovery()},
			{domain.RunTypeMetrics, cfg.Scheduler.MetricsSchedule, a.metricsUpdater()},
			{domain.RunTypeRefresh, cfg.Scheduler.RefreshSchedule, a.refresher()},
		}
		for _, entry := range entries {
			if err := sched.Register(entry.runType, entry.spec, entry.runner); err != nil {
				return err
			}
		}

		sched.Start()
		defer sched.Stop()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		log.Info("scheduler running")
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd, metricsCmd, refreshCmd, schedulerCmd)
}
