package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/toolscout/internal/api"
	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/telemetry"
)

var httpdCmd = &cobra.Command{
	Use:   "httpd",
	Short: "Serve the catalog REST API",
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

		metrics := telemetry.New(nil)
		a.classifier.SetObserver(func(source string) {
			metrics.Classifications.WithLabelValues(source).Inc()
		})

		runners := api.Runners{
			domain.RunTypeDiscovery: metrics.InstrumentRunner(domain.RunTypeDiscovery, a.discovery()),
			domain.RunTypeMetrics:   metrics.InstrumentRunner(domain.RunTypeMetrics, a.metricsUpdater()),
			domain.RunTypeRefresh:   metrics.InstrumentRunner(domain.RunTypeRefresh, a.refresher()),
		}

		server := api.New(cfg, a.store, runners, metrics, a.degraded, log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(httpdCmd)
}
