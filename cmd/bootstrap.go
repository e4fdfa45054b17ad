package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/blog-reviewer/internal/bootstrap"
	"github.com/jonesrussell/blog-reviewer/internal/logger"
	"github.com/jonesrussell/blog-reviewer/internal/telemetry"
)

type bootstrapFlags struct {
	skipSeed        bool
	metricsTextfile string
}

func newBootstrapCommand(root *rootOptions) *cobra.Command {
	flags := &bootstrapFlags{}

	cmd := &cobra.Command{
		Use:     "bootstrap",
		Aliases: []string{"init"},
		Short:   "Create collections, validators and indexes and seed development data",
		Long: `bootstrap prepares the database. It is safe to run repeatedly: existing
collections get their validators refreshed, identical indexes are left alone
and the development author is only inserted when missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBootstrap(cmd, root, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.skipSeed, "skip-seed", false, "do not insert the development author")
	cmd.Flags().StringVar(&flags.metricsTextfile, "metrics-textfile", "",
		"write Prometheus metrics to this file after the run")
	return cmd
}

func runBootstrap(cmd *cobra.Command, root *rootOptions, flags *bootstrapFlags) error {
	deps, err := loadDeps(root)
	if err != nil {
		return err
	}
	log := deps.Logger
	defer func() { _ = log.Sync() }()

	cfg := deps.Config
	if flags.skipSeed {
		cfg.Bootstrap.SkipSeed = true
	}
	if flags.metricsTextfile != "" {
		cfg.Metrics.TextfilePath = flags.metricsTextfile
	}

	ctx, cancel := deps.operationContext(cmd.Context())
	defer cancel()

	reg := prometheus.NewRegistry()
	metrics := telemetry.New(reg)
	defer writeMetrics(cfg.Metrics.TextfilePath, reg, log)

	conn, closeConn, err := deps.connect(ctx)
	if err != nil {
		return err
	}
	defer closeConn()

	b := bootstrap.New(conn.Database(), bootstrap.Options{
		SkipSeed:          cfg.Bootstrap.SkipSeed,
		SkipValidatorSync: cfg.Bootstrap.SkipValidatorSync,
		ValidationLevel:   cfg.Bootstrap.ValidationLevel,
		ValidationAction:  cfg.Bootstrap.ValidationAction,
	}, log, metrics)

	report, err := b.Run(ctx)
	if err != nil {
		return err
	}
	return report.WriteSummary(cmd.OutOrStdout())
}

func writeMetrics(path string, g prometheus.Gatherer, log logger.Logger) {
	if path == "" {
		return
	}
	if err := telemetry.WriteTextfile(path, g); err != nil {
		log.Warn("Failed to write metrics", logger.Error(err))
		return
	}
	log.Debug("Metrics written", logger.String("path", path))
}
