package cmd

import (
	"context"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goof2/bfmine/internal/watch"
	"github.com/goof2/bfmine/pipeline"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rerun the pipeline whenever a source program changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runWatch(ctx, cmd.OutOrStdout(), logger, cfg, watchDebounce)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before rebuilding after a change")
}

func runWatch(ctx context.Context, out io.Writer, logger *zap.Logger, cfg pipeline.Config, debounce time.Duration) error {
	rebuild := func() error {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return runPipeline(runCtx, out, logger, cfg, io.Discard, -1)
	}

	// build once so the outputs exist before the first change
	if err := rebuild(); err != nil {
		logger.Error("Initial build failed", zap.Error(err))
	}

	var exts []string
	if cfg.Extension != "" {
		exts = []string{cfg.Extension}
	}
	return watch.New(logger, cfg.SourceDir, exts, debounce, rebuild).
		Recursive(cfg.Recursive).
		Run(ctx)
}
