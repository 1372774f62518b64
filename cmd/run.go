package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goof2/bfmine/formatter"
	"github.com/goof2/bfmine/pipeline"
)

var runTop int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run collect, mine and compile with the configured paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		return runPipeline(ctx, cmd.OutOrStdout(), logger, cfg, progressWriter(noProgress), runTop)
	},
}

func init() {
	runCmd.Flags().IntVar(&runTop, "top", 10, "Number of top rules to print (0 prints all, negative prints none)")
	runCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not render a progress bar")
}

func runPipeline(ctx context.Context, out io.Writer, logger *zap.Logger, cfg pipeline.Config, progress io.Writer, top int) error {
	stages, err := pipeline.Stages(cfg, logger, progress)
	if err != nil {
		return err
	}
	if err := pipeline.Run(ctx, logger, stages); err != nil {
		return err
	}

	for _, s := range stages {
		switch stage := s.(type) {
		case *pipeline.CollectStage:
			fmt.Fprintf(out, "Collected %d samples into %s\n", stage.Stats.Samples, stage.Output)
		case *pipeline.MineStage:
			if top >= 0 {
				fmt.Fprint(out, formatter.FormatRuleTable(string(stage.Mode), stage.Table, top))
			}
			fmt.Fprintf(out, "Wrote %d rules to %s\n", len(stage.Table), stage.Output)
		case *pipeline.CompileStage:
			fmt.Fprintf(out, "Compiled %d rules into %s\n", stage.Entries, stage.Output)
		}
	}
	return nil
}
