package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goof2/bfmine/formatter"
	"github.com/goof2/bfmine/internal/miner"
	tt "github.com/goof2/bfmine/internal/types"
)

var (
	mineMode string
	mineTop  int
)

var mineCmd = &cobra.Command{
	Use:   "mine <datasetFile> [outputFile]",
	Short: "Rank the rewrites observed in a dataset",
	Long: `Tallies the raw/normalized pairs of a dataset and writes a ranked
"pattern<TAB>replacement" rule list. Without outputFile the configured rule
model path is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		output := cfg.Rules
		if len(args) == 2 {
			output = args[1]
		}
		modeName := string(cfg.Mode)
		if cmd.Flags().Changed("mode") {
			modeName = mineMode
		}
		mode, err := tt.ParseMode(modeName)
		if err != nil {
			return err
		}

		return runMine(cmd.OutOrStdout(), logger, args[0], output, mode, mineTop)
	},
}

func init() {
	mineCmd.Flags().StringVar(&mineMode, "mode", string(tt.ModeAllDistinct), "Mining mode: all-distinct or best-per-pattern")
	mineCmd.Flags().IntVar(&mineTop, "top", 10, "Number of top rules to print (0 prints all, negative prints none)")
}

func runMine(out io.Writer, logger *zap.Logger, datasetPath, output string, mode tt.Mode, top int) error {
	table, err := miner.New(logger).Mine(datasetPath, output, mode)
	if err != nil {
		return err
	}
	if top >= 0 {
		fmt.Fprint(out, formatter.FormatRuleTable(string(mode), table, top))
	}
	fmt.Fprintf(out, "Wrote %d rules to %s\n", len(table), output)
	return nil
}
