package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goof2/bfmine/internal/collector"
	"github.com/goof2/bfmine/internal/normalize"
)

var (
	collectExt       string
	collectRecursive bool
	noProgress       bool
)

var collectCmd = &cobra.Command{
	Use:   "collect <sourceDir> <outputFile>",
	Short: "Pair every source program with its normalized form",
	Long: `Reads every source program in sourceDir (sorted by name), normalizes it and
writes one "raw<TAB>normalized" line per program to outputFile.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ext := cfg.Extension
		if cmd.Flags().Changed("ext") {
			ext = collectExt
		}
		recursive := cfg.Recursive || collectRecursive

		stats, err := runCollect(logger, args[0], args[1], ext, recursive, cfg.CacheSize, progressWriter(noProgress))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Collected %d samples into %s\n", stats.Samples, args[1])
		return nil
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectExt, "ext", collector.DefaultExtension, "Extension of source program files")
	collectCmd.Flags().BoolVar(&collectRecursive, "recursive", false, "Also collect programs from subdirectories")
	collectCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not render a progress bar")
}

func runCollect(logger *zap.Logger, sourceDir, output, ext string, recursive bool, cacheSize int, progress io.Writer) (collector.Stats, error) {
	cache, err := normalize.NewCache(cacheSize)
	if err != nil {
		return collector.Stats{}, err
	}

	var exts []string
	if ext != "" {
		exts = append(exts, ext)
	}
	c := collector.New(logger,
		collector.WithExtensions(exts...),
		collector.WithRecursive(recursive),
		collector.WithNormalizer(cache),
		collector.WithProgress(progress))
	return c.Collect(sourceDir, output)
}
