package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goof2/bfmine/internal/table"
	tt "github.com/goof2/bfmine/internal/types"
)

var (
	compileFormat  string
	compilePackage string
)

var compileCmd = &cobra.Command{
	Use:   "compile <ruleListFile> <outputFile>",
	Short: "Compile a rule list into a constant lookup table",
	Long: `Emits the rules of ruleListFile as a Go source file or a C++ header holding
the pattern/replacement literals and their count. The format follows the
output extension unless --format is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format := cfg.Format
		if cmd.Flags().Changed("format") {
			format = tt.Format(compileFormat)
		}
		pkg := cfg.Package
		if cmd.Flags().Changed("package") {
			pkg = compilePackage
		}

		n, err := runCompile(logger, args[0], args[1], format, pkg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Compiled %d rules into %s\n", n, args[1])
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVar(&compileFormat, "format", "", "Output format: go or cpp (default: from the output extension)")
	compileCmd.Flags().StringVar(&compilePackage, "package", "", "Go package or C++ namespace of the table (default: "+table.DefaultPackage+" for go, "+table.DefaultNamespace+" for cpp)")
}

func runCompile(logger *zap.Logger, ruleList, output string, format tt.Format, pkg string) (int, error) {
	opts := []table.Option{table.WithPackage(pkg)}
	if format != "" {
		f, err := tt.ParseFormat(string(format))
		if err != nil {
			return 0, err
		}
		opts = append(opts, table.WithFormat(f))
	}
	return table.New(logger, opts...).Compile(ruleList, output)
}
