package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goof2/bfmine/pipeline"
)

var forceInit bool

// initCmd: bfmine init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfigurationFile(cfgFile, forceInit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) (string, error) {
	if configurationPath == "" {
		configurationPath = pipeline.DefaultConfigFile
	}
	if _, err := os.Stat(configurationPath); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", configurationPath)
	}

	if err := pipeline.WriteConfig(configurationPath, pipeline.DefaultConfig()); err != nil {
		return "", err
	}
	return configurationPath, nil
}
