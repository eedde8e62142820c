package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockade-hq/stockade/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without starting the runtime.

Examples:
  # Validate the default config
  stockade validate

  # Validate a specific file
  stockade validate --config /etc/stockade/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Configuration valid (%s backend, catalog %s)\n",
			cfg.Storage.Backend, cfg.Catalog.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
