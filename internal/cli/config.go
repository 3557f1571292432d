package cli

import (
	"github.com/spf13/cobra"

	"github.com/eunmann/tifbench/internal/config"
)

func newConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration from file and environment as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "YAML config file")
	return cmd
}
