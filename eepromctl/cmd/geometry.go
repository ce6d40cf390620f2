package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s", out)
		fmt.Fprintf(cmd.OutOrStdout(), "# capacity: %d bytes\n",
			cfg.Geometry.Capacity())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(geometryCmd)
}
