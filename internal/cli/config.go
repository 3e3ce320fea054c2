package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcanvas/pkg/canvas"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or check canvas configuration",
		Long: `Print the effective canvas configuration as TOML.

Without --config the defaults are printed, which is a good starting point
for a configuration file. With --check the given file is validated instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if check != "" {
				return checkConfig(check)
			}
			cfg, err := c.resolveConfig(nil)
			if err != nil {
				return err
			}
			return canvas.EncodeConfig(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "validate a configuration file")

	return cmd
}

// checkConfig validates the file at path and summarizes the result.
func checkConfig(path string) error {
	cfg, err := canvas.LoadConfig(path)
	if err != nil {
		return err
	}
	printSuccess("Configuration is valid")
	printKeyValue("File", path)
	printKeyValue("Zoom", fmt.Sprintf("%g to %g (step %g)", cfg.ZoomRange[0], cfg.ZoomRange[1], cfg.ZoomStep))
	printKeyValue("Snapping", fmt.Sprintf("%g", cfg.SnapTolerance))
	printKeyValue("Reciprocal", fmt.Sprintf("%t", cfg.AllowReciprocal))
	return nil
}
