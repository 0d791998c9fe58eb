package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/hoppxi/monitor-brightness/internal/drm"
	"github.com/spf13/cobra"
)

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "List display outputs and the I2C device each one resolves to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := drm.NewResolver(conf.DRMRoot, conf.DevDir)
		connectors, err := r.Connectors()
		if err != nil {
			return fmt.Errorf("list outputs: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "OUTPUT\tCARD\tSTATUS\tDEVICE")
		for _, c := range connectors {
			device, err := r.Resolve(c.Output)
			if err != nil {
				device = err.Error()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Output, c.Card, c.Status, device)
		}
		return w.Flush()
	},
}
