package cmd

import (
	"fmt"

	"github.com/hoppxi/monitor-brightness/internal/backlight"
	"github.com/hoppxi/monitor-brightness/internal/compositor"
	"github.com/hoppxi/monitor-brightness/internal/drm"
	"github.com/hoppxi/monitor-brightness/internal/settings"
	"github.com/hoppxi/monitor-brightness/pkg/operation"
	"github.com/spf13/cobra"
)

// newDisplay builds the brightness pipeline from the loaded settings.
func newDisplay(s *settings.Settings) (*operation.Display, error) {
	d := &operation.Display{
		I2CPath:         s.I2CPath,
		Resolver:        drm.NewResolver(s.DRMRoot, s.DevDir),
		Backlight:       backlight.NewController(s.Backlight.SysfsRoot, backlight.Logind{}),
		BacklightDevice: s.Backlight.Device,
	}
	if s.I2CPath != "" {
		return d, nil
	}

	if s.Output != "" {
		d.Outputs = compositor.Static(s.Output)
		return d, nil
	}
	q, err := compositor.New(s.Compositor)
	if err != nil {
		return nil, fmt.Errorf("active output: %w", err)
	}
	d.Outputs = q
	return d, nil
}

var getBrightnessCmd = &cobra.Command{
	Use:   "get-brightness",
	Short: "Get current brightness value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDisplay(conf)
		if err != nil {
			return err
		}
		info, err := d.GetBrightness()
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := info.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Current brightness: %d%%\n", info.Level)
		return nil
	},
}

var setBrightnessCmd = &cobra.Command{
	Use:   "set-brightness <value>",
	Short: "Set brightness value",
	Long: `Set brightness value.

<value> is either an absolute percentage (0-100) or a relative change
prefixed with + or - (e.g. +10, -5). Relative changes are clamped to 0-100.`,
	Example: "  monitor-brightness set-brightness 60\n  monitor-brightness set-brightness -- -10",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDisplay(conf)
		if err != nil {
			return err
		}
		info, err := d.SetBrightness(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Brightness set to %d%%\n", info.Level)
		return nil
	},
}

func init() {
	getBrightnessCmd.Flags().Bool("json", false, "Output the current brightness info in json format")
}
