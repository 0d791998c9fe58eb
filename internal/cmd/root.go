package cmd

import (
	"fmt"
	"os"

	"github.com/hoppxi/monitor-brightness/internal/logging"
	"github.com/hoppxi/monitor-brightness/internal/settings"
	"github.com/spf13/cobra"
)

var Version = "1.0.0"

var (
	cfgFile string
	v       = settings.New()
	conf    *settings.Settings
)

var rootCmd = &cobra.Command{
	Use:           "monitor-brightness",
	Version:       Version,
	Short:         "Controls monitor brightness using DDC/CI protocol",
	Long:          "monitor-brightness reads and sets the brightness of the focused monitor over DDC/CI,\nfalling back to the kernel backlight for embedded panels.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "generate-config" || cmd.Name() == "help" {
			return nil
		}

		s, err := settings.Load(v, cfgFile)
		if err != nil {
			return err
		}
		conf = s
		logging.Setup(s.Log.Level, s.Log.JSON, s.Log.Colors)
		return nil
	},
}

func Execute() {
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// normalizeArgs moves negative numbers such as "-10" behind a "--" so they
// reach set-brightness as a value instead of being parsed as shorthand flags.
func normalizeArgs(args []string) []string {
	var rest, negative []string
	for i, a := range args {
		if a == "--" {
			return append(append(rest, args[i:]...), negative...)
		}
		if isNegativeNumber(a) {
			negative = append(negative, a)
			continue
		}
		rest = append(rest, a)
	}
	if len(negative) == 0 {
		return rest
	}
	return append(append(rest, "--"), negative...)
}

func isNegativeNumber(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/monitor-brightness/config.yaml)")
	pf.StringP("i2c-path", "i", "", "Path to the I2C device")
	pf.StringP("output", "o", "", "Output name to control instead of the focused one")
	pf.String("backlight-device", "", "Backlight device for embedded panels")
	pf.String("compositor", "auto", "Compositor to query for the focused output: auto, hyprland, sway")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")

	bindFlag(settings.KeyI2CPath, "i2c-path")
	bindFlag(settings.KeyOutput, "output")
	bindFlag(settings.KeyBacklightDevice, "backlight-device")
	bindFlag(settings.KeyCompositor, "compositor")
	bindFlag(settings.KeyLogLevel, "log-level")

	rootCmd.AddCommand(getBrightnessCmd)
	rootCmd.AddCommand(setBrightnessCmd)
	rootCmd.AddCommand(outputsCmd)
	rootCmd.AddCommand(generateConfigCmd)
}
