// Package settings loads the tool's configuration with viper: defaults,
// then the optional YAML file, then MONITOR_BRIGHTNESS_* environment
// variables, then command-line flags.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hoppxi/monitor-brightness/internal/logging"
	"github.com/spf13/viper"
)

const (
	AppName   = "monitor-brightness"
	EnvPrefix = "MONITOR_BRIGHTNESS"
)

// Keys shared with the command flags.
const (
	KeyCompositor      = "compositor"
	KeyOutput          = "output"
	KeyI2CPath         = "i2c_path"
	KeyDRMRoot         = "sysfs.drm"
	KeyBacklightRoot   = "sysfs.backlight"
	KeyDevDir          = "dev_dir"
	KeyBacklightDevice = "backlight.device"
	KeyLogLevel        = "log.level"
	KeyLogJSON         = "log.json"
	KeyLogColors       = "log.colors"
)

type Settings struct {
	Compositor string
	Output     string
	I2CPath    string
	DRMRoot    string
	DevDir     string

	Backlight BacklightSettings
	Log       LogSettings
}

type BacklightSettings struct {
	SysfsRoot string
	Device    string
}

type LogSettings struct {
	Level  string
	JSON   bool
	Colors bool
}

// New returns a viper instance with defaults and env bindings applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyCompositor, "auto")
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyI2CPath, "")
	v.SetDefault(KeyDRMRoot, "/sys/class/drm")
	v.SetDefault(KeyBacklightRoot, "/sys/class/backlight")
	v.SetDefault(KeyDevDir, "/dev")
	v.SetDefault(KeyBacklightDevice, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyLogColors, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultPath returns $XDG_CONFIG_HOME/monitor-brightness/config.yaml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName, "config.yaml"), nil
}

// Load reads path into v. An empty path means DefaultPath, which may be
// absent; an explicitly named file must exist.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path == "" {
		if p, err := DefaultPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	s := &Settings{
		Compositor: v.GetString(KeyCompositor),
		Output:     v.GetString(KeyOutput),
		I2CPath:    v.GetString(KeyI2CPath),
		DRMRoot:    v.GetString(KeyDRMRoot),
		DevDir:     v.GetString(KeyDevDir),
		Backlight: BacklightSettings{
			SysfsRoot: v.GetString(KeyBacklightRoot),
			Device:    v.GetString(KeyBacklightDevice),
		},
		Log: LogSettings{
			Level:  v.GetString(KeyLogLevel),
			JSON:   v.GetBool(KeyLogJSON),
			Colors: v.GetBool(KeyLogColors),
		},
	}
	return s, s.Validate()
}

func (s *Settings) Validate() error {
	switch strings.ToLower(s.Compositor) {
	case "auto", "hyprland", "sway":
	default:
		return fmt.Errorf("compositor must be one of auto, hyprland, sway (got %q)", s.Compositor)
	}
	if s.DRMRoot == "" {
		return errors.New("sysfs.drm is required")
	}
	if s.DevDir == "" {
		return errors.New("dev_dir is required")
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if strings.ContainsRune(s.Backlight.Device, filepath.Separator) {
		return fmt.Errorf("backlight.device must be a device name, not a path (got %q)", s.Backlight.Device)
	}
	return nil
}
