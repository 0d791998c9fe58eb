// Package drm maps display outputs to the I2C adapters that carry their
// DDC channel by walking the kernel's DRM sysfs tree.
package drm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultSysfsRoot = "/sys/class/drm"
	DefaultDevDir    = "/dev"

	// EmbeddedPrefix names embedded DisplayPort panels, which have no DDC/CI.
	EmbeddedPrefix = "eDP"
)

var (
	ErrUnsupportedOutput = errors.New("output does not support DDC/CI")
	ErrOutputNotFound    = errors.New("no such output")
	ErrDeviceNotFound    = errors.New("no I2C device found for output")
)

// Locator finds the I2C bus name (e.g. "i2c-7") for one GPU driver layout.
type Locator interface {
	Name() string
	Locate(outputDir string) (bus string, ok bool)
}

// DefaultLocators returns the built-in layouts in priority order.
func DefaultLocators() []Locator {
	return []Locator{AMDSubdir{}, AMDSymlink{}, IntelI2CDev{}}
}

// Resolver resolves output names to I2C device paths.
type Resolver struct {
	SysfsRoot string
	DevDir    string
	Locators  []Locator
}

func NewResolver(sysfsRoot, devDir string) *Resolver {
	if sysfsRoot == "" {
		sysfsRoot = DefaultSysfsRoot
	}
	if devDir == "" {
		devDir = DefaultDevDir
	}
	return &Resolver{SysfsRoot: sysfsRoot, DevDir: devDir, Locators: DefaultLocators()}
}

// IsEmbedded reports whether output names an embedded panel.
func IsEmbedded(output string) bool {
	return strings.HasPrefix(output, EmbeddedPrefix)
}

// Resolve returns the I2C device path for output.
func (r *Resolver) Resolve(output string) (string, error) {
	if IsEmbedded(output) {
		return "", fmt.Errorf("%w: %s is an embedded panel", ErrUnsupportedOutput, output)
	}

	dir, err := r.OutputDir(output)
	if err != nil {
		return "", err
	}

	for _, l := range r.Locators {
		bus, ok := l.Locate(dir)
		if !ok {
			continue
		}
		path := filepath.Join(r.DevDir, bus)
		log.Info().
			Str("output", output).
			Str("locator", l.Name()).
			Str("device", path).
			Msg("found I2C device")
		return path, nil
	}

	return "", fmt.Errorf("%w: %s (tried %s)", ErrDeviceNotFound, output, r.locatorNames())
}

// OutputDir returns the sysfs directory of output. Connector directories are
// named "<card>-<output>", so an exact name or a "-<output>" suffix matches.
func (r *Resolver) OutputDir(output string) (string, error) {
	entries, err := os.ReadDir(r.SysfsRoot)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrOutputNotFound, output, err)
	}
	for _, e := range entries {
		name := e.Name()
		if name == output || strings.HasSuffix(name, "-"+output) {
			return filepath.Join(r.SysfsRoot, name), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrOutputNotFound, output)
}

func (r *Resolver) locatorNames() string {
	names := make([]string, len(r.Locators))
	for i, l := range r.Locators {
		names[i] = l.Name()
	}
	return strings.Join(names, ", ")
}

// AMDSubdir matches amdgpu connectors that carry an i2c-N child directory.
type AMDSubdir struct{}

func (AMDSubdir) Name() string { return "amd-i2c-subdir" }

func (AMDSubdir) Locate(outputDir string) (string, bool) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "i2c-") {
			return e.Name(), true
		}
	}
	return "", false
}

// AMDSymlink matches connectors whose ddc entry links straight to the adapter.
type AMDSymlink struct{}

func (AMDSymlink) Name() string { return "amd-ddc-symlink" }

func (AMDSymlink) Locate(outputDir string) (string, bool) {
	target, err := os.Readlink(filepath.Join(outputDir, "ddc"))
	if err != nil {
		return "", false
	}
	bus := filepath.Base(target)
	if bus == "." || bus == string(filepath.Separator) {
		return "", false
	}
	return bus, true
}

// IntelI2CDev matches i915 connectors exposing ddc/i2c-dev/i2c-N.
type IntelI2CDev struct{}

func (IntelI2CDev) Name() string { return "intel-ddc-i2c-dev" }

func (IntelI2CDev) Locate(outputDir string) (string, bool) {
	entries, err := os.ReadDir(filepath.Join(outputDir, "ddc", "i2c-dev"))
	if err != nil || len(entries) == 0 {
		return "", false
	}
	return entries[0].Name(), true
}
