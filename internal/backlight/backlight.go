// Package backlight drives embedded panels through the kernel backlight
// class, delegating the privileged write to systemd-logind.
package backlight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hoppxi/monitor-brightness/internal/level"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSysfsRoot = "/sys/class/backlight"

	// Subsystem is the device class logind expects in SetBrightness.
	Subsystem = "backlight"
)

var ErrNoDevice = errors.New("no backlight devices found")

// Setter performs the privileged brightness write.
type Setter interface {
	SetBrightness(subsystem, name string, value uint32) error
}

// Controller reads levels from sysfs and writes them through a Setter.
type Controller struct {
	SysfsRoot string
	Setter    Setter
}

func NewController(sysfsRoot string, setter Setter) *Controller {
	if sysfsRoot == "" {
		sysfsRoot = DefaultSysfsRoot
	}
	return &Controller{SysfsRoot: sysfsRoot, Setter: setter}
}

// Level is the state of one backlight device.
type Level struct {
	Device  string
	Current uint32
	Max     uint32
}

func (l Level) Percentage() (uint16, error) {
	return level.Percentage(l.Current, l.Max)
}

// Device returns name if set, otherwise the first device under the sysfs root.
func (c *Controller) Device(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	entries, err := os.ReadDir(c.SysfsRoot)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	if len(entries) == 0 {
		return "", ErrNoDevice
	}
	return entries[0].Name(), nil
}

// Read returns the current and maximum level of device.
func (c *Controller) Read(device string) (Level, error) {
	dir := filepath.Join(c.SysfsRoot, device)
	cur, err := readUint(filepath.Join(dir, "brightness"))
	if err != nil {
		return Level{}, err
	}
	max, err := readUint(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return Level{}, err
	}
	return Level{Device: device, Current: cur, Max: max}, nil
}

// SetEmbeddedBrightness asks the session manager to set device to raw.
func (c *Controller) SetEmbeddedBrightness(device string, raw uint32) error {
	if c.Setter == nil {
		return errors.New("no backlight service configured")
	}
	if err := c.Setter.SetBrightness(Subsystem, device, raw); err != nil {
		return fmt.Errorf("set %s brightness to %d: %w", device, raw, err)
	}
	log.Debug().Str("device", device).Uint32("raw", raw).Msg("set backlight")
	return nil
}

func readUint(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return uint32(v), nil
}
