package operation

import (
	"errors"
	"fmt"

	"github.com/hoppxi/monitor-brightness/internal/backlight"
	"github.com/hoppxi/monitor-brightness/internal/compositor"
	"github.com/hoppxi/monitor-brightness/internal/ddc"
	"github.com/hoppxi/monitor-brightness/internal/drm"
	"github.com/hoppxi/monitor-brightness/internal/level"
	"github.com/hoppxi/monitor-brightness/pkg/displayinfo"
	"github.com/rs/zerolog/log"
)

// Monitor is an open DDC/CI connection.
type Monitor interface {
	ReadBrightness() (ddc.VCPValue, error)
	WriteBrightness(raw uint16) error
	Close() error
}

// Display ties the resolver, protocol client and backlight fallback together.
// Every collaborator is supplied by the caller.
type Display struct {
	// I2CPath bypasses output resolution when set.
	I2CPath string
	// Outputs names the display to act on when I2CPath is empty.
	Outputs   compositor.Querier
	Resolver  *drm.Resolver
	Backlight *backlight.Controller
	// BacklightDevice is the backlight used for embedded panels; empty
	// means the first one found.
	BacklightDevice string
	// Open connects to an I2C device; defaults to ddc.Open.
	Open func(path string) (Monitor, error)
}

// target is where a command will land: an I2C device or a backlight.
type target struct {
	output    string
	device    string
	backlight bool
}

func (d *Display) locate() (target, error) {
	if d.I2CPath != "" {
		return target{device: d.I2CPath}, nil
	}
	if d.Outputs == nil {
		return target{}, errors.New("active output: no output source configured")
	}

	output, err := d.Outputs.ActiveOutput()
	if err != nil {
		return target{}, fmt.Errorf("active output: %w", err)
	}

	path, err := d.Resolver.Resolve(output)
	switch {
	case err == nil:
		return target{output: output, device: path}, nil
	case errors.Is(err, drm.ErrUnsupportedOutput) && d.Backlight != nil:
		dev, err := d.Backlight.Device(d.BacklightDevice)
		if err != nil {
			return target{}, fmt.Errorf("backlight: %w", err)
		}
		log.Info().Str("output", output).Str("device", dev).Msg("embedded panel, using backlight")
		return target{output: output, device: dev, backlight: true}, nil
	default:
		return target{}, fmt.Errorf("resolve output: %w", err)
	}
}

func (d *Display) open(path string) (Monitor, error) {
	open := d.Open
	if open == nil {
		open = func(path string) (Monitor, error) { return ddc.Open(path) }
	}
	m, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("ddc: %w", err)
	}
	return m, nil
}

// GetBrightness reports the current brightness of the active display.
func (d *Display) GetBrightness() (*displayinfo.DisplayInfo, error) {
	t, err := d.locate()
	if err != nil {
		return nil, err
	}
	if t.backlight {
		return d.readBacklight(t)
	}

	m, err := d.open(t.device)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	return readMonitor(m, t)
}

// SetBrightness applies token ("50", "+10", "-5") to the active display and
// reports the resulting state.
func (d *Display) SetBrightness(token string) (*displayinfo.DisplayInfo, error) {
	cmd, err := level.ParseCommand(token)
	if err != nil {
		return nil, fmt.Errorf("parse brightness: %w", err)
	}

	t, err := d.locate()
	if err != nil {
		return nil, err
	}
	if t.backlight {
		return d.setBacklight(t, cmd)
	}

	m, err := d.open(t.device)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	info, err := readMonitor(m, t)
	if err != nil {
		return nil, err
	}

	pct, raw := level.ResolveTarget(cmd, info.Level, info.Max)
	log.Debug().
		Str("device", t.device).
		Stringer("command", cmd).
		Uint16("from", info.Level).
		Uint16("percent", pct).
		Uint32("raw", raw).
		Msg("setting brightness")

	if err := m.WriteBrightness(uint16(raw)); err != nil {
		return nil, fmt.Errorf("ddc: %w", err)
	}
	info.Current, info.Level = raw, pct
	return info, nil
}

func readMonitor(m Monitor, t target) (*displayinfo.DisplayInfo, error) {
	v, err := m.ReadBrightness()
	if err != nil {
		return nil, fmt.Errorf("ddc: %w", err)
	}
	pct, err := v.Percentage()
	if err != nil {
		return nil, fmt.Errorf("ddc: %w", err)
	}
	return &displayinfo.DisplayInfo{
		Output:  t.output,
		Device:  t.device,
		Backend: displayinfo.BackendDDC,
		Current: uint32(v.Current()),
		Max:     uint32(v.Max()),
		Level:   pct,
	}, nil
}

func (d *Display) readBacklight(t target) (*displayinfo.DisplayInfo, error) {
	lvl, err := d.Backlight.Read(t.device)
	if err != nil {
		return nil, fmt.Errorf("backlight: %w", err)
	}
	pct, err := lvl.Percentage()
	if err != nil {
		return nil, fmt.Errorf("backlight: %w", err)
	}
	return &displayinfo.DisplayInfo{
		Output:  t.output,
		Device:  t.device,
		Backend: displayinfo.BackendBacklight,
		Current: lvl.Current,
		Max:     lvl.Max,
		Level:   pct,
	}, nil
}

func (d *Display) setBacklight(t target, cmd level.Command) (*displayinfo.DisplayInfo, error) {
	info, err := d.readBacklight(t)
	if err != nil {
		return nil, err
	}
	pct, raw := level.ResolveTarget(cmd, info.Level, info.Max)
	if err := d.Backlight.SetEmbeddedBrightness(t.device, raw); err != nil {
		return nil, fmt.Errorf("backlight: %w", err)
	}
	info.Current, info.Level = raw, pct
	return info, nil
}
