// Package level converts between raw brightness register values and
// user-facing percentages.
package level

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInput is returned for brightness tokens that are not numbers
	// or fall outside the accepted range.
	ErrInvalidInput = errors.New("invalid brightness value")

	// ErrInvalidDeviceState is returned when a device reports a maximum of
	// zero or a current value above its maximum.
	ErrInvalidDeviceState = errors.New("invalid device state")
)

const (
	MinPercent = 0
	MaxPercent = 100
)

// Percentage returns round(current / max * 100).
func Percentage(current, max uint32) (uint16, error) {
	if max == 0 {
		return 0, fmt.Errorf("%w: maximum is 0", ErrInvalidDeviceState)
	}
	if current > max {
		return 0, fmt.Errorf("%w: current %d exceeds maximum %d", ErrInvalidDeviceState, current, max)
	}
	return uint16(math.Round(float64(current) / float64(max) * 100)), nil
}

// Raw returns round(percent / 100 * max). Percent is clamped to [0,100] first.
func Raw(percent uint16, max uint32) uint32 {
	p := clamp(int(percent))
	return uint32(math.Round(float64(p) / 100 * float64(max)))
}

// Command is a parsed brightness request.
type Command struct {
	Relative bool
	// Value is the absolute percentage, or the signed delta when Relative.
	Value int
}

// Absolute returns a command setting the brightness to percent.
func Absolute(percent int) Command {
	return Command{Value: percent}
}

// Delta returns a command adjusting the brightness by delta points.
func Delta(delta int) Command {
	return Command{Relative: true, Value: delta}
}

// ParseCommand parses "50" (absolute, 0-100) or "+10"/"-10" (relative).
func ParseCommand(token string) (Command, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Command{}, fmt.Errorf("%w: empty value", ErrInvalidInput)
	}

	if token[0] == '+' || token[0] == '-' {
		delta, err := strconv.ParseInt(token, 10, 16)
		if err != nil {
			return Command{}, fmt.Errorf("%w: brightness change must be a number, got %q", ErrInvalidInput, token)
		}
		return Delta(int(delta)), nil
	}

	v, err := strconv.ParseUint(token, 10, 16)
	if err != nil || v > MaxPercent {
		return Command{}, fmt.Errorf("%w: brightness must be a number between 0-100, got %q", ErrInvalidInput, token)
	}
	return Absolute(int(v)), nil
}

// Target returns the percentage the command asks for given the current
// percentage. Deltas are added before clamping.
func (c Command) Target(current int) uint16 {
	if c.Relative {
		return uint16(clamp(current + c.Value))
	}
	return uint16(clamp(c.Value))
}

func (c Command) String() string {
	if c.Relative {
		return fmt.Sprintf("%+d", c.Value)
	}
	return strconv.Itoa(c.Value)
}

// ResolveTarget returns the target percentage and the raw value to write.
func ResolveTarget(c Command, current uint16, max uint32) (uint16, uint32) {
	pct := c.Target(int(current))
	return pct, Raw(pct, max)
}

func clamp(v int) int {
	return min(max(v, MinPercent), MaxPercent)
}
