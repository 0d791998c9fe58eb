// Package compositor asks the running Wayland compositor which output has
// focus.
package compositor

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNoFocusedOutput = errors.New("no focused output")

// Querier returns the name of the focused output.
type Querier interface {
	ActiveOutput() (string, error)
}

type output struct {
	Name    string `json:"name"`
	Focused bool   `json:"focused"`
}

func focused(outputs []output) (string, error) {
	for _, o := range outputs {
		if o.Focused {
			return o.Name, nil
		}
	}
	return "", ErrNoFocusedOutput
}

// New returns a Querier for kind: "hyprland", "sway" or "auto", which picks
// from the environment.
func New(kind string) (Querier, error) {
	switch strings.ToLower(kind) {
	case "hyprland":
		return NewHyprland(), nil
	case "sway":
		return NewSway(os.Getenv("SWAYSOCK")), nil
	case "", "auto":
		if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
			return NewHyprland(), nil
		}
		if sock := os.Getenv("SWAYSOCK"); sock != "" {
			return NewSway(sock), nil
		}
		return nil, errors.New("cannot detect compositor: neither HYPRLAND_INSTANCE_SIGNATURE nor SWAYSOCK is set")
	default:
		return nil, fmt.Errorf("unknown compositor %q", kind)
	}
}

// Static always reports the same output.
type Static string

func (s Static) ActiveOutput() (string, error) {
	return string(s), nil
}
