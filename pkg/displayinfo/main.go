package displayinfo

import (
	"encoding/json"
)

// Backends a DisplayInfo can come from.
const (
	BackendDDC       = "ddc"
	BackendBacklight = "backlight"
)

type DisplayInfo struct {
	Output  string `json:"output,omitempty"`
	Device  string `json:"device"`
	Backend string `json:"backend"`
	Current uint32 `json:"current"`
	Max     uint32 `json:"max"`
	Level   uint16 `json:"level"`
}

func (d *DisplayInfo) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
