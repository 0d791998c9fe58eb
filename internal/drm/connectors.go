package drm

import (
	"os"
	"path/filepath"
	"strings"
)

// Connector is a DRM connector entry such as card1-DP-2.
type Connector struct {
	Card   string `json:"card"`
	Output string `json:"output"`
	Status string `json:"status"`
}

// Connectors lists connector directories under the sysfs root. Entries
// without a "cardN-" prefix (the cards themselves, renderD*, version) are
// skipped.
func (r *Resolver) Connectors() ([]Connector, error) {
	entries, err := os.ReadDir(r.SysfsRoot)
	if err != nil {
		return nil, err
	}

	var out []Connector
	for _, e := range entries {
		card, output, ok := strings.Cut(e.Name(), "-")
		if !ok || !strings.HasPrefix(card, "card") {
			continue
		}
		status, _ := os.ReadFile(filepath.Join(r.SysfsRoot, e.Name(), "status"))
		out = append(out, Connector{
			Card:   card,
			Output: output,
			Status: strings.TrimSpace(string(status)),
		})
	}
	return out, nil
}
