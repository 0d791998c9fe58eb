package compositor

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
)

// Hyprland queries the Hyprland control socket.
type Hyprland struct {
	Socket string
}

func NewHyprland() *Hyprland {
	return &Hyprland{Socket: HyprctlSocket()}
}

func HyprctlSocket() string {
	return filepath.Join(os.Getenv("XDG_RUNTIME_DIR"), "hypr", os.Getenv("HYPRLAND_INSTANCE_SIGNATURE"), ".socket.sock")
}

func (h *Hyprland) query(cmd string) ([]byte, error) {
	conn, err := net.Dial("unix", h.Socket)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(cmd)); err != nil {
		return nil, err
	}
	return io.ReadAll(conn)
}

func (h *Hyprland) ActiveOutput() (string, error) {
	data, err := h.query("j/monitors")
	if err != nil {
		return "", fmt.Errorf("hyprland: %w", err)
	}

	var monitors []output
	if err := json.Unmarshal(data, &monitors); err != nil {
		return "", fmt.Errorf("hyprland: decode monitors: %w", err)
	}
	return focused(monitors)
}
