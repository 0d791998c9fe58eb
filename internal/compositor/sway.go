package compositor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joshuarubin/go-sway"
)

const swayTimeout = 2 * time.Second

// Sway queries sway over its IPC socket.
type Sway struct {
	Socket string
}

func NewSway(socket string) *Sway {
	return &Sway{Socket: socket}
}

func (s *Sway) ActiveOutput() (string, error) {
	if s.Socket == "" {
		return "", errors.New("sway: SWAYSOCK is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), swayTimeout)
	defer cancel()

	client, err := sway.New(ctx, sway.WithSocketPath(s.Socket))
	if err != nil {
		return "", fmt.Errorf("sway: %w", err)
	}
	if c, ok := client.(io.Closer); ok {
		defer c.Close()
	}

	outputs, err := client.GetOutputs(ctx)
	if err != nil {
		return "", fmt.Errorf("sway: get outputs: %w", err)
	}

	found := make([]output, 0, len(outputs))
	for _, o := range outputs {
		found = append(found, output{Name: o.Name, Focused: o.Focused})
	}
	return focused(found)
}
