package backlight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeSetter struct {
	subsystem, name string
	value           uint32
	err             error
}

func (f *fakeSetter) SetBrightness(subsystem, name string, value uint32) error {
	f.subsystem, f.name, f.value = subsystem, name, value
	return f.err
}

func writeDevice(t *testing.T, root, name, cur, max string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "brightness"), []byte(cur), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "max_brightness"), []byte(max), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

func TestRead(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "intel_backlight", "48000\n", "96000\n")

	c := NewController(root, nil)
	lvl, err := c.Read("intel_backlight")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if lvl.Current != 48000 || lvl.Max != 96000 {
		t.Fatalf("level=%+v", lvl)
	}
	pct, err := lvl.Percentage()
	if err != nil || pct != 50 {
		t.Fatalf("pct=%d err=%v want 50", pct, err)
	}
}

func TestRead_Malformed(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "acpi_video0", "abc", "10")

	if _, err := NewController(root, nil).Read("acpi_video0"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDevice_AutoDetect(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "intel_backlight", "1", "2")
	writeDevice(t, root, "acpi_video0", "1", "2")

	c := NewController(root, nil)
	got, err := c.Device("")
	if err != nil {
		t.Fatalf("Device error: %v", err)
	}
	if got != "acpi_video0" {
		t.Fatalf("got %q want acpi_video0", got)
	}
	if got, _ := c.Device("amdgpu_bl0"); got != "amdgpu_bl0" {
		t.Fatalf("explicit device ignored, got %q", got)
	}
}

func TestDevice_None(t *testing.T) {
	c := NewController(t.TempDir(), nil)
	if _, err := c.Device(""); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("err=%v want ErrNoDevice", err)
	}
}

func TestSetEmbeddedBrightness(t *testing.T) {
	s := &fakeSetter{}
	c := NewController(t.TempDir(), s)

	if err := c.SetEmbeddedBrightness("intel_backlight", 1200); err != nil {
		t.Fatalf("SetEmbeddedBrightness error: %v", err)
	}
	if s.subsystem != "backlight" || s.name != "intel_backlight" || s.value != 1200 {
		t.Fatalf("setter got %+v", s)
	}

	s.err = errors.New("access denied")
	if err := c.SetEmbeddedBrightness("intel_backlight", 1); !errors.Is(err, s.err) {
		t.Fatalf("err=%v want wrapped setter error", err)
	}
}
