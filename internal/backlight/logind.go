package backlight

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	login1Bus         = "org.freedesktop.login1"
	login1SessionPath = "/org/freedesktop/login1/session/auto"
	login1Session     = "org.freedesktop.login1.Session"
)

// Logind sets backlight levels through org.freedesktop.login1.Session, which
// lets the session owner write /sys/class/backlight without extra privileges.
// Each call uses its own system bus connection.
type Logind struct{}

func (Logind) SetBrightness(subsystem, name string, value uint32) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("dbus connection error: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(login1Bus, dbus.ObjectPath(login1SessionPath))
	call := obj.Call(login1Session+".SetBrightness", 0, subsystem, name, value)
	if call.Err != nil {
		return fmt.Errorf("logind SetBrightness: %w", call.Err)
	}
	return nil
}
