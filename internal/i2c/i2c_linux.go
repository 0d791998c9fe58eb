//go:build linux

package i2c

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux I2C access through /dev/i2c-* character devices.
//
// Each Write or Read is a single I2C_RDWR message. DDC/CI needs the host to
// pause between the request write and the reply read, so the two halves are
// issued as separate transfers instead of one repeated-start transaction.

const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an opened I2C adapter (e.g. /dev/i2c-7).
//
// Bus is not safe for concurrent transfers.
type Bus struct {
	f    *os.File
	path string
}

// Open opens the adapter read/write. The returned error wraps the
// underlying *os.PathError so callers can test for fs.ErrNotExist and
// fs.ErrPermission.
func Open(path string) (*Bus, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &Bus{f: f, path: path}, nil
}

func (b *Bus) Close() error {
	if b == nil || b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

func (b *Bus) Dev(addr uint16) *Dev {
	if b == nil {
		return nil
	}
	return &Dev{bus: b, addr: addr}
}

// Dev is a peripheral at a 7-bit address on a Bus.
type Dev struct {
	bus  *Bus
	addr uint16
}

func (d *Dev) Write(p []byte) error {
	return d.tx(p, 0)
}

func (d *Dev) Read(p []byte) error {
	return d.tx(p, i2cMrd)
}

func (d *Dev) tx(p []byte, flags uint16) error {
	if d == nil || d.bus == nil || d.bus.f == nil {
		return errors.New("i2c device is nil")
	}
	if d.addr == 0 || d.addr > 0x7F {
		return fmt.Errorf("invalid i2c addr 0x%X", d.addr)
	}
	if len(p) == 0 {
		return nil
	}

	m := msg{addr: d.addr, flags: flags, len: uint16(len(p)), buf: uintptr(unsafe.Pointer(&p[0]))}
	data := rdwrData{msgs: uintptr(unsafe.Pointer(&m)), nmsgs: 1}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.bus.f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return fmt.Errorf("i2c transfer on %s addr 0x%02X: %w", d.bus.path, d.addr, errno)
	}
	return nil
}
