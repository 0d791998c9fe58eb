// Package ddc speaks the DDC/CI monitor control protocol over an I2C bus.
//
// Only the brightness VCP feature is implemented.
package ddc

import (
	"errors"
	"fmt"
	"time"

	"github.com/hoppxi/monitor-brightness/internal/i2c"
	"github.com/hoppxi/monitor-brightness/internal/level"
	"github.com/rs/zerolog/log"
)

var (
	// ErrDeviceAccess is returned when the I2C device cannot be opened.
	ErrDeviceAccess = errors.New("cannot access I2C device")

	// ErrProtocol is returned for failed transfers and malformed replies.
	ErrProtocol = errors.New("DDC/CI protocol error")
)

const (
	// Addr is the 7-bit I2C address of the DDC/CI display endpoint.
	Addr = 0x37

	// BrightnessCode is the VCP feature code for luminance.
	BrightnessCode = 0x10

	hostAddr    = 0x51
	displayAddr = 0x6E // 0x37 << 1, write direction
	replyAddr   = 0x50 // virtual host address used for reply checksums

	opGetVCP      = 0x01
	opGetVCPReply = 0x02
	opSetVCP      = 0x03

	getReplyLen = 11

	// Delays the display needs before it can answer or accept the next request.
	getReplyDelay = 40 * time.Millisecond
	setDelay      = 50 * time.Millisecond
)

// Transport moves raw bytes to and from the display.
type Transport interface {
	Write(p []byte) error
	Read(p []byte) error
}

// VCPValue is a decoded "get VCP feature" reply.
type VCPValue struct {
	MH, ML byte // maximum
	SH, SL byte // current
}

func (v VCPValue) Current() uint16 { return uint16(v.SH)<<8 | uint16(v.SL) }
func (v VCPValue) Max() uint16     { return uint16(v.MH)<<8 | uint16(v.ML) }

// Percentage returns the current value as a rounded percentage of Max.
func (v VCPValue) Percentage() (uint16, error) {
	return level.Percentage(uint32(v.Current()), uint32(v.Max()))
}

// Client performs brightness transactions against one display.
type Client struct {
	tx     Transport
	closer func() error
	path   string
	sleep  func(time.Duration)
}

// Open opens the I2C device at path and addresses the DDC/CI endpoint on it.
func Open(path string) (*Client, error) {
	bus, err := i2c.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceAccess, err)
	}
	return &Client{tx: bus.Dev(Addr), closer: bus.Close, path: path, sleep: time.Sleep}, nil
}

// NewClient wraps an existing transport.
func NewClient(tx Transport) *Client {
	return &Client{tx: tx, sleep: time.Sleep}
}

func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// ReadBrightness performs one "get VCP feature" transaction for brightness.
func (c *Client) ReadBrightness() (VCPValue, error) {
	return c.getVCP(BrightnessCode)
}

// WriteBrightness performs one "set VCP feature" transaction for brightness.
func (c *Client) WriteBrightness(raw uint16) error {
	return c.setVCP(BrightnessCode, raw)
}

func (c *Client) getVCP(code byte) (VCPValue, error) {
	if err := c.tx.Write(encode(opGetVCP, code)); err != nil {
		return VCPValue{}, fmt.Errorf("%w: get VCP 0x%02X request: %w", ErrProtocol, code, err)
	}
	c.sleep(getReplyDelay)

	buf := make([]byte, getReplyLen)
	if err := c.tx.Read(buf); err != nil {
		return VCPValue{}, fmt.Errorf("%w: get VCP 0x%02X reply: %w", ErrProtocol, code, err)
	}

	v, err := decodeGetReply(buf, code)
	if err != nil {
		return VCPValue{}, err
	}
	log.Debug().
		Str("device", c.path).
		Uint16("current", v.Current()).
		Uint16("max", v.Max()).
		Msg("read VCP brightness")
	return v, nil
}

func (c *Client) setVCP(code byte, value uint16) error {
	if err := c.tx.Write(encode(opSetVCP, code, byte(value>>8), byte(value))); err != nil {
		return fmt.Errorf("%w: set VCP 0x%02X to %d: %w", ErrProtocol, code, value, err)
	}
	c.sleep(setDelay)
	log.Debug().Str("device", c.path).Uint16("raw", value).Msg("wrote VCP brightness")
	return nil
}

// encode frames a host-to-display message: source, length, payload, checksum.
func encode(payload ...byte) []byte {
	out := make([]byte, 0, len(payload)+3)
	out = append(out, hostAddr, 0x80|byte(len(payload)))
	out = append(out, payload...)
	return append(out, checksum(displayAddr, out))
}

func checksum(seed byte, p []byte) byte {
	for _, b := range p {
		seed ^= b
	}
	return seed
}

func decodeGetReply(buf []byte, code byte) (VCPValue, error) {
	if len(buf) < 3 {
		return VCPValue{}, fmt.Errorf("%w: short reply (%d bytes)", ErrProtocol, len(buf))
	}
	if buf[0] != displayAddr {
		return VCPValue{}, fmt.Errorf("%w: unexpected source address 0x%02X", ErrProtocol, buf[0])
	}
	if buf[1]&0x80 == 0 {
		return VCPValue{}, fmt.Errorf("%w: malformed length byte 0x%02X", ErrProtocol, buf[1])
	}
	n := int(buf[1] & 0x7F)
	if n == 0 {
		// Null message: the display is busy or does not support the request.
		return VCPValue{}, fmt.Errorf("%w: display returned null message", ErrProtocol)
	}
	if n != getReplyLen-3 || len(buf) < getReplyLen {
		return VCPValue{}, fmt.Errorf("%w: reply length %d, want %d", ErrProtocol, n, getReplyLen-3)
	}
	if want := checksum(replyAddr, buf[:getReplyLen-1]); buf[getReplyLen-1] != want {
		return VCPValue{}, fmt.Errorf("%w: checksum 0x%02X, want 0x%02X", ErrProtocol, buf[getReplyLen-1], want)
	}

	p := buf[2 : 2+n]
	if p[0] != opGetVCPReply {
		return VCPValue{}, fmt.Errorf("%w: unexpected opcode 0x%02X", ErrProtocol, p[0])
	}
	switch p[1] {
	case 0x00:
	case 0x01:
		return VCPValue{}, fmt.Errorf("%w: VCP 0x%02X unsupported by display", ErrProtocol, code)
	default:
		return VCPValue{}, fmt.Errorf("%w: VCP result code 0x%02X", ErrProtocol, p[1])
	}
	if p[2] != code {
		return VCPValue{}, fmt.Errorf("%w: reply for VCP 0x%02X, want 0x%02X", ErrProtocol, p[2], code)
	}

	return VCPValue{MH: p[4], ML: p[5], SH: p[6], SL: p[7]}, nil
}
