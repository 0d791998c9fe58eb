package ddc

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type fakeTransport struct {
	writes   [][]byte
	reply    []byte
	writeErr error
	readErr  error
}

func (f *fakeTransport) Write(p []byte) error {
	f.writes = append(f.writes, append([]byte(nil), p...))
	return f.writeErr
}

func (f *fakeTransport) Read(p []byte) error {
	if f.readErr != nil {
		return f.readErr
	}
	copy(p, f.reply)
	return nil
}

func newTestClient(tx Transport) (*Client, *[]time.Duration) {
	var slept []time.Duration
	c := NewClient(tx)
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

// reply builds a well-formed get VCP reply.
func reply(rc, code byte, max, cur uint16) []byte {
	b := []byte{displayAddr, 0x88, opGetVCPReply, rc, code, 0x00,
		byte(max >> 8), byte(max), byte(cur >> 8), byte(cur)}
	return append(b, checksum(replyAddr, b))
}

func TestVCPValue(t *testing.T) {
	v := VCPValue{MH: 0x01, ML: 0x2C, SH: 0x00, SL: 0x96}
	if v.Max() != 300 || v.Current() != 150 {
		t.Fatalf("max=%d current=%d want 300/150", v.Max(), v.Current())
	}
	pct, err := v.Percentage()
	if err != nil || pct != 50 {
		t.Fatalf("pct=%d err=%v want 50", pct, err)
	}
}

func TestEncode_GetRequest(t *testing.T) {
	got := encode(opGetVCP, BrightnessCode)
	want := []byte{0x51, 0x82, 0x01, 0x10, 0xAC}
	if !bytes.Equal(got, want) {
		t.Fatalf("encode=% X want % X", got, want)
	}
}

func TestReadBrightness(t *testing.T) {
	tx := &fakeTransport{reply: reply(0, BrightnessCode, 100, 42)}
	c, slept := newTestClient(tx)

	v, err := c.ReadBrightness()
	if err != nil {
		t.Fatalf("ReadBrightness error: %v", err)
	}
	if v.Current() != 42 || v.Max() != 100 {
		t.Fatalf("current=%d max=%d want 42/100", v.Current(), v.Max())
	}
	if len(tx.writes) != 1 || !bytes.Equal(tx.writes[0], []byte{0x51, 0x82, 0x01, 0x10, 0xAC}) {
		t.Fatalf("writes=% X", tx.writes)
	}
	if len(*slept) != 1 || (*slept)[0] != getReplyDelay {
		t.Fatalf("slept=%v want [%v]", *slept, getReplyDelay)
	}
}

func TestWriteBrightness(t *testing.T) {
	tx := &fakeTransport{}
	c, slept := newTestClient(tx)

	if err := c.WriteBrightness(0x0126); err != nil {
		t.Fatalf("WriteBrightness error: %v", err)
	}
	want := []byte{0x51, 0x84, 0x03, 0x10, 0x01, 0x26}
	want = append(want, checksum(displayAddr, want))
	if len(tx.writes) != 1 || !bytes.Equal(tx.writes[0], want) {
		t.Fatalf("writes=% X want % X", tx.writes, want)
	}
	if len(*slept) != 1 || (*slept)[0] != setDelay {
		t.Fatalf("slept=%v want [%v]", *slept, setDelay)
	}
}

func TestWriteBrightness_TransferError(t *testing.T) {
	c, _ := newTestClient(&fakeTransport{writeErr: errors.New("remote I/O error")})
	if err := c.WriteBrightness(10); !errors.Is(err, ErrProtocol) {
		t.Fatalf("err=%v want ErrProtocol", err)
	}
}

func TestReadBrightness_Errors(t *testing.T) {
	corrupt := reply(0, BrightnessCode, 100, 42)
	corrupt[len(corrupt)-1] ^= 0xFF

	cases := []struct {
		name string
		tx   *fakeTransport
	}{
		{"WriteNACK", &fakeTransport{writeErr: errors.New("nack")}},
		{"ReadFails", &fakeTransport{readErr: errors.New("timeout")}},
		{"NullMessage", &fakeTransport{reply: []byte{displayAddr, 0x80, 0xBE}}},
		{"BadChecksum", &fakeTransport{reply: corrupt}},
		{"Unsupported", &fakeTransport{reply: reply(1, BrightnessCode, 0, 0)}},
		{"WrongCode", &fakeTransport{reply: reply(0, 0x12, 100, 42)}},
		{"BadSource", &fakeTransport{reply: append([]byte{0x00}, reply(0, BrightnessCode, 100, 42)[1:]...)}},
		{"Empty", &fakeTransport{reply: nil}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(tc.tx)
			if _, err := c.ReadBrightness(); !errors.Is(err, ErrProtocol) {
				t.Fatalf("err=%v want ErrProtocol", err)
			}
		})
	}
}

func TestOpen_MissingDevice(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "i2c-42"))
	if !errors.Is(err, ErrDeviceAccess) {
		t.Fatalf("err=%v want ErrDeviceAccess", err)
	}
}
