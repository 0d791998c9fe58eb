package compositor

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"path/filepath"
	"testing"
)

// serve accepts one connection on a fresh unix socket and hands it to fn.
func serve(t *testing.T, fn func(net.Conn)) string {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "s.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("Listen error: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		fn(conn)
	}()
	return sock
}

const monitorsJSON = `[{"name":"DP-1","focused":false},{"name":"HDMI-A-1","focused":true}]`

func TestHyprland_ActiveOutput(t *testing.T) {
	gotCmd := make(chan string, 1)
	sock := serve(t, func(c net.Conn) {
		buf := make([]byte, 64)
		n, _ := c.Read(buf)
		gotCmd <- string(buf[:n])
		c.Write([]byte(monitorsJSON))
	})

	h := &Hyprland{Socket: sock}
	out, err := h.ActiveOutput()
	if err != nil {
		t.Fatalf("ActiveOutput error: %v", err)
	}
	if out != "HDMI-A-1" {
		t.Fatalf("out=%q want HDMI-A-1", out)
	}
	if cmd := <-gotCmd; cmd != "j/monitors" {
		t.Fatalf("cmd=%q want j/monitors", cmd)
	}
}

func TestHyprland_NoFocus(t *testing.T) {
	sock := serve(t, func(c net.Conn) {
		buf := make([]byte, 64)
		c.Read(buf)
		c.Write([]byte(`[{"name":"DP-1","focused":false}]`))
	})

	_, err := (&Hyprland{Socket: sock}).ActiveOutput()
	if !errors.Is(err, ErrNoFocusedOutput) {
		t.Fatalf("err=%v want ErrNoFocusedOutput", err)
	}
}

func TestHyprland_NoSocket(t *testing.T) {
	h := &Hyprland{Socket: filepath.Join(t.TempDir(), "missing.sock")}
	if _, err := h.ActiveOutput(); err == nil {
		t.Fatalf("expected dial error")
	}
}

// swayReply answers one sway IPC request with payload, echoing the request
// type, and reports that type on got.
func swayReply(got chan<- uint32, payload string) func(net.Conn) {
	return func(c net.Conn) {
		hdr := make([]byte, 14)
		if _, err := io.ReadFull(c, hdr); err != nil {
			return
		}
		typ := binary.LittleEndian.Uint32(hdr[10:])
		if n := binary.LittleEndian.Uint32(hdr[6:10]); n > 0 {
			io.CopyN(io.Discard, c, int64(n))
		}
		got <- typ

		reply := make([]byte, 14, 14+len(payload))
		copy(reply, "i3-ipc")
		binary.LittleEndian.PutUint32(reply[6:], uint32(len(payload)))
		binary.LittleEndian.PutUint32(reply[10:], typ)
		c.Write(append(reply, payload...))
	}
}

func TestSway_ActiveOutput(t *testing.T) {
	gotType := make(chan uint32, 1)
	sock := serve(t, swayReply(gotType, monitorsJSON))

	out, err := NewSway(sock).ActiveOutput()
	if err != nil {
		t.Fatalf("ActiveOutput error: %v", err)
	}
	if out != "HDMI-A-1" {
		t.Fatalf("out=%q want HDMI-A-1", out)
	}
	// GET_OUTPUTS
	if typ := <-gotType; typ != 3 {
		t.Fatalf("type=%d want 3", typ)
	}
}

func TestSway_NoFocus(t *testing.T) {
	gotType := make(chan uint32, 1)
	sock := serve(t, swayReply(gotType, `[{"name":"DP-1","focused":false}]`))

	_, err := NewSway(sock).ActiveOutput()
	if !errors.Is(err, ErrNoFocusedOutput) {
		t.Fatalf("err=%v want ErrNoFocusedOutput", err)
	}
}

func TestSway_MissingSocket(t *testing.T) {
	s := NewSway(filepath.Join(t.TempDir(), "missing.sock"))
	if _, err := s.ActiveOutput(); err == nil {
		t.Fatalf("expected dial error")
	}
}

func TestSway_NoSocket(t *testing.T) {
	if _, err := NewSway("").ActiveOutput(); err == nil {
		t.Fatalf("expected error for empty socket")
	}
}

func TestNew(t *testing.T) {
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")
	t.Setenv("SWAYSOCK", "/run/user/1000/sway-ipc.sock")

	q, err := New("auto")
	if err != nil {
		t.Fatalf("New(auto) error: %v", err)
	}
	if s, ok := q.(*Sway); !ok || s.Socket != "/run/user/1000/sway-ipc.sock" {
		t.Fatalf("New(auto)=%#v want *Sway", q)
	}

	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "abc")
	q, _ = New("")
	if _, ok := q.(*Hyprland); !ok {
		t.Fatalf("New(\"\")=%#v want *Hyprland", q)
	}

	if _, err := New("kwin"); err == nil {
		t.Fatalf("expected error for unknown compositor")
	}

	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")
	t.Setenv("SWAYSOCK", "")
	if _, err := New("auto"); err == nil {
		t.Fatalf("expected detection error")
	}
}

func TestStatic(t *testing.T) {
	out, err := Static("DP-4").ActiveOutput()
	if err != nil || out != "DP-4" {
		t.Fatalf("out=%q err=%v", out, err)
	}
}
