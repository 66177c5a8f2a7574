// Package terminal puts the controlling terminal into raw mode and reads
// keyboard input one byte at a time.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/zjrosen/zecora/internal/log"
	"github.com/zjrosen/zecora/internal/render"
)

// ErrNotTerminal is returned when input is not a terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

// Terminal is a raw-mode keyboard and VT100 screen.
type Terminal struct {
	in    *os.File
	out   io.Writer
	fd    int
	state *term.State
}

// New wraps in and out. Nothing changes until EnterRaw.
func New(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, fd: int(in.Fd())}
}

// EnterRaw disables canonical mode, echo and signal keys, then switches to
// the alternate screen.
func (t *Terminal) EnterRaw() error {
	if !term.IsTerminal(t.fd) {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.state = state
	log.Debug(log.CatApp, "raw mode on", "fd", t.fd)
	_, err = io.WriteString(t.out, render.EnterScreen)
	return err
}

// Restore leaves the alternate screen and restores the saved terminal mode.
// It is a no-op when EnterRaw was not called.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	_, werr := io.WriteString(t.out, render.LeaveScreen)
	err := term.Restore(t.fd, t.state)
	t.state = nil
	log.Debug(log.CatApp, "raw mode off", "fd", t.fd)
	return errors.Join(werr, err)
}

// Raw reports whether raw mode is active.
func (t *Terminal) Raw() bool { return t.state != nil }

// Size returns the terminal height and width.
func (t *Terminal) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(t.fd)
	if err != nil {
		return 0, 0, fmt.Errorf("terminal size: %w", err)
	}
	return rows, cols, nil
}

// Write writes screen output.
func (t *Terminal) Write(p []byte) (int, error) { return t.out.Write(p) }

// ReadByte blocks until one input byte arrives.
func (t *Terminal) ReadByte() (byte, error) {
	var b [1]byte
	for {
		n, err := t.in.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
}

// ReadByteTimeout waits at most d for a byte. ok is false on timeout.
func (t *Terminal) ReadByteTimeout(d time.Duration) (b byte, ok bool, err error) {
	ms := int(d / time.Millisecond)
	if d > 0 && ms == 0 {
		ms = 1
	}
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, false, fmt.Errorf("poll: %w", err)
		}
		if n == 0 {
			return 0, false, nil
		}
		break
	}
	b, err = t.ReadByte()
	return b, err == nil, err
}
