package terminal

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/zjrosen/zecora/internal/render"
)

func openPTY(t *testing.T) (ptm, pts *os.File) {
	t.Helper()
	ptm, pts, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	t.Cleanup(func() {
		_ = pts.Close()
		_ = ptm.Close()
	})
	return ptm, pts
}

func TestTerminal_Size(t *testing.T) {
	ptm, pts := openPTY(t)
	require.NoError(t, pty.Setsize(ptm, &pty.Winsize{Rows: 30, Cols: 100}))

	rows, cols, err := New(pts, pts).Size()
	require.NoError(t, err)
	require.Equal(t, 30, rows)
	require.Equal(t, 100, cols)
}

func TestTerminal_RawModeRoundTrip(t *testing.T) {
	_, pts := openPTY(t)
	var out bytes.Buffer
	tm := New(pts, &out)

	before, err := term.GetState(int(pts.Fd()))
	require.NoError(t, err)

	require.NoError(t, tm.EnterRaw())
	require.True(t, tm.Raw())
	require.Equal(t, render.EnterScreen, out.String())

	require.NoError(t, tm.Restore())
	require.False(t, tm.Raw())
	require.Equal(t, render.EnterScreen+render.LeaveScreen, out.String())

	after, err := term.GetState(int(pts.Fd()))
	require.NoError(t, err)
	require.Equal(t, before, after)

	require.NoError(t, tm.Restore(), "second restore is a no-op")
}

func TestTerminal_ReadBytesInRawMode(t *testing.T) {
	ptm, pts := openPTY(t)
	tm := New(pts, &bytes.Buffer{})
	require.NoError(t, tm.EnterRaw())
	t.Cleanup(func() { _ = tm.Restore() })

	_, err := ptm.Write([]byte{0x1b, 'g', 0x03})
	require.NoError(t, err)

	for _, want := range []byte{0x1b, 'g', 0x03} {
		b, err := tm.ReadByte()
		require.NoError(t, err)
		require.Equal(t, want, b, "raw mode passes control bytes through")
	}
}

func TestTerminal_ReadByteTimeout(t *testing.T) {
	ptm, pts := openPTY(t)
	tm := New(pts, &bytes.Buffer{})
	require.NoError(t, tm.EnterRaw())
	t.Cleanup(func() { _ = tm.Restore() })

	_, ok, err := tm.ReadByteTimeout(20 * time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = ptm.Write([]byte("[A"))
	require.NoError(t, err)
	b, ok, err := tm.ReadByteTimeout(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, byte('['), b)
}

func TestTerminal_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	defer f.Close()

	require.ErrorIs(t, New(f, &bytes.Buffer{}).EnterRaw(), ErrNotTerminal)
}
