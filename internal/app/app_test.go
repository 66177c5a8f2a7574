package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/zecora/internal/config"
	"github.com/zjrosen/zecora/internal/flags"
	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/input"
	"github.com/zjrosen/zecora/internal/loader"
	"github.com/zjrosen/zecora/internal/navigate"
	"github.com/zjrosen/zecora/internal/places"
	"github.com/zjrosen/zecora/internal/render"
	"github.com/zjrosen/zecora/internal/testutil"
)

// pause in a fakeTerm script makes one read time out.
const pause = -1

type fakeTerm struct {
	script []int
	pos    int
	out    bytes.Buffer
	rows   int
	cols   int
	// onPause runs when a pause is read.
	onPause func(t *fakeTerm)
}

func newFakeTerm(input ...int) *fakeTerm {
	return &fakeTerm{script: input, rows: 24, cols: 80}
}

func keys(s string) []int {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = int(s[i])
	}
	return out
}

func (t *fakeTerm) Write(p []byte) (int, error) { return t.out.Write(p) }

func (t *fakeTerm) ReadByte() (byte, error) {
	b, ok, err := t.ReadByteTimeout(0)
	if !ok && err == nil {
		return t.ReadByte()
	}
	return b, err
}

func (t *fakeTerm) ReadByteTimeout(time.Duration) (byte, bool, error) {
	if t.pos >= len(t.script) {
		return 0, false, io.EOF
	}
	v := t.script[t.pos]
	t.pos++
	if v == pause {
		if t.onPause != nil {
			t.onPause(t)
		}
		return 0, false, nil
	}
	return byte(v), true, nil
}

func (t *fakeTerm) Size() (int, int, error) { return t.rows, t.cols, nil }

func memLoader(t *testing.T, files map[string]string) *loader.Loader {
	return loader.New(
		loader.WithFs(testutil.MemFs(t, files)),
		loader.WithResolver(func(p string) (string, error) { return filepath.Clean(p), nil }),
	)
}

func newEditor(t *testing.T, term Terminal, opts ...Option) *Editor {
	t.Helper()
	files := map[string]string{
		"/docs/a.txt": "alpha\nbravo\ncharlie\ndelta",
		"/docs/b.txt": "# comment\nx",
	}
	opts = append([]Option{WithLoader(memLoader(t, files))}, opts...)
	e := New(config.Defaults(), term, opts...)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func feed(e *Editor, s string) {
	for i := 0; i < len(s); i++ {
		e.HandleByte(s[i])
	}
}

func TestNew_StartsWithScratch(t *testing.T) {
	e := newEditor(t, newFakeTerm())
	require.Equal(t, 1, e.Registry().Len())
	require.False(t, e.Current().HasPath())
	require.Equal(t, render.DefaultTheme(), e.renderer.Theme())
}

func TestThemeFor(t *testing.T) {
	cfg := config.Defaults().Theme
	require.Equal(t, render.Plain, ThemeFor(cfg, termenv.Ascii))
	require.Equal(t, cfg.RenderTheme(), ThemeFor(cfg, termenv.ANSI256))
}

func TestOpen(t *testing.T) {
	e := newEditor(t, newFakeTerm())

	require.NoError(t, e.Open("/docs/a.txt"))
	require.Equal(t, "/docs/a.txt", e.Current().Path)
	require.Equal(t, 4, e.Current().LineCount())
	require.Equal(t, 2, e.Registry().Len())
}

func TestOpen_AlreadyOpenSelectsFrame(t *testing.T) {
	e := newEditor(t, newFakeTerm())
	require.NoError(t, e.Open("/docs/a.txt"))
	require.NoError(t, e.Open("/docs/b.txt"))

	err := e.Open("/docs/a.txt")
	var already *loader.AlreadyOpenError
	require.True(t, errors.As(err, &already))
	require.Equal(t, "/docs/a.txt", e.Current().Path)
	require.Contains(t, e.Current().Alert, "is already open")
}

func TestOpen_FailureAlertsCurrentFrame(t *testing.T) {
	e := newEditor(t, newFakeTerm())

	err := e.Open("/docs")
	require.ErrorIs(t, err, loader.ErrNotRegularFile)
	require.Equal(t, 1, e.Registry().Len(), "no frame added on failure")
	require.Contains(t, e.Current().Alert, "/docs is not a regular file")
	require.True(t, strings.HasPrefix(e.Current().Alert, "\x1b[01;31m"))
}

func TestJump(t *testing.T) {
	e := newEditor(t, newFakeTerm())
	require.NoError(t, e.Open("/docs/a.txt"))

	require.NoError(t, e.Jump("2:3"))
	require.Equal(t, frame.Position{Row: 2, Col: 3}, e.Current().Cursor)

	require.ErrorIs(t, e.Jump("x"), navigate.ErrInvalidFormat)
	require.Equal(t, frame.Position{Row: 2, Col: 3}, e.Current().Cursor)
	require.Contains(t, e.Current().Alert, navigate.InvalidFormatAlert)
}

func TestDispatch_Motions(t *testing.T) {
	e := newEditor(t, newFakeTerm())
	require.NoError(t, e.Open("/docs/a.txt"))
	f := e.Current()

	feed(e, "\x0e\x0e\x06\x06") // C-n C-n C-f C-f
	require.Equal(t, frame.Position{Row: 2, Col: 2}, f.Cursor)

	feed(e, "\x05") // C-e
	require.Equal(t, 7, f.Cursor.Col)

	feed(e, "\x01\x10") // C-a C-p
	require.Equal(t, frame.Position{Row: 1, Col: 0}, f.Cursor)

	feed(e, "\x1b>") // M->
	require.Equal(t, frame.Position{Row: 3, Col: 5}, f.Cursor)

	feed(e, "\x1b[A") // up arrow
	require.Equal(t, 2, f.Cursor.Row)

	feed(e, "\x1b<") // M-<
	require.Equal(t, frame.Position{}, f.Cursor)
}

func TestDispatch_SessionCommands(t *testing.T) {
	e := newEditor(t, newFakeTerm())
	f := e.Current()

	feed(e, "\x00") // C-@
	require.True(t, f.Flags.Has(frame.FlagMarkSet|frame.FlagMarkActive))
	require.Equal(t, AlertMarkSet, f.Alert)

	feed(e, "\x07") // C-g
	require.True(t, f.Flags.Has(frame.FlagMarkSet))
	require.False(t, f.Flags.Has(frame.FlagMarkActive))
	require.Equal(t, AlertQuit, f.Alert)

	feed(e, "\x18\x11") // C-x C-q
	require.True(t, f.Flags.Has(frame.FlagReadOnly))
	require.Equal(t, AlertReadOnly, f.Alert)
	feed(e, "\x18\x11")
	require.False(t, f.Flags.Has(frame.FlagReadOnly))
	require.Equal(t, AlertWritable, f.Alert)
}

func TestDispatch_NextFrame(t *testing.T) {
	e := newEditor(t, newFakeTerm())
	require.NoError(t, e.Open("/docs/a.txt"))

	feed(e, "\x18b")
	require.False(t, e.Current().HasPath(), "wraps to the scratch frame")
	feed(e, "\x18b")
	require.Equal(t, "/docs/a.txt", e.Current().Path)
}

func TestDispatch_UnboundCommandAlerts(t *testing.T) {
	e := newEditor(t, newFakeTerm(), WithTheme(render.Plain))

	feed(e, "\x0b") // C-k
	require.Equal(t, "kill-line is not available", e.Current().Alert)

	feed(e, "x")
	require.Equal(t, "self-insert is not available", e.Current().Alert)
}

func TestBind(t *testing.T) {
	e := newEditor(t, newFakeTerm(), WithTheme(render.Plain))

	var got []byte
	e.Bind(input.OpInsertByte, func(_ *Editor, cmd input.Command) error {
		got = append(got, cmd.Byte)
		return nil
	})
	e.Bind(input.OpSave, func(*Editor, input.Command) error {
		return errors.New("disk full")
	})

	feed(e, "hi")
	require.Equal(t, []byte("hi"), got)

	feed(e, "\x18\x13") // C-x C-s
	require.Equal(t, "disk full", e.Current().Alert)
}

func TestJumpPrompt(t *testing.T) {
	e := newEditor(t, newFakeTerm())
	require.NoError(t, e.Open("/docs/a.txt"))

	feed(e, "\x1bg")
	require.True(t, e.Prompting())
	feed(e, "29\x7f:4\r")
	require.False(t, e.Prompting())
	require.Equal(t, frame.Position{Row: 2, Col: 4}, e.Current().Cursor)
}

func TestPrompt_Cancel(t *testing.T) {
	e := newEditor(t, newFakeTerm())

	feed(e, "\x1bg1\x07")
	require.False(t, e.Prompting())
	require.Equal(t, AlertQuit, e.Current().Alert)
	require.Equal(t, frame.Position{}, e.Current().Cursor)
}

func TestOpenPrompt(t *testing.T) {
	e := newEditor(t, newFakeTerm())

	feed(e, "\x18\x06/docs/b.txt\r")
	require.Equal(t, "/docs/b.txt", e.Current().Path)

	feed(e, "\x18\x06\r")
	require.Equal(t, "/docs/b.txt", e.Current().Path, "empty name does nothing")
}

func TestHelpScreen(t *testing.T) {
	term := newFakeTerm(keys("\x1b\x1b\x1bq\x18\x03")...)
	e := newEditor(t, term)

	require.NoError(t, e.Run(context.Background()))
	out := term.out.String()
	assert.Contains(t, out, "Keybindings")
	assert.Contains(t, out, "\r\n")
	require.Empty(t, e.Current().Alert, "the byte closing help is not dispatched")
}

func TestRun_QuitSavesPlaces(t *testing.T) {
	path := testutil.WriteFile(t, "notes.txt", "one\ntwo\nthree")
	store, err := places.Open(testutil.PlacesDBPath(t))
	require.NoError(t, err)

	term := newFakeTerm(keys("\x0e\x0e\x06\x18\x03")...)
	e := New(config.Defaults(), term, WithPlaces(store))
	defer func() { _ = e.Close() }()
	require.NoError(t, e.Open(path))
	canonical := e.Current().Path

	require.NoError(t, e.Run(context.Background()))

	pos, ok, err := store.Get(context.Background(), canonical)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, frame.Position{Row: 2, Col: 1}, pos)

	e2 := New(config.Defaults(), newFakeTerm(), WithPlaces(store))
	require.NoError(t, e2.Open(path))
	require.Equal(t, frame.Position{Row: 2, Col: 1}, e2.Current().Cursor)
}

func TestRun_SavePlaceFlagOff(t *testing.T) {
	path := testutil.WriteFile(t, "notes.txt", "one\ntwo")
	store, err := places.Open(testutil.PlacesDBPath(t))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	term := newFakeTerm(keys("\x0e\x18\x03")...)
	e := New(config.Defaults(), term, WithPlaces(store),
		WithFlags(flags.New(map[string]bool{flags.FlagSavePlace: false})))
	require.NoError(t, e.Open(path))
	require.NoError(t, e.Run(context.Background()))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRun_RendersScreen(t *testing.T) {
	term := newFakeTerm(keys("\x18\x03")...)
	e := newEditor(t, term)
	require.NoError(t, e.Open("/docs/b.txt"))

	require.NoError(t, e.Run(context.Background()))
	out := term.out.String()
	assert.Contains(t, out, render.DefaultTitle)
	assert.Contains(t, out, "b.txt")
	assert.Contains(t, out, "\x1b[34m#")
}

func TestRun_EndOfInput(t *testing.T) {
	e := newEditor(t, newFakeTerm(keys("\x0e")...))
	require.NoError(t, e.Run(context.Background()))
}

func TestRun_TooSmall(t *testing.T) {
	term := newFakeTerm()
	term.rows, term.cols = 5, 80
	e := newEditor(t, term)

	err := e.Run(context.Background())
	require.ErrorIs(t, err, ErrTerminalTooSmall)
	require.Empty(t, term.out.String())
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newEditor(t, newFakeTerm(keys("\x0e")...))
	require.ErrorIs(t, e.Run(ctx), context.Canceled)
}

func TestRun_EscapeTimeout(t *testing.T) {
	cfg := config.Defaults()
	cfg.Editor.EscapeTimeout = 10 * time.Millisecond

	// ESC, timeout, then 'g' inserts instead of starting the jump prompt.
	term := newFakeTerm(append([]int{0x1b, pause}, keys("g")...)...)
	e := New(cfg, term, WithLoader(memLoader(t, nil)), WithTheme(render.Plain))
	require.NoError(t, e.Run(context.Background()))
	require.False(t, e.Prompting())
	require.Equal(t, "self-insert is not available", e.Current().Alert)

	// Without a timeout ESC stays a prefix.
	term = newFakeTerm(append([]int{0x1b, pause}, keys("g")...)...)
	e = New(config.Defaults(), term, WithLoader(memLoader(t, nil)))
	require.NoError(t, e.Run(context.Background()))
	require.True(t, e.Prompting())
}

func TestRun_ResizeRedraws(t *testing.T) {
	term := newFakeTerm(pause)
	term.onPause = func(t *fakeTerm) { t.rows, t.cols = 30, 100 }
	e := newEditor(t, term)

	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, 30, e.rows)
	require.Equal(t, 100, e.cols)
	require.Equal(t, 2, strings.Count(term.out.String(), render.DefaultTitle))
}

func TestCheckSize(t *testing.T) {
	e := newEditor(t, newFakeTerm())
	require.NoError(t, e.CheckSize(10, 20))
	require.ErrorIs(t, e.CheckSize(9, 20), ErrTerminalTooSmall)
	require.ErrorIs(t, e.CheckSize(10, 19), ErrTerminalTooSmall)
}

func TestCRLF(t *testing.T) {
	require.Equal(t, "a\r\nb\r\n", crlf("a\nb\n"))
	require.Equal(t, "", crlf(""))
}
