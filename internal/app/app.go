// Package app contains the editor loop: it reads keystrokes, dispatches
// decoded commands against the current frame and redraws the screen.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"github.com/zjrosen/zecora/internal/config"
	"github.com/zjrosen/zecora/internal/flags"
	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/input"
	"github.com/zjrosen/zecora/internal/loader"
	"github.com/zjrosen/zecora/internal/log"
	"github.com/zjrosen/zecora/internal/navigate"
	"github.com/zjrosen/zecora/internal/places"
	"github.com/zjrosen/zecora/internal/render"
	"github.com/zjrosen/zecora/internal/ui/help"
	"github.com/zjrosen/zecora/internal/watcher"
)

// pollInterval bounds how long the loop blocks on input before it checks
// for file changes, resizes and cancellation.
const pollInterval = 250 * time.Millisecond

// ErrTerminalTooSmall is returned by Run when the terminal is below the
// configured minimum size.
var ErrTerminalTooSmall = errors.New("terminal too small")

// Terminal is the raw-mode terminal the editor runs on.
type Terminal interface {
	io.Writer
	ReadByte() (byte, error)
	ReadByteTimeout(d time.Duration) (b byte, ok bool, err error)
	Size() (rows, cols int, err error)
}

// Handler runs a command the editor core does not implement itself.
type Handler func(e *Editor, cmd input.Command) error

// Editor is the root application state.
type Editor struct {
	cfg      config.Config
	term     Terminal
	reg      *frame.Registry
	loader   *loader.Loader
	renderer *render.Renderer
	decoder  *input.Decoder
	handlers map[input.Op]Handler
	flags    *flags.Registry
	theme    *render.Theme
	help     *help.Screen

	places  *places.Store
	watcher *watcher.Watcher
	changes <-chan []string

	prompt    *prompt
	helpShown bool
	quit      bool
	rows      int
	cols      int
}

// Option configures an Editor.
type Option func(*Editor)

// WithLoader replaces the default OS filesystem loader.
func WithLoader(l *loader.Loader) Option {
	return func(e *Editor) { e.loader = l }
}

// WithPlaces restores cursor positions from s on open and saves them on quit.
func WithPlaces(s *places.Store) Option {
	return func(e *Editor) { e.places = s }
}

// WithWatcher reports changes on disk to open files. The watcher must not
// be started yet.
func WithWatcher(w *watcher.Watcher) Option {
	return func(e *Editor) { e.watcher = w }
}

// WithFlags sets the feature flags. Defaults come from the config.
func WithFlags(f *flags.Registry) Option {
	return func(e *Editor) { e.flags = f }
}

// WithTheme overrides the theme from the config.
func WithTheme(t render.Theme) Option {
	return func(e *Editor) { e.theme = &t }
}

// ThemeFor returns the configured theme, or no colors at all when the
// terminal profile cannot show them.
func ThemeFor(t config.ThemeConfig, profile termenv.Profile) render.Theme {
	if profile == termenv.Ascii {
		return render.Plain
	}
	return t.RenderTheme()
}

// New creates an editor holding one scratch frame.
func New(cfg config.Config, term Terminal, opts ...Option) *Editor {
	e := &Editor{
		cfg:      cfg,
		term:     term,
		reg:      frame.NewRegistry(),
		decoder:  input.NewDecoder(),
		handlers: make(map[input.Op]Handler),
		flags:    flags.New(cfg.Flags),
		help:     help.NewScreen(),
	}
	e.reg.NewScratch()
	for _, opt := range opts {
		opt(e)
	}
	if e.loader == nil {
		e.loader = loader.New(loader.WithDecodePolicy(cfg.Editor.DecodePolicy()))
	}
	theme := cfg.Theme.RenderTheme()
	if e.theme != nil {
		theme = *e.theme
	}
	e.renderer = render.New(theme,
		render.WithScrollPolicy(cfg.Editor.ScrollPolicy()),
		render.WithCommentHighlight(e.flags.Enabled(flags.FlagCommentHighlight)))
	if e.watcher != nil {
		e.changes = e.watcher.Start()
	}
	return e
}

// Registry returns the frame registry.
func (e *Editor) Registry() *frame.Registry { return e.reg }

// Current returns the current frame.
func (e *Editor) Current() *frame.Frame { return e.reg.Current() }

// Bind installs h for op, replacing any earlier handler.
func (e *Editor) Bind(op input.Op, h Handler) {
	e.handlers[op] = h
}

// Open loads path and makes it current. Failures become an alert on the
// current frame and are also returned; when the file is already open its
// frame is selected.
func (e *Editor) Open(path string) error {
	h, err := e.loader.Open(e.reg, path)
	if err != nil {
		var already *loader.AlreadyOpenError
		if errors.As(err, &already) {
			e.reg.Select(already.Handle)
		}
		e.alert(loader.Describe(path, err))
		return err
	}

	f := e.reg.Frame(h)
	if e.places != nil && e.flags.Enabled(flags.FlagSavePlace) {
		if _, err := e.places.Restore(context.Background(), f); err != nil {
			log.ErrorErr(log.CatPlaces, "restore failed", err, "path", f.Path)
		}
	}
	if e.watcher != nil && e.flags.Enabled(flags.FlagWatchFiles) {
		if err := e.watcher.Add(f.Path); err != nil {
			log.ErrorErr(log.CatWatcher, "watch failed", err, "path", f.Path)
		}
	}
	return nil
}

// Jump applies "row:col" text to the current frame. A malformed text leaves
// the cursor alone and sets an alert.
func (e *Editor) Jump(text string) error {
	return navigate.Run(e.reg.Current(), text, e.renderer.Theme().Alert)
}

// CheckSize returns ErrTerminalTooSmall when rows x cols is below the
// configured minimum.
func (e *Editor) CheckSize(rows, cols int) error {
	if rows < e.cfg.Editor.MinRows || cols < e.cfg.Editor.MinCols {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrTerminalTooSmall,
			cols, rows, e.cfg.Editor.MinCols, e.cfg.Editor.MinRows)
	}
	return nil
}

// Run reads and dispatches keystrokes until quit, end of input or ctx is
// cancelled. Cursor places are saved on every exit path.
func (e *Editor) Run(ctx context.Context) error {
	rows, cols, err := e.term.Size()
	if err != nil {
		return err
	}
	if err := e.CheckSize(rows, cols); err != nil {
		return err
	}
	e.rows, e.cols = rows, cols
	defer e.savePlaces()

	if err := e.draw(); err != nil {
		return err
	}

	for !e.quit {
		if err := ctx.Err(); err != nil {
			return err
		}

		wait, escWait := pollInterval, e.escapeWait()
		if escWait {
			wait = e.cfg.Editor.EscapeTimeout
		}

		b, ok, err := e.term.ReadByteTimeout(wait)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info(log.CatApp, "input closed")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if !ok {
			if escWait {
				log.Debug(log.CatInput, "escape prefix timed out", "mode", e.decoder.Mode().String())
				e.decoder.Reset()
			}
			if e.idle() {
				if err := e.draw(); err != nil {
					return err
				}
			}
			continue
		}

		e.HandleByte(b)
		e.drainChanges()
		e.resize()
		if e.quit {
			break
		}
		if err := e.draw(); err != nil {
			return err
		}
	}
	log.Info(log.CatApp, "quit")
	return nil
}

// escapeWait reports whether an ESC prefix is pending and should expire.
// The C-x prefix never expires.
func (e *Editor) escapeWait() bool {
	if e.cfg.Editor.EscapeTimeout <= 0 || e.prompt != nil || e.helpShown {
		return false
	}
	return e.decoder.Pending() && e.decoder.Mode() != input.ModeExtended
}

// HandleByte feeds one input byte to the help screen, the active prompt or
// the decoder.
func (e *Editor) HandleByte(b byte) {
	switch {
	case e.helpShown:
		e.helpShown = false
	case e.prompt != nil:
		e.feedPrompt(b)
	default:
		if cmd, ok := e.decoder.Feed(b); ok {
			e.Dispatch(cmd)
		}
	}
}

// idle checks for work that arrives without input. It reports whether the
// screen needs a redraw.
func (e *Editor) idle() bool {
	changed := e.drainChanges()
	return e.resize() || changed
}

// resize picks up a new terminal size.
func (e *Editor) resize() bool {
	rows, cols, err := e.term.Size()
	if err != nil || (rows == e.rows && cols == e.cols) {
		return false
	}
	log.Debug(log.CatRender, "terminal resized", "rows", rows, "cols", cols)
	e.rows, e.cols = rows, cols
	return true
}

// draw writes the screen for the current state.
func (e *Editor) draw() error {
	if e.helpShown {
		view := e.help.Render(context.Background(), e.cols, e.rows)
		_, err := io.WriteString(e.term, "\x1b[?25l\x1b[H\x1b[2J"+crlf(view))
		return err
	}
	if err := e.renderer.Render(e.term, e.reg.Current(), e.rows, e.cols); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	if e.prompt != nil {
		return e.renderer.Prompt(e.term, e.rows, e.cols, e.prompt.label, e.prompt.text)
	}
	return nil
}

// Close stops the watcher and closes the places database.
func (e *Editor) Close() error {
	var errs []error
	if e.watcher != nil {
		errs = append(errs, e.watcher.Stop())
	}
	if e.places != nil {
		errs = append(errs, e.places.Close())
	}
	e.reg.Close()
	return errors.Join(errs...)
}

func (e *Editor) savePlaces() {
	if e.places == nil || !e.flags.Enabled(flags.FlagSavePlace) {
		return
	}
	ctx := context.Background()
	if err := e.places.SaveAll(ctx, e.reg); err != nil {
		log.ErrorErr(log.CatPlaces, "saving places failed", err)
	}
	if _, err := e.places.Prune(ctx, places.DefaultLimit); err != nil {
		log.ErrorErr(log.CatPlaces, "pruning places failed", err)
	}
}

// alert sets msg on the current frame in the alert color.
func (e *Editor) alert(msg string) {
	e.reg.Current().SetAlert(render.Paint(e.renderer.Theme().Alert, msg))
}

// crlf converts newlines for a terminal in raw mode.
func crlf(s string) string {
	out := make([]byte, 0, len(s)+len(s)/40)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, '\r')
		}
		out = append(out, s[i])
	}
	return string(out)
}
