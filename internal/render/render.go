// Package render draws a frame onto a VT100 terminal.
//
// Screen layout: row 1 is the title bar, row 2 the status line, rows 3 to
// rows-1 hold text and the last row is the prompt line.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/zecora/internal/codepoint"
	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/log"
)

// Terminal mode sequences: alternate screen, home, clear and cursor shape.
const (
	EnterScreen = "\x1b[?1049h\x1b[H\x1b[2J\x1b[?8c"
	LeaveScreen = "\x1b[?2c\x1b[H\x1b[2J\x1b[?1049l"
)

// HeaderRows is the number of screen rows above the text.
const HeaderRows = 2

// TabWidth is the tab stop interval.
const TabWidth = 8

const (
	// DefaultTitle is shown at the left of the title bar.
	DefaultTitle = "Zecora"
	// DefaultHint is shown at the right of the title bar.
	DefaultHint = "Press ESC three times for help"
	// ScratchName is shown instead of a path for scratch frames.
	ScratchName = "*scratch*"
)

// ScrollPolicy decides where the viewport goes when the cursor leaves it.
type ScrollPolicy int

const (
	// ScrollJump puts the cursor row at the top of the viewport.
	ScrollJump ScrollPolicy = iota
	// ScrollMinimal moves the viewport just far enough to show the cursor.
	ScrollMinimal
)

func (p ScrollPolicy) String() string {
	switch p {
	case ScrollJump:
		return "jump"
	case ScrollMinimal:
		return "minimal"
	default:
		return "unknown"
	}
}

// ParseScrollPolicy maps a config value to a ScrollPolicy.
func ParseScrollPolicy(s string) (ScrollPolicy, error) {
	switch s {
	case "", "jump":
		return ScrollJump, nil
	case "minimal":
		return ScrollMinimal, nil
	default:
		return ScrollJump, fmt.Errorf("unknown scroll policy %q (must be \"jump\" or \"minimal\")", s)
	}
}

// Renderer draws frames.
type Renderer struct {
	theme    Theme
	scroll   ScrollPolicy
	title    string
	hint     string
	comments bool
	buf      bytes.Buffer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScrollPolicy sets the viewport policy.
func WithScrollPolicy(p ScrollPolicy) Option {
	return func(r *Renderer) { r.scroll = p }
}

// WithTitle sets the title bar text.
func WithTitle(title, hint string) Option {
	return func(r *Renderer) {
		r.title = title
		r.hint = hint
	}
}

// WithCommentHighlight toggles coloring from '#' to the end of a row.
func WithCommentHighlight(on bool) Option {
	return func(r *Renderer) { r.comments = on }
}

// New returns a renderer using theme.
func New(theme Theme, opts ...Option) *Renderer {
	r := &Renderer{
		theme:    theme,
		title:    DefaultTitle,
		hint:     DefaultHint,
		comments: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme { return r.theme }

// TextRows returns the number of text rows on a screen of the given height.
func TextRows(rows int) int {
	return max(rows-HeaderRows-1, 1)
}

// Scroll moves the viewport of f so the cursor is visible on a rows x cols
// screen. The new viewport is stored in f.
func (r *Renderer) Scroll(f *frame.Frame, rows, cols int) {
	height := TextRows(rows)
	width := max(cols, 1)
	col := f.EffectiveColumn()
	before := f.Viewport

	f.Viewport.Row = r.axis(f.Cursor.Row, f.Viewport.Row, height)
	f.Viewport.Col = r.fitCells(f.CursorLine().Runes(), col, r.axis(col, f.Viewport.Col, width), width)

	if f.Viewport != before {
		log.Debug(log.CatRender, "viewport moved",
			"row", f.Viewport.Row, "col", f.Viewport.Col, "cursorRow", f.Cursor.Row, "cursorCol", col)
	}
}

// axis applies the scroll policy on one axis and returns the new first index.
func (r *Renderer) axis(cursor, first, size int) int {
	switch {
	case cursor < first:
		return cursor
	case cursor >= first+size:
		if r.scroll == ScrollMinimal {
			return cursor - size + 1
		}
		return cursor
	default:
		return first
	}
}

// fitCells moves first right until the cell holding rs[col] fits in width
// cells when drawing starts at rs[first].
func (r *Renderer) fitCells(rs []rune, col, first, width int) int {
	for first < col {
		cells := 0
		for i := first; i < col && i < len(rs); i++ {
			cells += runeCells(rs[i], cells)
		}
		cursor := 1
		if col < len(rs) && rs[col] != '\t' {
			cursor = max(runeCells(rs[col], cells), 1)
		}
		if cells+cursor <= width {
			break
		}
		if r.scroll == ScrollJump {
			return col
		}
		first++
	}
	return first
}

// Render scrolls f and writes a full screen for it to w.
func (r *Renderer) Render(w io.Writer, f *frame.Frame, rows, cols int) error {
	r.Scroll(f, rows, cols)

	b := &r.buf
	b.Reset()
	b.WriteString("\x1b[?25l")

	writeCursorPos(b, 1, 1)
	r.drawTitle(b, cols)
	writeCursorPos(b, 2, 1)
	r.drawStatus(b, f, cols)

	cursorCol := 1
	height := TextRows(rows)
	for y := 0; y < height; y++ {
		writeCursorPos(b, HeaderRows+1+y, 1)
		i := f.Viewport.Row + y
		if i >= f.LineCount() {
			b.WriteString("\x1b[K")
			continue
		}
		start, mark := 0, -1
		if i == f.Cursor.Row {
			start, mark = f.Viewport.Col, f.EffectiveColumn()
		}
		if cells := r.drawRow(b, f.Line(i).Runes(), start, mark, cols); mark >= 0 {
			cursorCol = 1 + cells
		}
	}
	writeCursorPos(b, rows, 1)
	b.WriteString("\x1b[K")

	writeCursorPos(b, f.Cursor.Row-f.Viewport.Row+HeaderRows+1, min(cursorCol, max(cols, 1)))
	b.WriteString("\x1b[?25h")

	_, err := w.Write(b.Bytes())
	return err
}

// Prompt draws label and text on the last row with the cursor after them.
func (r *Renderer) Prompt(w io.Writer, rows, cols int, label, text string) error {
	b := &r.buf
	b.Reset()
	line := ansi.Truncate(label+sanitize(text), cols, "")
	writeCursorPos(b, rows, 1)
	b.WriteString(line)
	b.WriteString("\x1b[K")
	writeCursorPos(b, rows, min(ansi.StringWidth(line)+1, max(cols, 1)))
	_, err := w.Write(b.Bytes())
	return err
}

func (r *Renderer) drawTitle(b *bytes.Buffer, cols int) {
	left, right := " "+r.title, r.hint+" "
	gap := cols - ansi.StringWidth(left) - ansi.StringWidth(right)
	var line string
	if gap >= 1 {
		line = left + strings.Repeat(" ", gap) + right
	} else {
		line = ansi.Truncate(left, cols, "")
		line += strings.Repeat(" ", max(cols-ansi.StringWidth(line), 0))
	}
	b.WriteString("\x1b[7m")
	b.WriteString(line)
	b.WriteString("\x1b[m")
}

// StatusLine returns the unpadded status text for f.
func (r *Renderer) StatusLine(f *frame.Frame) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(strconv.Itoa(f.Cursor.Row + 1))
	sb.WriteString(",")
	sb.WriteString(strconv.Itoa(f.EffectiveColumn() + 1))
	sb.WriteString(") ")

	switch {
	case f.Flags.Has(frame.FlagReadOnly):
		sb.WriteString("%%")
	case f.Flags.Has(frame.FlagModified):
		sb.WriteString(Paint(r.theme.Alert, "**"))
	default:
		sb.WriteString("--")
	}
	sb.WriteString(" ")

	if f.HasPath() {
		dir, base := f.SplitPath()
		if dir != "" {
			sb.WriteString("\x1b[2m" + sanitize(dir) + "\x1b[22m")
		}
		sb.WriteString("\x1b[1m" + sanitize(base) + "\x1b[22m")
	} else {
		sb.WriteString(ScratchName)
	}

	if f.Alert != "" {
		sb.WriteString("  ")
		sb.WriteString(f.Alert)
	}
	return sb.String()
}

func (r *Renderer) drawStatus(b *bytes.Buffer, f *frame.Frame, cols int) {
	b.WriteString(ansi.Truncate(r.StatusLine(f), cols, ""))
	b.WriteString("\x1b[m\x1b[K")
}

// drawRow renders rs[start:] into at most cols cells. When mark is within
// the drawn range it returns the cell offset of rs[mark], otherwise the
// number of cells drawn.
func (r *Renderer) drawRow(b *bytes.Buffer, rs []rune, start, mark, cols int) int {
	end := min(len(rs), start+cols)
	cells, markCells := 0, -1
	comment := false
	enc := make([]byte, 0, 4)

	// paint writes a highlighted token and restores comment coloring.
	paint := func(sgr, text string) {
		if sgr == "" {
			b.WriteString(text)
			return
		}
		b.WriteString("\x1b[" + sgr + "m" + text + "\x1b[m")
		if comment && r.theme.Comment != "" {
			b.WriteString("\x1b[" + r.theme.Comment + "m")
		}
	}

	for i := start; i < end; i++ {
		if i == mark {
			markCells = cells
		}
		c := rs[i]
		var (
			text  string
			width int
			sgr   string
		)
		switch {
		case c == '\t':
			width = runeCells(c, cells)
			text = strings.Repeat(" ", width)
		case c < 0x20 || c == 0x7F:
			text, width, sgr = "^"+string(rune(c^0x40)), 2, r.theme.Control
		case c >= 0x80 && c < 0xA0:
			text = "\\" + strconv.FormatInt(int64(c), 8)
			width, sgr = len(text), r.theme.Control
		case c == 0x2011 || c == 0x2010 || c == 0xAD:
			text, width, sgr = "-", 1, r.theme.Special
		case c == 0xA0:
			text, width, sgr = " ", 1, r.theme.Special
		case c == '#' && r.comments && !comment:
			comment = true
			if r.theme.Comment != "" {
				b.WriteString("\x1b[" + r.theme.Comment + "m")
			}
			text, width = "#", 1
		case c < 0x80:
			text, width = string(rune(c)), 1
		case !codepoint.Valid(c):
			text, width, sgr = string(rune(0xFFFD)), 1, r.theme.Invalid
		default:
			enc, _ = codepoint.AppendRune(enc[:0], c)
			text, width = string(enc), runeCells(c, cells)
		}

		if cells+width > cols {
			if c == '\t' {
				b.WriteString(strings.Repeat(" ", cols-cells))
				cells = cols
			}
			break
		}
		if sgr != "" {
			paint(sgr, text)
		} else {
			b.WriteString(text)
		}
		cells += width
	}
	if comment && r.theme.Comment != "" {
		b.WriteString("\x1b[m")
	}
	b.WriteString("\x1b[K")

	if markCells < 0 {
		return cells
	}
	return markCells
}

// runeCells returns the screen cells c takes when drawn at cell offset at.
func runeCells(c rune, at int) int {
	switch {
	case c == '\t':
		return TabWidth - at%TabWidth
	case c < 0x20 || c == 0x7F:
		return 2
	case c >= 0x80 && c < 0xA0:
		return 1 + len(strconv.FormatInt(int64(c), 8))
	case c < 0x80, c == 0x2010, c == 0x2011, c == 0xAD, c == 0xA0, !codepoint.Valid(c):
		return 1
	default:
		return runewidth.RuneWidth(c)
	}
}

// sanitize replaces control bytes in path-like text with '?'.
func sanitize(s string) string {
	return strings.Map(func(c rune) rune {
		if c < 0x20 || c == 0x7F || (c >= 0x80 && c < 0xA0) {
			return '?'
		}
		return c
	}, s)
}

func writeCursorPos(b *bytes.Buffer, row, col int) {
	b.WriteString("\x1b[")
	b.WriteString(strconv.Itoa(row))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(col))
	b.WriteByte('H')
}
