// Package keys contains keybinding definitions.
//
// The decoder in package input owns the byte tables; the bindings here carry
// the key names and help text shown on the help screen and in alerts.
package keys

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/zjrosen/zecora/internal/input"
)

// EditorKeyMap holds one binding per editor command.
type EditorKeyMap struct {
	// Motion
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	LineStart   key.Binding
	LineEnd     key.Binding
	BufferStart key.Binding
	BufferEnd   key.Binding
	PageUp      key.Binding
	PageDown    key.Binding

	// Editing
	Newline        key.Binding
	DeleteForward  key.Binding
	DeleteBackward key.Binding
	KillLine       key.Binding
	Copy           key.Binding
	Paste          key.Binding
	PasteCycle     key.Binding
	Undo           key.Binding
	Upcase         key.Binding
	Downcase       key.Binding
	Capitalize     key.Binding
	SearchForward  key.Binding
	SearchBackward key.Binding

	// Session
	SetMark key.Binding
	Cancel  key.Binding
	Redraw  key.Binding
	Jump    key.Binding
	Help    key.Binding

	// Files (C-x prefix)
	Quit           key.Binding
	Save           key.Binding
	Open           key.Binding
	ToggleReadOnly key.Binding
	KillBuffer     key.Binding
	NextFrame      key.Binding
}

// Editor is the default key map.
var Editor = EditorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("ctrl+p", "up"),
		key.WithHelp("C-p/↑", "previous line"),
	),
	Down: key.NewBinding(
		key.WithKeys("ctrl+n", "down"),
		key.WithHelp("C-n/↓", "next line"),
	),
	Left: key.NewBinding(
		key.WithKeys("ctrl+b", "left"),
		key.WithHelp("C-b/←", "backward char"),
	),
	Right: key.NewBinding(
		key.WithKeys("ctrl+f", "right"),
		key.WithHelp("C-f/→", "forward char"),
	),
	LineStart: key.NewBinding(
		key.WithKeys("ctrl+a", "home"),
		key.WithHelp("C-a", "line start"),
	),
	LineEnd: key.NewBinding(
		key.WithKeys("ctrl+e", "end"),
		key.WithHelp("C-e", "line end"),
	),
	BufferStart: key.NewBinding(
		key.WithKeys("alt+<"),
		key.WithHelp("M-<", "buffer start"),
	),
	BufferEnd: key.NewBinding(
		key.WithKeys("alt+>"),
		key.WithHelp("M->", "buffer end"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("alt+v", "pgup"),
		key.WithHelp("M-v", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+v", "pgdown"),
		key.WithHelp("C-v", "page down"),
	),

	Newline: key.NewBinding(
		key.WithKeys("enter", "ctrl+j"),
		key.WithHelp("RET", "newline"),
	),
	DeleteForward: key.NewBinding(
		key.WithKeys("ctrl+d", "delete"),
		key.WithHelp("C-d", "delete char"),
	),
	DeleteBackward: key.NewBinding(
		key.WithKeys("backspace", "ctrl+h"),
		key.WithHelp("DEL", "delete back"),
	),
	KillLine: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("C-k", "kill line"),
	),
	Copy: key.NewBinding(
		key.WithKeys("alt+w"),
		key.WithHelp("M-w", "copy region"),
	),
	Paste: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("C-y", "paste"),
	),
	PasteCycle: key.NewBinding(
		key.WithKeys("alt+y"),
		key.WithHelp("M-y", "paste older"),
	),
	Undo: key.NewBinding(
		key.WithKeys("ctrl+_"),
		key.WithHelp("C-_", "undo"),
	),
	Upcase: key.NewBinding(
		key.WithKeys("alt+u"),
		key.WithHelp("M-u", "upcase word"),
	),
	Downcase: key.NewBinding(
		key.WithKeys("alt+l"),
		key.WithHelp("M-l", "downcase word"),
	),
	Capitalize: key.NewBinding(
		key.WithKeys("alt+c"),
		key.WithHelp("M-c", "capitalize"),
	),
	SearchForward: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "search forward"),
	),
	SearchBackward: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "search back"),
	),

	SetMark: key.NewBinding(
		key.WithKeys("ctrl+@"),
		key.WithHelp("C-SPC", "set mark"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("C-g", "cancel"),
	),
	Redraw: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "redraw"),
	),
	Jump: key.NewBinding(
		key.WithKeys("alt+g"),
		key.WithHelp("M-g", "go to row:col"),
	),
	Help: key.NewBinding(
		key.WithKeys("esc esc esc"),
		key.WithHelp("ESC×3", "this help"),
	),

	Quit: key.NewBinding(
		key.WithKeys("ctrl+x ctrl+c"),
		key.WithHelp("C-x C-c", "quit"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+x ctrl+s"),
		key.WithHelp("C-x C-s", "save"),
	),
	Open: key.NewBinding(
		key.WithKeys("ctrl+x ctrl+f"),
		key.WithHelp("C-x C-f", "open file"),
	),
	ToggleReadOnly: key.NewBinding(
		key.WithKeys("ctrl+x ctrl+q"),
		key.WithHelp("C-x C-q", "read-only"),
	),
	KillBuffer: key.NewBinding(
		key.WithKeys("ctrl+x k"),
		key.WithHelp("C-x k", "kill buffer"),
	),
	NextFrame: key.NewBinding(
		key.WithKeys("ctrl+x b"),
		key.WithHelp("C-x b", "next buffer"),
	),
}

// Binding returns the binding of op.
func (k EditorKeyMap) Binding(op input.Op) (key.Binding, bool) {
	b, ok := k.byOp()[op]
	return b, ok
}

func (k EditorKeyMap) byOp() map[input.Op]key.Binding {
	return map[input.Op]key.Binding{
		input.OpUp:             k.Up,
		input.OpDown:           k.Down,
		input.OpLeft:           k.Left,
		input.OpRight:          k.Right,
		input.OpLineStart:      k.LineStart,
		input.OpLineEnd:        k.LineEnd,
		input.OpBufferStart:    k.BufferStart,
		input.OpBufferEnd:      k.BufferEnd,
		input.OpPageUp:         k.PageUp,
		input.OpPageDown:       k.PageDown,
		input.OpNewline:        k.Newline,
		input.OpDeleteForward:  k.DeleteForward,
		input.OpDeleteBackward: k.DeleteBackward,
		input.OpKillLine:       k.KillLine,
		input.OpCopy:           k.Copy,
		input.OpPaste:          k.Paste,
		input.OpPasteCycle:     k.PasteCycle,
		input.OpUndo:           k.Undo,
		input.OpUpcase:         k.Upcase,
		input.OpDowncase:       k.Downcase,
		input.OpCapitalize:     k.Capitalize,
		input.OpSearchForward:  k.SearchForward,
		input.OpSearchBackward: k.SearchBackward,
		input.OpSetMark:        k.SetMark,
		input.OpCancel:         k.Cancel,
		input.OpRedraw:         k.Redraw,
		input.OpJump:           k.Jump,
		input.OpHelp:           k.Help,
		input.OpQuit:           k.Quit,
		input.OpSave:           k.Save,
		input.OpOpen:           k.Open,
		input.OpToggleReadOnly: k.ToggleReadOnly,
		input.OpKillBuffer:     k.KillBuffer,
		input.OpNextFrame:      k.NextFrame,
	}
}

// Group is a titled column of bindings on the help screen.
type Group struct {
	Title    string
	Bindings []key.Binding
}

// Groups returns the bindings in help screen order.
func (k EditorKeyMap) Groups() []Group {
	return []Group{
		{Title: "Motion", Bindings: []key.Binding{
			k.Up, k.Down, k.Left, k.Right, k.LineStart, k.LineEnd,
			k.BufferStart, k.BufferEnd, k.PageUp, k.PageDown,
		}},
		{Title: "Editing", Bindings: []key.Binding{
			k.Newline, k.DeleteForward, k.DeleteBackward, k.KillLine, k.Copy, k.Paste,
			k.PasteCycle, k.Undo, k.Upcase, k.Downcase, k.Capitalize,
			k.SearchForward, k.SearchBackward,
		}},
		{Title: "Session", Bindings: []key.Binding{
			k.SetMark, k.Cancel, k.Redraw, k.Jump, k.Help,
		}},
		{Title: "Files", Bindings: []key.Binding{
			k.Open, k.Save, k.ToggleReadOnly, k.KillBuffer, k.NextFrame, k.Quit,
		}},
	}
}

// ShortHelp returns the bindings shown in the title bar hint.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns every binding grouped into columns.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	groups := k.Groups()
	out := make([][]key.Binding, len(groups))
	for i, g := range groups {
		out[i] = g.Bindings
	}
	return out
}
