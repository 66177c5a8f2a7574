// Package input decodes the raw terminal byte stream into editor commands.
package input

// Op identifies an editor command.
type Op int

const (
	OpNone Op = iota

	// Motion
	OpUp
	OpDown
	OpLeft
	OpRight
	OpLineStart
	OpLineEnd
	OpBufferStart
	OpBufferEnd
	OpPageUp
	OpPageDown

	// Editing, bound to external handlers
	OpInsertByte
	OpNewline
	OpDeleteForward
	OpDeleteBackward
	OpKillLine
	OpCopy
	OpPaste
	OpPasteCycle
	OpUndo
	OpUpcase
	OpDowncase
	OpCapitalize
	OpSearchForward
	OpSearchBackward

	// Session
	OpSetMark
	OpCancel
	OpRedraw
	OpJump
	OpHelp

	// Extended prefix
	OpQuit
	OpSave
	OpOpen
	OpToggleReadOnly
	OpKillBuffer
	OpNextFrame

	opCount
)

var opNames = [...]string{
	OpNone:           "none",
	OpUp:             "previous-line",
	OpDown:           "next-line",
	OpLeft:           "backward-char",
	OpRight:          "forward-char",
	OpLineStart:      "beginning-of-line",
	OpLineEnd:        "end-of-line",
	OpBufferStart:    "beginning-of-buffer",
	OpBufferEnd:      "end-of-buffer",
	OpPageUp:         "scroll-down",
	OpPageDown:       "scroll-up",
	OpInsertByte:     "self-insert",
	OpNewline:        "newline",
	OpDeleteForward:  "delete-char",
	OpDeleteBackward: "delete-backward-char",
	OpKillLine:       "kill-line",
	OpCopy:           "copy-region",
	OpPaste:          "yank",
	OpPasteCycle:     "yank-pop",
	OpUndo:           "undo",
	OpUpcase:         "upcase-word",
	OpDowncase:       "downcase-word",
	OpCapitalize:     "capitalize-word",
	OpSearchForward:  "isearch-forward",
	OpSearchBackward: "isearch-backward",
	OpSetMark:        "set-mark",
	OpCancel:         "keyboard-quit",
	OpRedraw:         "redraw",
	OpJump:           "goto",
	OpHelp:           "help",
	OpQuit:           "save-buffers-kill-terminal",
	OpSave:           "save-buffer",
	OpOpen:           "find-file",
	OpToggleReadOnly: "toggle-read-only",
	OpKillBuffer:     "kill-buffer",
	OpNextFrame:      "next-buffer",
}

// String returns the emacs-style command name shown in alerts and help.
func (o Op) String() string {
	if o < 0 || o >= opCount {
		return "unknown"
	}
	return opNames[o]
}

// Ops returns every command except OpNone in declaration order.
func Ops() []Op {
	out := make([]Op, 0, opCount-1)
	for o := OpNone + 1; o < opCount; o++ {
		out = append(out, o)
	}
	return out
}

// Command is a decoded command. Byte carries the input byte for OpInsertByte;
// Params carries the raw CSI parameter text when the command came from one.
type Command struct {
	Op     Op
	Byte   byte
	Params string
}

// Control byte values.
const (
	ctrlAt    byte = 0x00
	ctrlA     byte = 0x01
	ctrlB     byte = 0x02
	ctrlC     byte = 0x03
	ctrlD     byte = 0x04
	ctrlE     byte = 0x05
	ctrlF     byte = 0x06
	ctrlG     byte = 0x07
	ctrlH     byte = 0x08
	ctrlJ     byte = 0x0A
	ctrlK     byte = 0x0B
	ctrlL     byte = 0x0C
	ctrlM     byte = 0x0D
	ctrlN     byte = 0x0E
	ctrlP     byte = 0x10
	ctrlQ     byte = 0x11
	ctrlR     byte = 0x12
	ctrlS     byte = 0x13
	ctrlV     byte = 0x16
	ctrlX     byte = 0x18
	ctrlY     byte = 0x19
	Escape    byte = 0x1B
	ctrlUnder byte = 0x1F
	Delete    byte = 0x7F
)

// normalTable maps control bytes read in Normal mode.
var normalTable = map[byte]Op{
	ctrlAt:    OpSetMark,
	ctrlA:     OpLineStart,
	ctrlB:     OpLeft,
	ctrlD:     OpDeleteForward,
	ctrlE:     OpLineEnd,
	ctrlF:     OpRight,
	ctrlG:     OpCancel,
	ctrlH:     OpDeleteBackward,
	Delete:    OpDeleteBackward,
	ctrlK:     OpKillLine,
	ctrlL:     OpRedraw,
	ctrlN:     OpDown,
	ctrlP:     OpUp,
	ctrlR:     OpSearchBackward,
	ctrlS:     OpSearchForward,
	ctrlV:     OpPageDown,
	ctrlY:     OpPaste,
	ctrlUnder: OpUndo,
	ctrlM:     OpNewline,
	ctrlJ:     OpNewline,
}

// metaTable maps the byte following a single ESC.
var metaTable = map[byte]Op{
	'g': OpJump,
	'u': OpUpcase,
	'l': OpDowncase,
	'c': OpCapitalize,
	'v': OpPageUp,
	'w': OpCopy,
	'y': OpPasteCycle,
	'<': OpBufferStart,
	'>': OpBufferEnd,
}

// metaExtended re-arms the extended prefix after ESC.
const metaExtended byte = 'x'

// extendedTable maps the byte following C-x.
var extendedTable = map[byte]Op{
	ctrlC: OpQuit,
	ctrlS: OpSave,
	ctrlF: OpOpen,
	ctrlQ: OpToggleReadOnly,
	'k':   OpKillBuffer,
	'b':   OpNextFrame,
}

// csiFinal maps the final byte of a parameterless CSI or SS3 sequence.
var csiFinal = map[byte]Op{
	'A': OpUp,
	'B': OpDown,
	'C': OpRight,
	'D': OpLeft,
	'H': OpLineStart,
	'F': OpLineEnd,
}

// csiTilde maps the numeric parameter of a CSI ... ~ sequence.
var csiTilde = map[string]Op{
	"1": OpLineStart,
	"7": OpLineStart,
	"3": OpDeleteForward,
	"4": OpLineEnd,
	"8": OpLineEnd,
	"5": OpPageUp,
	"6": OpPageDown,
}
