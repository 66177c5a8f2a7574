package input

import (
	"strings"

	"github.com/zjrosen/zecora/internal/log"
)

// Mode is the decoder's prefix state.
type Mode uint8

const (
	ModeNormal Mode = iota
	// ModeEscape: one or two ESC bytes have been read.
	ModeEscape
	// ModeExtended: C-x armed the extended table for exactly one byte.
	ModeExtended
	// ModeCSI: collecting parameters after ESC [.
	ModeCSI
	// ModeSS3: ESC O read, one byte follows.
	ModeSS3
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEscape:
		return "escape"
	case ModeExtended:
		return "extended"
	case ModeCSI:
		return "csi"
	case ModeSS3:
		return "ss3"
	default:
		return "unknown"
	}
}

// MaxParams is the size of the CSI parameter buffer.
const MaxParams = 16

// State is the complete decoder state. The zero value is Normal.
type State struct {
	Mode    Mode
	escapes int
	params  [MaxParams]byte
	n       int
}

// Step consumes one byte. It returns the next state and, when the byte
// completes a command, that command with ok set.
func Step(s State, b byte) (State, Command, bool) {
	switch s.Mode {
	case ModeEscape:
		return stepEscape(s, b)
	case ModeExtended:
		if op, ok := extendedTable[b]; ok {
			return State{}, Command{Op: op}, true
		}
		return State{}, Command{}, false
	case ModeCSI:
		return stepCSI(s, b)
	case ModeSS3:
		if op, ok := csiFinal[b]; ok {
			return State{}, Command{Op: op}, true
		}
		return State{}, Command{}, false
	}

	switch b {
	case Escape:
		return State{Mode: ModeEscape, escapes: 1}, Command{}, false
	case ctrlX:
		return State{Mode: ModeExtended}, Command{}, false
	}
	if op, ok := normalTable[b]; ok {
		return State{}, Command{Op: op}, true
	}
	return State{}, Command{Op: OpInsertByte, Byte: b}, true
}

func stepEscape(s State, b byte) (State, Command, bool) {
	switch b {
	case Escape:
		if s.escapes >= 2 {
			return State{}, Command{Op: OpHelp}, true
		}
		s.escapes++
		return s, Command{}, false
	case '[':
		return State{Mode: ModeCSI}, Command{}, false
	case 'O':
		return State{Mode: ModeSS3}, Command{}, false
	case metaExtended:
		return State{Mode: ModeExtended}, Command{}, false
	}
	if op, ok := metaTable[b]; ok {
		return State{}, Command{Op: op}, true
	}
	return State{}, Command{}, false
}

func stepCSI(s State, b byte) (State, Command, bool) {
	if (b >= '0' && b <= '9') || b == ';' {
		if s.n == MaxParams {
			log.Debug(log.CatInput, "csi parameters overflow", "params", string(s.params[:s.n]))
			return State{}, Command{}, false
		}
		s.params[s.n] = b
		s.n++
		return s, Command{}, false
	}

	params := string(s.params[:s.n])
	if b == '~' {
		first, _, _ := strings.Cut(params, ";")
		if op, ok := csiTilde[first]; ok {
			return State{}, Command{Op: op, Params: params}, true
		}
		return State{}, Command{}, false
	}
	if op, ok := csiFinal[b]; ok {
		return State{}, Command{Op: op, Params: params}, true
	}
	return State{}, Command{}, false
}

// Decoder holds decoding state between bytes.
type Decoder struct {
	state State
}

// NewDecoder returns a decoder in Normal mode.
func NewDecoder() *Decoder { return &Decoder{} }

// Feed consumes one byte and reports a completed command.
func (d *Decoder) Feed(b byte) (Command, bool) {
	var (
		cmd Command
		ok  bool
	)
	d.state, cmd, ok = Step(d.state, b)
	return cmd, ok
}

// Pending reports whether a prefix is waiting for more bytes.
func (d *Decoder) Pending() bool { return d.state.Mode != ModeNormal }

// Mode returns the current mode.
func (d *Decoder) Mode() Mode { return d.state.Mode }

// Reset drops any pending prefix.
func (d *Decoder) Reset() {
	if d.Pending() {
		log.Debug(log.CatInput, "pending prefix dropped", "mode", d.state.Mode.String())
	}
	d.state = State{}
}
