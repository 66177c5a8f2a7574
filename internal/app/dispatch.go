package app

import (
	"context"

	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/input"
	"github.com/zjrosen/zecora/internal/log"
	"github.com/zjrosen/zecora/internal/navigate"
	"github.com/zjrosen/zecora/internal/render"
)

// Alert texts.
const (
	AlertQuit         = "Quit"
	AlertMarkSet      = "Mark set"
	AlertReadOnly     = "Read-only mode enabled"
	AlertWritable     = "Read-only mode disabled"
	AlertNotAvailable = " is not available"
)

// Prompt labels.
const (
	JumpPrompt = "Go to (row:col): "
	OpenPrompt = "Find file: "
)

// Dispatch runs cmd against the current frame.
func (e *Editor) Dispatch(cmd input.Command) {
	f := e.reg.Current()
	log.Debug(log.CatApp, "dispatch", "op", cmd.Op.String(), "byte", cmd.Byte)

	switch cmd.Op {
	case input.OpUp:
		navigate.Up(f)
	case input.OpDown:
		navigate.Down(f)
	case input.OpLeft:
		navigate.Left(f)
	case input.OpRight:
		navigate.Right(f)
	case input.OpLineStart:
		navigate.LineStart(f)
	case input.OpLineEnd:
		navigate.LineEnd(f)
	case input.OpBufferStart:
		navigate.BufferStart(f)
	case input.OpBufferEnd:
		navigate.BufferEnd(f)
	case input.OpPageUp:
		navigate.PageUp(f, render.TextRows(e.rows))
	case input.OpPageDown:
		navigate.PageDown(f, render.TextRows(e.rows))

	case input.OpSetMark:
		f.SetMark()
		f.SetAlert(AlertMarkSet)
	case input.OpCancel:
		f.Flags &^= frame.FlagMarkActive
		f.SetAlert(AlertQuit)
	case input.OpToggleReadOnly:
		f.Flags ^= frame.FlagReadOnly
		if f.Flags.Has(frame.FlagReadOnly) {
			f.SetAlert(AlertReadOnly)
		} else {
			f.SetAlert(AlertWritable)
		}
	case input.OpNextFrame:
		e.reg.Next()
	case input.OpRedraw:
		_, _ = e.term.Write([]byte("\x1b[H\x1b[2J"))
		e.help.Invalidate(context.Background())
	case input.OpHelp:
		e.helpShown = true
	case input.OpQuit:
		e.quit = true

	case input.OpJump:
		e.startPrompt(JumpPrompt, func(text string) {
			_ = e.Jump(text)
		})
	case input.OpOpen:
		e.startPrompt(OpenPrompt, func(text string) {
			if text != "" {
				_ = e.Open(text)
			}
		})

	default:
		e.runHandler(cmd)
	}
}

// runHandler calls the bound handler for cmd, or reports that the command
// does not exist in this build.
func (e *Editor) runHandler(cmd input.Command) {
	h, ok := e.handlers[cmd.Op]
	if !ok {
		e.alert(cmd.Op.String() + AlertNotAvailable)
		return
	}
	if err := h(e, cmd); err != nil {
		log.ErrorErr(log.CatApp, "handler failed", err, "op", cmd.Op.String())
		e.alert(err.Error())
	}
}
