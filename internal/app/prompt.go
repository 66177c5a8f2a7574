package app

import (
	"unicode/utf8"

	"github.com/zjrosen/zecora/internal/input"
	"github.com/zjrosen/zecora/internal/log"
)

// prompt is a one-line text entry on the last screen row.
type prompt struct {
	label  string
	text   string
	submit func(text string)
}

func (e *Editor) startPrompt(label string, submit func(string)) {
	log.Debug(log.CatApp, "prompt started", "label", label)
	e.prompt = &prompt{label: label, submit: submit}
}

// Prompting reports whether a prompt is reading input.
func (e *Editor) Prompting() bool { return e.prompt != nil }

// feedPrompt edits the prompt text. Enter submits, C-g or ESC cancels.
func (e *Editor) feedPrompt(b byte) {
	p := e.prompt
	switch b {
	case '\r', '\n':
		e.prompt = nil
		p.submit(p.text)
	case 0x07, input.Escape:
		e.prompt = nil
		e.reg.Current().SetAlert(AlertQuit)
	case input.Delete, 0x08:
		if p.text != "" {
			_, size := utf8.DecodeLastRuneInString(p.text)
			p.text = p.text[:len(p.text)-size]
		}
	default:
		if b >= 0x20 {
			p.text += string([]byte{b})
		}
	}
}
