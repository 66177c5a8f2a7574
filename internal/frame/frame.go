// Package frame holds the document model: lines of codepoints, frames with
// cursor, mark and viewport state, and the registry that owns every frame.
package frame

import (
	"path/filepath"
	"strings"
)

// Flags is the per-frame flag set.
type Flags uint8

const (
	FlagModified Flags = 1 << iota
	FlagMarkSet
	FlagMarkActive
	FlagReadOnly
)

// Has reports whether every bit in f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Position is a (row, column) pair. Columns count codepoints.
type Position struct {
	Row int
	Col int
}

// Frame is one open document.
type Frame struct {
	// Cursor column may exceed the line length; it is clamped when the line
	// is rendered or navigated.
	Cursor Position
	// Mark is meaningful only while FlagMarkSet is set.
	Mark Position
	// Viewport is the top-left corner of the visible text region.
	Viewport Position
	Flags    Flags
	// Path is empty for scratch documents.
	Path  string
	Alert string
	Lines []*Line
}

// New returns a document with exactly one empty line.
func New() *Frame {
	return &Frame{Lines: []*Line{NewLine(0)}}
}

// NewWithLines returns a frame bound to path holding lines.
// An empty lines slice still yields one empty line.
func NewWithLines(path string, lines []*Line) *Frame {
	if len(lines) == 0 {
		lines = []*Line{NewLine(0)}
	}
	return &Frame{Path: path, Lines: lines}
}

// LineCount returns the number of lines, always at least one.
func (f *Frame) LineCount() int { return len(f.Lines) }

// Line returns line i.
func (f *Frame) Line(i int) *Line { return f.Lines[i] }

// CursorLine returns the line holding the cursor.
func (f *Frame) CursorLine() *Line { return f.Lines[f.Cursor.Row] }

// EffectiveColumn returns the cursor column clamped to its line's length.
func (f *Frame) EffectiveColumn() int {
	if n := f.CursorLine().Len(); f.Cursor.Col > n {
		return n
	}
	return f.Cursor.Col
}

// SetAlert replaces the pending alert. The old one is discarded.
func (f *Frame) SetAlert(msg string) { f.Alert = msg }

// HasPath reports whether the frame is associated with a file.
func (f *Frame) HasPath() bool { return f.Path != "" }

// SplitPath returns the directory (with trailing separator) and base name of
// the frame's path. Both are empty for scratch frames.
func (f *Frame) SplitPath() (dir, base string) {
	if f.Path == "" {
		return "", ""
	}
	dir, base = filepath.Split(f.Path)
	return dir, base
}

// SetMark places the mark at the cursor and activates it.
func (f *Frame) SetMark() {
	f.Mark = f.Cursor
	f.Flags |= FlagMarkSet | FlagMarkActive
}

// Text joins the frame's lines with "\n", the inverse of loading.
func (f *Frame) Text() string {
	var sb strings.Builder
	for i, l := range f.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.String())
	}
	return sb.String()
}
