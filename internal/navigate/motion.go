package navigate

import "github.com/zjrosen/zecora/internal/frame"

// clampCol pins a deferred column to the current line before a horizontal move.
func clampCol(f *frame.Frame) {
	f.Cursor.Col = f.EffectiveColumn()
}

// Left moves back one codepoint, onto the end of the previous line at column 0.
func Left(f *frame.Frame) {
	clampCol(f)
	switch {
	case f.Cursor.Col > 0:
		f.Cursor.Col--
	case f.Cursor.Row > 0:
		f.Cursor.Row--
		f.Cursor.Col = f.CursorLine().Len()
	}
}

// Right moves forward one codepoint, onto the start of the next line at the end.
func Right(f *frame.Frame) {
	clampCol(f)
	switch {
	case f.Cursor.Col < f.CursorLine().Len():
		f.Cursor.Col++
	case f.Cursor.Row < f.LineCount()-1:
		f.Cursor.Row++
		f.Cursor.Col = 0
	}
}

// Up moves to the previous line, keeping the stored column.
func Up(f *frame.Frame) {
	if f.Cursor.Row > 0 {
		f.Cursor.Row--
	}
}

// Down moves to the next line, keeping the stored column.
func Down(f *frame.Frame) {
	if f.Cursor.Row < f.LineCount()-1 {
		f.Cursor.Row++
	}
}

// LineStart moves the cursor to column zero.
func LineStart(f *frame.Frame) { f.Cursor.Col = 0 }

// LineEnd moves the cursor past the last codepoint of its line.
func LineEnd(f *frame.Frame) { f.Cursor.Col = f.CursorLine().Len() }

// BufferStart moves the cursor to the first row and column.
func BufferStart(f *frame.Frame) { f.Cursor = frame.Position{} }

// BufferEnd moves the cursor to the end of the last line.
func BufferEnd(f *frame.Frame) {
	f.Cursor.Row = f.LineCount() - 1
	f.Cursor.Col = f.CursorLine().Len()
}

// PageUp moves the cursor and viewport up by height rows.
func PageUp(f *frame.Frame, height int) {
	if height < 1 {
		height = 1
	}
	f.Cursor.Row = max(f.Cursor.Row-height, 0)
	f.Viewport.Row = max(f.Viewport.Row-height, 0)
}

// PageDown moves the cursor and viewport down by height rows.
func PageDown(f *frame.Frame, height int) {
	if height < 1 {
		height = 1
	}
	last := f.LineCount() - 1
	f.Cursor.Row = min(f.Cursor.Row+height, last)
	f.Viewport.Row = min(f.Viewport.Row+height, last)
}
