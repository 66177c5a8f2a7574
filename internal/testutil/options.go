package testutil

import "github.com/zjrosen/zecora/internal/frame"

// FrameOption configures a frame built by NewFrame.
type FrameOption func(*frame.Frame)

// Path binds the frame to a file path.
func Path(p string) FrameOption {
	return func(f *frame.Frame) { f.Path = p }
}

// Cursor places the cursor.
func Cursor(row, col int) FrameOption {
	return func(f *frame.Frame) { f.Cursor = frame.Position{Row: row, Col: col} }
}

// Viewport sets the first visible row and column.
func Viewport(row, col int) FrameOption {
	return func(f *frame.Frame) { f.Viewport = frame.Position{Row: row, Col: col} }
}

// Flags sets the flag bits.
func Flags(fl frame.Flags) FrameOption {
	return func(f *frame.Frame) { f.Flags = fl }
}

// Alert sets a pending alert.
func Alert(msg string) FrameOption {
	return func(f *frame.Frame) { f.Alert = msg }
}
