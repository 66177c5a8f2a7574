package frame

import "github.com/zjrosen/zecora/internal/codepoint"

// Line is a growable sequence of codepoints holding one line of text.
// The used length and the allocated capacity are tracked separately so
// appends amortize; a Line never shrinks on its own.
type Line struct {
	buf    []rune // len(buf) is the allocated capacity
	length int
}

// NewLine returns an empty line with room for capacity codepoints.
func NewLine(capacity int) *Line {
	if capacity < 0 {
		capacity = 0
	}
	return &Line{buf: make([]rune, capacity)}
}

// LineFromRunes returns a line holding rs with capacity exactly len(rs).
func LineFromRunes(rs []rune) *Line {
	l := NewLine(len(rs))
	l.length = copy(l.buf, rs)
	return l
}

// LineFromString decodes s leniently into a new line.
func LineFromString(s string) *Line {
	return LineFromRunes(codepoint.Decode([]byte(s)))
}

// Len returns the number of codepoints in use.
func (l *Line) Len() int { return l.length }

// Cap returns the number of codepoints allocated.
func (l *Line) Cap() int { return len(l.buf) }

// Runes returns a read view of the line content. The slice aliases the
// line's storage and is invalidated by the next growth.
func (l *Line) Runes() []rune { return l.buf[:l.length:l.length] }

// At returns the codepoint at index i.
func (l *Line) At(i int) rune { return l.buf[i] }

// Append adds r at the end of the line, doubling the capacity when full.
func (l *Line) Append(r rune) {
	l.EnsureCapacity(l.length + 1)
	l.buf[l.length] = r
	l.length++
}

// EnsureCapacity grows the allocation to hold at least n codepoints. The new
// capacity is double the old one, or n when that is larger.
func (l *Line) EnsureCapacity(n int) {
	if n <= len(l.buf) {
		return
	}
	size := len(l.buf) * 2
	if size < n {
		size = n
	}
	grown := make([]rune, size)
	copy(grown, l.buf[:l.length])
	l.buf = grown
}

// String encodes the line back to UTF-8, with U+FFFD for unencodable values.
func (l *Line) String() string {
	return string(codepoint.EncodeAll(l.Runes()))
}
