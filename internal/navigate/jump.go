// Package navigate moves the cursor of a frame: textual jumps and the
// single-step motions bound to keys.
package navigate

import (
	"errors"
	"math"

	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/log"
)

// ErrInvalidFormat is returned for jump text outside the [row][:column] grammar.
var ErrInvalidFormat = errors.New("invalid format")

// InvalidFormatAlert is the alert text set for a rejected jump.
const InvalidFormatAlert = "Invalid format"

// Field records which axes a jump specifies.
type Field uint8

const (
	HasRow Field = 1 << iota
	HasCol
)

// Jump is a parsed jump command. Row and Col are 0-based and only
// meaningful when the matching Field bit is set.
type Jump struct {
	Row    int
	Col    int
	Fields Field
}

// Has reports whether every bit in f is set.
func (j Jump) Has(f Field) bool { return j.Fields&f == f }

// ParseJump parses "[row][:column]". Both fields are optional decimal numbers;
// "" and ":" parse to a jump with no fields.
//
// Digits are accumulated as a negative running value so the full range down
// to math.MinInt can be checked for overflow before negation.
func ParseJump(text string) (Jump, error) {
	var (
		j       Jump
		acc     int
		digits  bool
		colPart bool
	)
	finish := func() error {
		if !digits {
			return nil
		}
		if acc == math.MinInt {
			return ErrInvalidFormat
		}
		if colPart {
			j.Col = -acc
			j.Fields |= HasCol
		} else {
			j.Row = -acc
			j.Fields |= HasRow
		}
		return nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9':
			d := int(c - '0')
			if acc < (math.MinInt+d)/10 {
				return Jump{}, ErrInvalidFormat
			}
			acc = acc*10 - d
			digits = true
		case c == ':' && !colPart:
			if err := finish(); err != nil {
				return Jump{}, err
			}
			colPart = true
			acc, digits = 0, false
		default:
			return Jump{}, ErrInvalidFormat
		}
	}
	if err := finish(); err != nil {
		return Jump{}, err
	}
	return j, nil
}

// Apply moves the cursor of f to j. The row is clamped to the document; the
// column is stored as given and clamped when it is consumed.
func Apply(f *frame.Frame, j Jump) {
	if j.Has(HasRow) {
		row := j.Row
		if last := f.LineCount() - 1; row > last {
			row = last
		}
		f.Cursor.Row = row
	}
	if j.Has(HasCol) {
		f.Cursor.Col = j.Col
	}
}

// Run parses text and applies it to f. On a parse error the cursor is left
// alone and f gets the invalid-format alert, wrapped in sgr when sgr is set.
func Run(f *frame.Frame, text, sgr string) error {
	j, err := ParseJump(text)
	if err != nil {
		log.Debug(log.CatApp, "jump rejected", "text", text)
		msg := InvalidFormatAlert
		if sgr != "" {
			msg = "\x1b[" + sgr + "m" + msg + "\x1b[m"
		}
		f.SetAlert(msg)
		return err
	}
	Apply(f, j)
	return nil
}
