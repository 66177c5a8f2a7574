// Package codepoint converts between UTF-8 byte runs and codepoint sequences.
//
// Decoding is lenient by default: malformed input never fails, it produces
// whatever values the byte pattern assembles to. The renderer shows values
// that are not Unicode scalar values as a placeholder, so every decoded line
// keeps exactly the codepoint count it was loaded with.
package codepoint

import (
	"fmt"
	"unicode/utf8"
)

// Invalid is the base of the values produced for bytes that can never start
// a UTF-8 sequence (0xF8..0xFF). Invalid+b lies above utf8.MaxRune.
const Invalid rune = 0x110000

// Policy selects how malformed byte sequences are decoded.
type Policy int

const (
	// Lenient assembles every continuation byte into the last opened codepoint,
	// even when its lead byte did not ask for more bytes.
	Lenient Policy = iota
	// Replace decodes with the standard library; malformed sequences become U+FFFD.
	Replace
)

func (p Policy) String() string {
	switch p {
	case Lenient:
		return "lenient"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "lenient":
		return Lenient, nil
	case "replace":
		return Replace, nil
	default:
		return Lenient, fmt.Errorf("unknown decode policy %q (must be \"lenient\" or \"replace\")", s)
	}
}

// Decoder decodes byte runs under a fixed policy.
type Decoder struct {
	Policy Policy
}

// Decode decodes b under the decoder's policy.
func (d Decoder) Decode(b []byte) []rune {
	if d.Policy == Replace {
		return decodeReplace(b)
	}
	return Decode(b)
}

// Decode decodes b with the Lenient policy.
func Decode(b []byte) []rune {
	out := make([]rune, 0, len(b))
	for _, c := range b {
		switch {
		case c < 0x80:
			out = append(out, rune(c))
		case c&0xC0 == 0x80:
			// continuation: extend the last opened codepoint, or open one
			if len(out) == 0 {
				out = append(out, rune(c&0x3F))
				continue
			}
			last := len(out) - 1
			out[last] = out[last]<<6 | rune(c&0x3F)
		case c&0xE0 == 0xC0:
			out = append(out, rune(c&0x1F))
		case c&0xF0 == 0xE0:
			out = append(out, rune(c&0x0F))
		case c&0xF8 == 0xF0:
			out = append(out, rune(c&0x07))
		default:
			out = append(out, Invalid+rune(c))
		}
	}
	return out
}

func decodeReplace(b []byte) []rune {
	out := make([]rune, 0, utf8.RuneCount(b))
	for len(b) > 0 {
		r, n := utf8.DecodeRune(b)
		out = append(out, r)
		b = b[n:]
	}
	return out
}

// Valid reports whether r can be encoded as UTF-8.
func Valid(r rune) bool {
	return utf8.ValidRune(r)
}

// Encode returns the UTF-8 encoding of r. The second result is false when r
// is negative, a surrogate, or beyond U+10FFFF; callers render a placeholder.
func Encode(r rune) ([]byte, bool) {
	return AppendRune(nil, r)
}

// AppendRune appends the UTF-8 encoding of r to dst.
// dst is returned unchanged with false when r cannot be encoded.
func AppendRune(dst []byte, r rune) ([]byte, bool) {
	if !utf8.ValidRune(r) {
		return dst, false
	}
	return utf8.AppendRune(dst, r), true
}

// EncodeAll encodes a whole codepoint sequence, substituting U+FFFD for values
// that cannot be encoded.
func EncodeAll(rs []rune) []byte {
	out := make([]byte, 0, len(rs))
	for _, r := range rs {
		var ok bool
		if out, ok = AppendRune(out, r); !ok {
			out = utf8.AppendRune(out, utf8.RuneError)
		}
	}
	return out
}
