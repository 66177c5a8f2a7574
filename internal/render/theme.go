package render

import (
	"fmt"
	"strings"
)

// Theme holds SGR parameter strings ("01;31") for highlighted text.
// An empty field renders that class without color.
type Theme struct {
	Alert   string
	Comment string
	Control string
	Special string
	Invalid string
}

// DefaultTheme returns the stock colors.
func DefaultTheme() Theme {
	return Theme{
		Alert:   "01;31",
		Comment: "34",
		Control: "35",
		Special: "36",
		Invalid: "01;37;41",
	}
}

// Plain is the theme used on terminals without color support.
var Plain = Theme{}

// ValidateSGR checks that s is a list of numeric SGR parameters.
func ValidateSGR(s string) error {
	if s == "" {
		return nil
	}
	for _, p := range strings.Split(s, ";") {
		if p == "" {
			return fmt.Errorf("empty parameter in %q", s)
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return fmt.Errorf("invalid SGR parameter %q in %q", p, s)
			}
		}
	}
	return nil
}

// Paint wraps text in the SGR sequence sgr. Empty sgr returns text unchanged.
func Paint(sgr, text string) string {
	if sgr == "" {
		return text
	}
	return "\x1b[" + sgr + "m" + text + "\x1b[m"
}
