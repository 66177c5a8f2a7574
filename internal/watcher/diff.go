package watcher

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summary counts lines added and removed between two versions of a file.
type Summary struct {
	Added   int
	Removed int
}

// Changed reports whether any line differs.
func (s Summary) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

func (s Summary) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// Summarize diffs before against after line by line.
func Summarize(before, after []string) Summary {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(before), joinLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var s Summary
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			s.Added += n
		case diffmatchpatch.DiffDelete:
			s.Removed += n
		}
	}
	return s
}

// joinLines terminates every line so the last one diffs like the rest.
func joinLines(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
