package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/log"
	"github.com/zjrosen/zecora/internal/render"
	"github.com/zjrosen/zecora/internal/watcher"
)

// drainChanges applies every pending batch from the watcher without
// blocking. It reports whether any frame changed.
func (e *Editor) drainChanges() bool {
	if e.changes == nil {
		return false
	}
	changed := false
	for {
		select {
		case batch, ok := <-e.changes:
			if !ok {
				e.changes = nil
				return changed
			}
			for _, path := range batch {
				if e.FileChanged(path) {
					changed = true
				}
			}
		default:
			return changed
		}
	}
}

// FileChanged compares the frame open on path with the file on disk. An
// unmodified frame is reloaded; a modified one only gets an alert. It
// reports whether the frame's alert or text changed.
func (e *Editor) FileChanged(path string) bool {
	f := e.frameWatching(path)
	if f == nil {
		return false
	}
	name := filepath.Base(path)
	alertSGR := e.renderer.Theme().Alert

	lines, err := e.loader.ReadLines(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.SetAlert(render.Paint(alertSGR, name+" was deleted on disk"))
			return true
		}
		log.ErrorErr(log.CatWatcher, "reread failed", err, "path", path)
		return false
	}

	summary := watcher.Summarize(lineStrings(f.Lines), lineStrings(lines))
	if !summary.Changed() {
		return false
	}
	log.Info(log.CatWatcher, "file changed on disk", "path", path, "diff", summary.String())

	if f.Flags.Has(frame.FlagModified) {
		f.SetAlert(render.Paint(alertSGR, fmt.Sprintf("%s changed on disk (%s)", name, summary)))
		return true
	}
	f.Lines = lines
	f.Cursor.Row = min(f.Cursor.Row, f.LineCount()-1)
	f.Viewport.Row = min(f.Viewport.Row, f.Cursor.Row)
	f.SetAlert(fmt.Sprintf("Reverted %s (%s)", name, summary))
	return true
}

// frameWatching returns the frame whose path cleans to the same name the
// watcher reports, or nil.
func (e *Editor) frameWatching(path string) *frame.Frame {
	path = filepath.Clean(path)
	var found *frame.Frame
	e.reg.Each(func(_ frame.Handle, f *frame.Frame) {
		if found == nil && f.HasPath() && filepath.Clean(f.Path) == path {
			found = f
		}
	})
	return found
}

func lineStrings(lines []*frame.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}
