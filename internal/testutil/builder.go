// Package testutil provides builders for frames, registries and file fixtures.
package testutil

import (
	"testing"

	"github.com/zjrosen/zecora/internal/frame"
)

// Builder accumulates frames and adds them to a registry in order.
type Builder struct {
	t      *testing.T
	reg    *frame.Registry
	frames []*frame.Frame
}

// NewBuilder creates a builder for a fresh registry.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, reg: frame.NewRegistry()}
}

// WithScratch adds an empty scratch frame.
func (b *Builder) WithScratch() *Builder {
	b.frames = append(b.frames, frame.New())
	return b
}

// WithFrame adds a frame holding lines with optional configuration.
func (b *Builder) WithFrame(lines []string, opts ...FrameOption) *Builder {
	b.frames = append(b.frames, NewFrame(lines, opts...))
	return b
}

// Build adds every accumulated frame to the registry and returns it.
// The last frame added is current.
func (b *Builder) Build() *frame.Registry {
	b.t.Helper()
	for _, f := range b.frames {
		b.reg.Add(f)
	}
	return b.reg
}

// NewFrame returns a frame holding lines decoded leniently.
func NewFrame(lines []string, opts ...FrameOption) *frame.Frame {
	ls := make([]*frame.Line, 0, len(lines))
	for _, s := range lines {
		ls = append(ls, frame.LineFromString(s))
	}
	f := frame.NewWithLines("", ls)
	for _, opt := range opts {
		opt(f)
	}
	return f
}
