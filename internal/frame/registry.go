package frame

import (
	"github.com/zjrosen/zecora/internal/log"
)

// initialCapacity is the frame table size before the first growth.
const initialCapacity = 4

// Handle addresses a frame in a Registry. Handles stay valid across table
// growth; pointers returned by Frame should not be cached across Add calls.
type Handle int

// None is the handle of no frame.
const None Handle = -1

// Registry owns every open frame and tracks the current one.
type Registry struct {
	frames  []*Frame // len(frames) is the table capacity
	count   int
	current Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{current: None}
}

// Len returns the number of open frames.
func (r *Registry) Len() int { return r.count }

// Cap returns the capacity of the frame table.
func (r *Registry) Cap() int { return len(r.frames) }

// prepare makes room for one more frame: 4 slots at first, doubling when full.
func (r *Registry) prepare() {
	switch {
	case r.frames == nil:
		r.frames = make([]*Frame, initialCapacity)
	case r.count == len(r.frames):
		grown := make([]*Frame, len(r.frames)*2)
		copy(grown, r.frames[:r.count])
		r.frames = grown
		log.Debug(log.CatFrame, "frame table grown", "capacity", len(grown))
	}
}

// Add stores f, makes it current and returns its handle.
func (r *Registry) Add(f *Frame) Handle {
	r.prepare()
	h := Handle(r.count)
	r.frames[h] = f
	r.count++
	r.current = h
	log.Debug(log.CatFrame, "frame added", "handle", int(h), "path", f.Path, "lines", f.LineCount())
	return h
}

// NewScratch creates an empty document not associated with a file.
func (r *Registry) NewScratch() Handle {
	return r.Add(New())
}

// Find returns the frame whose path equals path exactly.
func (r *Registry) Find(path string) (Handle, bool) {
	if path == "" {
		return None, false
	}
	for i := 0; i < r.count; i++ {
		if r.frames[i].Path == path {
			return Handle(i), true
		}
	}
	return None, false
}

// Frame returns the frame for h, or nil when h is out of range.
func (r *Registry) Frame(h Handle) *Frame {
	if h < 0 || int(h) >= r.count {
		return nil
	}
	return r.frames[h]
}

// Current returns the current frame, or nil for an empty registry.
func (r *Registry) Current() *Frame { return r.Frame(r.current) }

// CurrentHandle returns the handle of the current frame.
func (r *Registry) CurrentHandle() Handle { return r.current }

// Select makes h current. It reports false when h is not open.
func (r *Registry) Select(h Handle) bool {
	if r.Frame(h) == nil {
		return false
	}
	r.current = h
	return true
}

// Next selects the frame after the current one, wrapping around.
func (r *Registry) Next() Handle {
	if r.count == 0 {
		return None
	}
	r.current = (r.current + 1) % Handle(r.count)
	return r.current
}

// Each calls fn for every open frame in handle order.
func (r *Registry) Each(fn func(Handle, *Frame)) {
	for i := 0; i < r.count; i++ {
		fn(Handle(i), r.frames[i])
	}
}

// Close releases every frame.
func (r *Registry) Close() {
	for i := range r.frames {
		r.frames[i] = nil
	}
	r.frames = nil
	r.count = 0
	r.current = None
}
