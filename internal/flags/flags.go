// Package flags provides feature flags for optional editor subsystems.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"

	"github.com/zjrosen/zecora/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagSavePlace controls whether cursor positions are remembered per file in SQLite.
	FlagSavePlace = "save-place"

	// FlagWatchFiles controls whether open files are watched for changes on disk.
	FlagWatchFiles = "watch-files"

	// FlagCommentHighlight controls coloring from '#' to the end of a row.
	FlagCommentHighlight = "comment-highlight"
)

// Defaults returns the value of every known flag when config does not set it.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagSavePlace:        true,
		FlagWatchFiles:       true,
		FlagCommentHighlight: true,
	}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map layered over Defaults.
func New(flags map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, flags)
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of all flags (for debugging/logging).
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
