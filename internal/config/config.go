// Package config provides configuration types and defaults for zecora.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/zecora/internal/codepoint"
	"github.com/zjrosen/zecora/internal/log"
	"github.com/zjrosen/zecora/internal/paths"
	"github.com/zjrosen/zecora/internal/render"
)

// Config holds all configuration options for zecora.
type Config struct {
	Editor EditorConfig    `mapstructure:"editor" yaml:"editor"`
	Theme  ThemeConfig     `mapstructure:"theme" yaml:"theme"`
	Places PlacesConfig    `mapstructure:"places" yaml:"places"`
	Watch  WatchConfig     `mapstructure:"watch" yaml:"watch"`
	Log    LogConfig       `mapstructure:"log" yaml:"log"`
	Flags  map[string]bool `mapstructure:"flags" yaml:"flags,omitempty"`
}

// EditorConfig holds editing and display behavior.
type EditorConfig struct {
	// EscapeTimeout drops a pending ESC prefix when no byte follows in time.
	// Zero keeps ESC as a pure prefix.
	EscapeTimeout time.Duration `mapstructure:"escape_timeout" yaml:"escape_timeout"`
	Scroll        string        `mapstructure:"scroll" yaml:"scroll"` // "jump" (default) or "minimal"
	Decode        string        `mapstructure:"decode" yaml:"decode"` // "lenient" (default) or "replace"
	MinRows       int           `mapstructure:"min_rows" yaml:"min_rows"`
	MinCols       int           `mapstructure:"min_cols" yaml:"min_cols"`
}

// ThemeConfig holds SGR parameter strings for highlighted text, e.g. "01;31".
// An empty value disables color for that class.
type ThemeConfig struct {
	Alert   string `mapstructure:"alert" yaml:"alert"`
	Comment string `mapstructure:"comment" yaml:"comment"`
	Control string `mapstructure:"control" yaml:"control"`
	Special string `mapstructure:"special" yaml:"special"`
	Invalid string `mapstructure:"invalid" yaml:"invalid"`
}

// PlacesConfig locates the saved cursor places database.
type PlacesConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// WatchConfig holds file watcher options.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// LogConfig holds debug log options.
type LogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	theme := render.DefaultTheme()
	return Config{
		Editor: EditorConfig{
			Scroll:  render.ScrollJump.String(),
			Decode:  codepoint.Lenient.String(),
			MinRows: 10,
			MinCols: 20,
		},
		Theme: ThemeConfig{
			Alert:   theme.Alert,
			Comment: theme.Comment,
			Control: theme.Control,
			Special: theme.Special,
			Invalid: theme.Invalid,
		},
		Places: PlacesConfig{
			Path: paths.PlacesPath(),
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Log: LogConfig{
			Path: "zecora-debug.log",
		},
	}
}

// RenderTheme converts the theme section to a render.Theme.
func (t ThemeConfig) RenderTheme() render.Theme {
	return render.Theme{
		Alert:   t.Alert,
		Comment: t.Comment,
		Control: t.Control,
		Special: t.Special,
		Invalid: t.Invalid,
	}
}

// ScrollPolicy returns the parsed editor.scroll value.
func (e EditorConfig) ScrollPolicy() render.ScrollPolicy {
	p, _ := render.ParseScrollPolicy(e.Scroll)
	return p
}

// DecodePolicy returns the parsed editor.decode value.
func (e EditorConfig) DecodePolicy() codepoint.Policy {
	p, _ := codepoint.ParsePolicy(e.Decode)
	return p
}

// ValidateEditor checks editor options.
func ValidateEditor(e EditorConfig) error {
	if e.EscapeTimeout < 0 {
		return fmt.Errorf("editor.escape_timeout must not be negative, got %s", e.EscapeTimeout)
	}
	if _, err := render.ParseScrollPolicy(e.Scroll); err != nil {
		return fmt.Errorf("editor.scroll: %w", err)
	}
	if _, err := codepoint.ParsePolicy(e.Decode); err != nil {
		return fmt.Errorf("editor.decode: %w", err)
	}
	if e.MinRows < render.HeaderRows+2 {
		return fmt.Errorf("editor.min_rows must be at least %d, got %d", render.HeaderRows+2, e.MinRows)
	}
	if e.MinCols < 1 {
		return fmt.Errorf("editor.min_cols must be positive, got %d", e.MinCols)
	}
	return nil
}

// ValidateTheme checks that every theme value is a list of SGR parameters.
func ValidateTheme(t ThemeConfig) error {
	fields := []struct {
		name, value string
	}{
		{"alert", t.Alert},
		{"comment", t.Comment},
		{"control", t.Control},
		{"special", t.Special},
		{"invalid", t.Invalid},
	}
	for _, f := range fields {
		if err := render.ValidateSGR(f.value); err != nil {
			return fmt.Errorf("theme.%s: %w", f.name, err)
		}
	}
	return nil
}

// ValidateWatch checks watcher options.
func ValidateWatch(w WatchConfig) error {
	if w.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", w.Debounce)
	}
	return nil
}

// Validate checks the whole configuration and joins every problem found.
func (c Config) Validate() error {
	return errors.Join(
		ValidateEditor(c.Editor),
		ValidateTheme(c.Theme),
		ValidateWatch(c.Watch),
	)
}

// DefaultConfigTemplate returns the commented YAML written for new users.
func DefaultConfigTemplate() string {
	d := Defaults()
	return fmt.Sprintf(`# Zecora Configuration
# Location: ~/.config/zecora/config.yaml (or .zecora/config.yaml in a project)

editor:
  # Drop a pending ESC prefix when no key follows within this duration.
  # 0 keeps ESC as a pure prefix: ESC then x is always M-x.
  escape_timeout: 0s

  # Where the view goes when the cursor leaves it:
  #   jump    - the cursor row becomes the top row
  #   minimal - scroll just far enough to show the cursor
  scroll: %s

  # How malformed UTF-8 is loaded:
  #   lenient - keep decoding, stray bytes become invalid codepoints
  #   replace - stray bytes become U+FFFD
  decode: %s

  # Smallest usable terminal.
  min_rows: %d
  min_cols: %d

# SGR parameters for highlighted text. Leave a value empty to disable color.
theme:
  alert: "%s"
  comment: "%s"
  control: "%s"
  special: "%s"
  invalid: "%s"

# Cursor positions are remembered per file.
places:
  path: %s

# Open files are watched for changes on disk.
watch:
  debounce: %s

log:
  path: %s

# flags:
#   save-place: true
#   watch-files: true
#   comment-highlight: true
`,
		d.Editor.Scroll, d.Editor.Decode, d.Editor.MinRows, d.Editor.MinCols,
		d.Theme.Alert, d.Theme.Comment, d.Theme.Control, d.Theme.Special, d.Theme.Invalid,
		"~/.local/state/zecora/places.db",
		d.Watch.Debounce, d.Log.Path,
	)
}

// WriteDefaultConfig creates a config file with default settings.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
