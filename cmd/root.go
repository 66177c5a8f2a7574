package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/zecora/internal/app"
	"github.com/zjrosen/zecora/internal/config"
	"github.com/zjrosen/zecora/internal/flags"
	"github.com/zjrosen/zecora/internal/loader"
	"github.com/zjrosen/zecora/internal/log"
	"github.com/zjrosen/zecora/internal/paths"
	"github.com/zjrosen/zecora/internal/places"
	"github.com/zjrosen/zecora/internal/terminal"
	"github.com/zjrosen/zecora/internal/watcher"
)

// projectConfigPath is checked before the user config.
const projectConfigPath = ".zecora/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	logFile   string
	cfg       config.Config
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:   "zecora [file | :row:col]...",
	Short: "A minimal Emacs-style terminal editor",
	Long: `Zecora opens each file argument in its own frame. An argument starting
with ':' moves the cursor of the file named before it, for example

  zecora main.go :120:4 notes.txt :40

jumps to row 120, column 4 of main.go and row 40 of notes.txt. Rows and
columns count from zero.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runEditor,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/zecora/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also enabled by ZECORA_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"debug log path (default: log.path from config)")
}

func initConfig() {
	cfg, cfgErr = loadConfig(viper.GetViper(), cfgFile, true)
}

// setDefaults registers every config key with viper so environment
// variables and Unmarshal see them.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("editor.escape_timeout", d.Editor.EscapeTimeout)
	v.SetDefault("editor.scroll", d.Editor.Scroll)
	v.SetDefault("editor.decode", d.Editor.Decode)
	v.SetDefault("editor.min_rows", d.Editor.MinRows)
	v.SetDefault("editor.min_cols", d.Editor.MinCols)
	v.SetDefault("theme.alert", d.Theme.Alert)
	v.SetDefault("theme.comment", d.Theme.Comment)
	v.SetDefault("theme.control", d.Theme.Control)
	v.SetDefault("theme.special", d.Theme.Special)
	v.SetDefault("theme.invalid", d.Theme.Invalid)
	v.SetDefault("places.path", d.Places.Path)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("log.path", d.Log.Path)
}

// loadConfig reads configuration into v and returns the result.
//
// Lookup order: explicit file, .zecora/config.yaml in the working
// directory, then ~/.config/zecora/config.yaml. When none exists and
// writeDefault is set, the default template is written to the user config
// path. ZECORA_* environment variables override file values.
func loadConfig(v *viper.Viper, explicit string, writeDefault bool) (config.Config, error) {
	setDefaults(v, config.Defaults())
	v.SetEnvPrefix("ZECORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	userDir := paths.ConfigDir()
	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(projectConfigPath):
		v.SetConfigFile(projectConfigPath)
	default:
		if userDir != "" {
			v.AddConfigPath(userDir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Defaults(), fmt.Errorf("reading config: %w", err)
		}
		if writeDefault && userDir != "" {
			defaultPath := filepath.Join(userDir, "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				v.SetConfigFile(defaultPath)
				_ = v.ReadInConfig()
			}
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	c.Places.Path = paths.ExpandHome(c.Places.Path)
	c.Log.Path = paths.ExpandHome(c.Log.Path)
	return c, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// target is one file argument and the jumps that follow it. An empty path
// stands for the scratch frame.
type target struct {
	path  string
	jumps []string
}

// parseArgs groups ":row:col" arguments with the file argument before them.
// Leading jumps apply to the scratch frame.
func parseArgs(args []string) []target {
	var targets []target
	for _, arg := range args {
		if text, ok := strings.CutPrefix(arg, ":"); ok {
			if len(targets) == 0 {
				targets = append(targets, target{})
			}
			last := &targets[len(targets)-1]
			last.jumps = append(last.jumps, text)
			continue
		}
		targets = append(targets, target{path: arg})
	}
	return targets
}

// openTargets opens every target in order. Jumps for a file that failed to
// open are dropped; the failure is already an alert.
func openTargets(e *app.Editor, targets []target) {
	for _, t := range targets {
		if t.path != "" {
			err := e.Open(t.path)
			var already *loader.AlreadyOpenError
			if err != nil && !errors.As(err, &already) {
				continue
			}
		}
		for _, j := range t.jumps {
			_ = e.Jump(j)
		}
	}
}

func runEditor(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	if logFile != "" {
		cfg.Log.Path = logFile
	}
	if os.Getenv("ZECORA_DEBUG") != "" || debugFlag {
		cleanup, err := log.Init(cfg.Log.Path)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "Zecora starting", "version", version, "config", viper.ConfigFileUsed())
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	term := terminal.New(os.Stdin, os.Stdout)
	rows, cols, err := term.Size()
	if err != nil {
		return fmt.Errorf("%w: %w", terminal.ErrNotTerminal, err)
	}

	featureFlags := flags.New(cfg.Flags)
	opts := []app.Option{
		app.WithFlags(featureFlags),
		app.WithTheme(app.ThemeFor(cfg.Theme, termenv.EnvColorProfile())),
	}
	if featureFlags.Enabled(flags.FlagSavePlace) && cfg.Places.Path != "" {
		store, err := places.Open(cfg.Places.Path)
		if err != nil {
			log.ErrorErr(log.CatPlaces, "places disabled", err, "path", cfg.Places.Path)
		} else {
			opts = append(opts, app.WithPlaces(store))
		}
	}
	if featureFlags.Enabled(flags.FlagWatchFiles) {
		w, err := watcher.New(watcher.Config{DebounceDur: cfg.Watch.Debounce})
		if err != nil {
			log.ErrorErr(log.CatWatcher, "watcher disabled", err)
		} else {
			opts = append(opts, app.WithWatcher(w))
		}
	}

	editor := app.New(cfg, term, opts...)
	defer func() {
		if err := editor.Close(); err != nil {
			log.ErrorErr(log.CatApp, "closing editor", err)
		}
	}()
	if err := editor.CheckSize(rows, cols); err != nil {
		return err
	}
	openTargets(editor, parseArgs(args))

	if err := term.EnterRaw(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	err = editor.Run(ctx)
	if rerr := term.Restore(); rerr != nil && err == nil {
		err = rerr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
