package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/zecora/internal/config"
	"github.com/zjrosen/zecora/internal/paths"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration zecora would run with: defaults, the config file
and ZECORA_* environment variables merged together.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return enc.Close()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configFilePath())
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configFilePath()
		if fileExists(path) && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one value in the config file",
	Long: `Set one value in the config file, keeping comments and other settings.

Examples:
  zecora config set editor.scroll minimal
  zecora config set theme.comment "32"
  zecora config set flags.watch-files false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfigValue(configFilePath(), args[0], args[1])
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configPathCmd, configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configFilePath returns the file config commands write to: the --config
// flag, the file that was loaded, or the user config path.
func configFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(paths.ConfigDir(), "config.yaml")
}

// setConfigValue validates key=value against the current file before
// writing it.
func setConfigValue(path, key, value string) error {
	if !config.KnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	v := viper.New()
	setDefaults(v, config.Defaults())
	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	v.Set(key, value)

	var candidate config.Config
	if err := v.Unmarshal(&candidate); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := candidate.Validate(); err != nil {
		return err
	}
	return config.SetValue(path, key, value)
}
