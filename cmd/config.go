package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"reel-digest/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration settings",
	Long: `Show the effective configuration or change individual settings in the
configuration file.

Examples:
  reel-digest config show
  reel-digest config get summary.sampling_interval
  reel-digest config set summary.instruction "Summarize this video in one sentence"`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print every setting after defaults and environment overrides are applied.
Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigShowWithDependencies(cfg, cfgFile, DefaultOutput)
}

// RunConfigShowWithDependencies runs the show command with injected dependencies
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KEY\tVALUE")
	for _, e := range mgr.List() {
		value := e.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", e.Key, value)
	}

	return w.Flush()
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Long: `Print the effective value of one setting. Secrets are printed unmasked.

Examples:
  reel-digest config get gemini.model
  reel-digest config get download.timeout`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigGetWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(cfg *config.Config, configPath, key string, out OutputWriter) error {
	value, err := config.NewConfigManager(cfg, configPath).Get(key)
	if err != nil {
		return fmt.Errorf("%w. Valid keys: see 'reel-digest config show'", err)
	}
	fmt.Fprintln(out, value)
	return nil
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Long: `Validate and store one setting in the configuration file, creating the
file if needed. Only the file is changed; environment variables still
override it at runtime.

Examples:
  reel-digest config set summary.sampling_interval 0.5
  reel-digest config set summary.max_frames 30
  reel-digest config set download.timeout 90s
  reel-digest config set frames.backend opencv`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}

	// Edit the file as written so environment overrides and defaults are not persisted
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}

	return RunConfigSetWithDependencies(cfg, path, args[0], args[1], DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	key = strings.ToLower(strings.TrimSpace(key))
	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.Set(key, value); err != nil {
		return err
	}

	shown, _ := mgr.Get(key)
	for _, e := range mgr.List() {
		if e.Key == key && e.Secret {
			shown = e.Value
		}
	}
	fmt.Fprintf(out, "Set %s = %s in %s\n", key, shown, configPath)
	return nil
}
