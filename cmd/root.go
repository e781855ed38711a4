package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"reel-digest/infrastructure/config"
	"reel-digest/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "reel-digest",
	Short: "Summarize videos sent as Instagram direct messages",
	Long: `reel-digest answers Instagram direct messages that carry a video or reel
with a short summary:

  - Download the video
  - Sample still frames and extract the audio track
  - Ask Gemini for a summary of the frames and audio
  - Reply to the sender

Example:
  reel-digest serve
  reel-digest summarize https://example.com/clip.mp4`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with secrets")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing .env is normal in production where the environment is set directly
	_ = config.LoadEnv(envFile)

	cfg, cfgErr = config.LoadOrDefault(cfgFile)
	if cfgErr != nil {
		cfg = nil
		return
	}
	cfg.ApplyDefaults()
	cfg.ApplyEnv()
	cfgErr = cfg.Validate()
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", cfgFile, cfgErr)
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// newLogger builds the process logger from the log settings
func newLogger(c *config.Config) *slog.Logger {
	return logging.New(c.Log.Level, c.Log.Format, os.Stderr)
}
