package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when none is given
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Summary   SummaryConfig   `yaml:"summary"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Audio     AudioConfig     `yaml:"audio"`
	Frames    FramesConfig    `yaml:"frames"`
	Download  DownloadConfig  `yaml:"download"`
	Instagram InstagramConfig `yaml:"instagram"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// SummaryConfig contains summarize pipeline settings
type SummaryConfig struct {
	Instruction      string        `yaml:"instruction"`
	SamplingInterval float64       `yaml:"sampling_interval"`
	MaxFrames        int           `yaml:"max_frames"`
	ModelTimeout     time.Duration `yaml:"model_timeout"`
}

// GeminiConfig contains Gemini API settings
type GeminiConfig struct {
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// AudioConfig contains audio extraction settings
type AudioConfig struct {
	Bitrate string `yaml:"bitrate"`
}

// FramesConfig selects the frame sampling backend
type FramesConfig struct {
	Backend string `yaml:"backend"` // ffmpeg or opencv
}

// DownloadConfig contains video download settings
type DownloadConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
	TempDir     string        `yaml:"temp_dir"`
}

// InstagramConfig contains Instagram messaging settings
type InstagramConfig struct {
	APIURL          string `yaml:"api_url"`
	PageAccessToken string `yaml:"page_access_token"`
	VerifyToken     string `yaml:"verify_token"`
	AppSecret       string `yaml:"app_secret"`
}

// ServerConfig contains webhook server settings
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default values
const (
	DefaultInstruction      = "Summarize this video under 100 words"
	DefaultSamplingInterval = 2.0
	DefaultModelTimeout     = 180 * time.Second
	DefaultGeminiModel      = "gemini-2.0-flash"
	DefaultBitrate          = "128k"
	DefaultFramesBackend    = "ffmpeg"
	DefaultDownloadTimeout  = 60 * time.Second
	DefaultInstagramAPIURL  = "https://graph.instagram.com/v21.0/me/messages"
	DefaultPort             = "5000"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads path if it exists and returns an empty Config otherwise
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyDefaults fills every unset value with its default
func (c *Config) ApplyDefaults() {
	if c.Summary.Instruction == "" {
		c.Summary.Instruction = DefaultInstruction
	}
	if c.Summary.SamplingInterval == 0 {
		c.Summary.SamplingInterval = DefaultSamplingInterval
	}
	if c.Summary.ModelTimeout == 0 {
		c.Summary.ModelTimeout = DefaultModelTimeout
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Gemini.MaxAttempts == 0 {
		c.Gemini.MaxAttempts = 1
	}
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = DefaultBitrate
	}
	if c.Frames.Backend == "" {
		c.Frames.Backend = DefaultFramesBackend
	}
	if c.Download.Timeout == 0 {
		c.Download.Timeout = DefaultDownloadTimeout
	}
	if c.Download.MaxAttempts == 0 {
		c.Download.MaxAttempts = 1
	}
	if c.Instagram.APIURL == "" {
		c.Instagram.APIURL = DefaultInstagramAPIURL
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks values that would make the pipeline misbehave
func (c *Config) Validate() error {
	if c.Summary.SamplingInterval <= 0 {
		return fmt.Errorf("summary.sampling_interval must be positive, got %v", c.Summary.SamplingInterval)
	}
	if c.Summary.MaxFrames < 0 {
		return fmt.Errorf("summary.max_frames must not be negative, got %d", c.Summary.MaxFrames)
	}
	if c.Frames.Backend != "ffmpeg" && c.Frames.Backend != "opencv" {
		return fmt.Errorf("frames.backend must be ffmpeg or opencv, got %q", c.Frames.Backend)
	}
	if c.Gemini.MaxAttempts < 1 || c.Download.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1")
	}
	return nil
}

// ValidateServe checks the settings the webhook server cannot run without
func (c *Config) ValidateServe() error {
	var missing []string
	if c.Gemini.APIKey == "" {
		missing = append(missing, "gemini.api_key (GOOGLE_API_KEY)")
	}
	if c.Instagram.PageAccessToken == "" {
		missing = append(missing, "instagram.page_access_token (PAGE_ACCESS_TOKEN)")
	}
	if c.Instagram.VerifyToken == "" {
		missing = append(missing, "instagram.verify_token (VERIFY_TOKEN)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingSetting, missing)
	}
	return nil
}
