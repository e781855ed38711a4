package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Errors for config management
var (
	ErrUnknownKey     = errors.New("unknown config key")
	ErrInvalidValue   = errors.New("invalid config value")
	ErrMissingSetting = errors.New("required setting missing")
)

// setting binds a dotted key to a field of Config
type setting struct {
	get    func(c *Config) string
	set    func(c *Config, v string) error
	secret bool
}

func stringSetting(field func(c *Config) *string) setting {
	return setting{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func secretSetting(field func(c *Config) *string) setting {
	s := stringSetting(field)
	s.secret = true
	return s
}

func intSetting(field func(c *Config) *int, min int) setting {
	return setting{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < min {
				return fmt.Errorf("%w: want an integer >= %d, got %q", ErrInvalidValue, min, v)
			}
			*field(c) = n
			return nil
		},
	}
}

func durationSetting(field func(c *Config) *time.Duration) setting {
	return setting{
		get: func(c *Config) string { return field(c).String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("%w: want a duration like 90s, got %q", ErrInvalidValue, v)
			}
			*field(c) = d
			return nil
		},
	}
}

var settings = map[string]setting{
	"summary.instruction": stringSetting(func(c *Config) *string { return &c.Summary.Instruction }),
	"summary.sampling_interval": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Summary.SamplingInterval, 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("%w: want a positive number of seconds, got %q", ErrInvalidValue, v)
			}
			c.Summary.SamplingInterval = f
			return nil
		},
	},
	"summary.max_frames":          intSetting(func(c *Config) *int { return &c.Summary.MaxFrames }, 0),
	"summary.model_timeout":       durationSetting(func(c *Config) *time.Duration { return &c.Summary.ModelTimeout }),
	"gemini.api_key":              secretSetting(func(c *Config) *string { return &c.Gemini.APIKey }),
	"gemini.model":                stringSetting(func(c *Config) *string { return &c.Gemini.Model }),
	"gemini.max_attempts":         intSetting(func(c *Config) *int { return &c.Gemini.MaxAttempts }, 1),
	"audio.bitrate":               stringSetting(func(c *Config) *string { return &c.Audio.Bitrate }),
	"frames.backend":              stringSetting(func(c *Config) *string { return &c.Frames.Backend }),
	"download.timeout":            durationSetting(func(c *Config) *time.Duration { return &c.Download.Timeout }),
	"download.max_attempts":       intSetting(func(c *Config) *int { return &c.Download.MaxAttempts }, 1),
	"download.temp_dir":           stringSetting(func(c *Config) *string { return &c.Download.TempDir }),
	"instagram.api_url":           stringSetting(func(c *Config) *string { return &c.Instagram.APIURL }),
	"instagram.page_access_token": secretSetting(func(c *Config) *string { return &c.Instagram.PageAccessToken }),
	"instagram.verify_token":      secretSetting(func(c *Config) *string { return &c.Instagram.VerifyToken }),
	"instagram.app_secret":        secretSetting(func(c *Config) *string { return &c.Instagram.AppSecret }),
	"server.port":                 stringSetting(func(c *Config) *string { return &c.Server.Port }),
	"log.level":                   stringSetting(func(c *Config) *string { return &c.Log.Level }),
	"log.format":                  stringSetting(func(c *Config) *string { return &c.Log.Format }),
}

// ConfigManager reads and updates individual settings and persists them
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Entry is one setting as shown to the user
type Entry struct {
	Key    string
	Value  string
	Secret bool
}

// Keys returns every settable key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the current value of key
func (m *ConfigManager) Get(key string) (string, error) {
	s, ok := settings[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.get(m.config), nil
}

// Set validates and stores value under key, then saves the config file
func (m *ConfigManager) Set(key, value string) error {
	key = normalizeKey(key)
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	value = strings.TrimSpace(value)
	if key == "frames.backend" && value != "ffmpeg" && value != "opencv" {
		return fmt.Errorf("%w: frames.backend must be ffmpeg or opencv", ErrInvalidValue)
	}
	if err := s.set(m.config, value); err != nil {
		return err
	}
	return Save(m.config, m.configPath)
}

// List returns all settings with secrets masked
func (m *ConfigManager) List() []Entry {
	entries := make([]Entry, 0, len(settings))
	for _, key := range Keys() {
		s := settings[key]
		value := s.get(m.config)
		if s.secret {
			value = Mask(value)
		}
		entries = append(entries, Entry{Key: key, Value: value, Secret: s.secret})
	}
	return entries
}

// Mask hides all but the last four characters of a secret
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}

// SuggestSetCommand returns the command that sets key
func SuggestSetCommand(key string) string {
	return fmt.Sprintf("reel-digest config set %s <value>", key)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
