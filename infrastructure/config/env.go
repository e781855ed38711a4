package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvGoogleAPIKey     = "GOOGLE_API_KEY"
	EnvPageAccessToken  = "PAGE_ACCESS_TOKEN"
	EnvVerifyToken      = "VERIFY_TOKEN"
	EnvAppSecret        = "APP_SECRET"
	EnvPort             = "PORT"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
	EnvGeminiModel      = "GEMINI_MODEL"
	EnvSamplingInterval = "SAMPLING_INTERVAL"
	EnvModelTimeout     = "MODEL_TIMEOUT"
)

// LoadEnv reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, LoadEnv returns an error but
// callers can ignore it and use system env or defaults.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvFloat returns the float value of key, or fallback if unset or invalid.
func GetEnvFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return fallback
}

// GetEnvDuration returns the duration value of key, or fallback if unset or invalid.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return fallback
}

// ApplyEnv overlays environment variables onto c
func (c *Config) ApplyEnv() {
	c.Gemini.APIKey = GetEnv(EnvGoogleAPIKey, c.Gemini.APIKey)
	c.Gemini.Model = GetEnv(EnvGeminiModel, c.Gemini.Model)
	c.Instagram.PageAccessToken = GetEnv(EnvPageAccessToken, c.Instagram.PageAccessToken)
	c.Instagram.VerifyToken = GetEnv(EnvVerifyToken, c.Instagram.VerifyToken)
	c.Instagram.AppSecret = GetEnv(EnvAppSecret, c.Instagram.AppSecret)
	c.Server.Port = GetEnv(EnvPort, c.Server.Port)
	c.Log.Level = GetEnv(EnvLogLevel, c.Log.Level)
	c.Log.Format = GetEnv(EnvLogFormat, c.Log.Format)
	c.Summary.SamplingInterval = GetEnvFloat(EnvSamplingInterval, c.Summary.SamplingInterval)
	c.Summary.ModelTimeout = GetEnvDuration(EnvModelTimeout, c.Summary.ModelTimeout)
}
