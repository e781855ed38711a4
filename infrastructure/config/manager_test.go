package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newTestManager(t *testing.T) (*ConfigManager, *Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{}
	cfg.ApplyDefaults()
	return NewConfigManager(cfg, path), cfg, path
}

func TestConfigManager_SetGet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"summary.sampling_interval", "0.5", "0.5"},
		{"summary.max_frames", "40", "40"},
		{"summary.model_timeout", "90s", "1m30s"},
		{"gemini.model", "gemini-2.5-flash", "gemini-2.5-flash"},
		{"Frames.Backend", "opencv", "opencv"},
		{"summary.instruction", "  Describe it  ", "Describe it"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _, path := newTestManager(t)
			if err := m.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := m.Get(tt.key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != tt.want {
				t.Errorf("Get = %q, want %q", got, tt.want)
			}

			reloaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			again, _ := NewConfigManager(reloaded, path).Get(tt.key)
			if again != tt.want {
				t.Errorf("persisted value = %q, want %q", again, tt.want)
			}
		})
	}
}

func TestConfigManager_SetErrors(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr error
	}{
		{"summary.sampling_interval", "0", ErrInvalidValue},
		{"summary.sampling_interval", "fast", ErrInvalidValue},
		{"summary.max_frames", "-1", ErrInvalidValue},
		{"gemini.max_attempts", "0", ErrInvalidValue},
		{"download.timeout", "soon", ErrInvalidValue},
		{"frames.backend", "vlc", ErrInvalidValue},
		{"email.recipients", "x", ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			m, _, _ := newTestManager(t)
			if err := m.Set(tt.key, tt.value); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigManager_ListMasksSecrets(t *testing.T) {
	m, cfg, _ := newTestManager(t)
	cfg.Gemini.APIKey = "AIzaSyExample1234"
	cfg.Instagram.VerifyToken = "abc"

	found := map[string]Entry{}
	for _, e := range m.List() {
		found[e.Key] = e
	}

	if len(found) != len(Keys()) {
		t.Errorf("List returned %d entries, want %d", len(found), len(Keys()))
	}
	if got := found["gemini.api_key"].Value; got != "********1234" {
		t.Errorf("api key shown as %q", got)
	}
	if got := found["instagram.verify_token"].Value; got != "****" {
		t.Errorf("verify token shown as %q", got)
	}
	if got := found["server.port"].Value; got != "5000" {
		t.Errorf("port = %q", got)
	}
	if strings.Contains(found["gemini.api_key"].Value, "AIza") {
		t.Error("secret leaked")
	}
}
