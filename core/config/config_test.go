package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "token", RunMode: RunModeLongpoll},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "token"}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Storage.Dir != "downloads" {
		t.Errorf("storage dir = %q, want downloads", cfg.Storage.Dir)
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{name: "missing token", mut: func(c *Config) { c.Telegram.Token = "" }},
		{name: "bad run mode", mut: func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }},
		{name: "webhook without url", mut: func(c *Config) { c.Telegram.RunMode = RunModeWebhook }},
		{name: "negative longpoll timeout", mut: func(c *Config) { c.Telegram.LongPollTimeoutSeconds = -1 }},
		{name: "negative session ttl", mut: func(c *Config) { c.Storage.SessionTTLMinutes = -5 }},
		{name: "bad rate limit exclude", mut: func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"sticker"} }},
		{name: "bad render quality level", mut: func(c *Config) { c.Render.JPEGQuality = map[string]int{"ultra": 90} }},
		{name: "render quality out of range", mut: func(c *Config) { c.Render.JPEGQuality = map[string]int{"high": 101} }},
		{name: "render dimension out of range", mut: func(c *Config) { c.Render.MaxDimension = map[string]int{"low": 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mut(cfg)
			if err := Normalize(cfg); err == nil {
				t.Error("Normalize: expected error, got nil")
			}
		})
	}
}

func TestNormalizeAcceptsPollingAlias(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestSessionTTL(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    time.Duration
	}{
		{name: "default", minutes: 0, want: 30 * time.Minute},
		{name: "configured", minutes: 45, want: 45 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.Storage.SessionTTLMinutes = tt.minutes
			if got := cfg.SessionTTL(); got != tt.want {
				t.Errorf("SessionTTL() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilCfg *Config
	if got := nilCfg.SessionTTL(); got != 30*time.Minute {
		t.Errorf("nil config SessionTTL() = %v, want 30m", got)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
telegram:
  token: "file-token"
  run_mode: longpoll
storage:
  dir: "work"
  session_ttl_minutes: 10
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "file-token" {
		t.Errorf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Storage.Dir != "work" {
		t.Errorf("storage dir = %q", cfg.Storage.Dir)
	}
	if cfg.SessionTTL() != 10*time.Minute {
		t.Errorf("SessionTTL() = %v", cfg.SessionTTL())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load: expected error for missing file")
	}
}
