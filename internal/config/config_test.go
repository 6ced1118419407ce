package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "data/trademind.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Market.HistoryBars != 300 {
		t.Errorf("history bars = %d", cfg.Market.HistoryBars)
	}
	if cfg.Schedule.TickCron != "@every 1s" {
		t.Errorf("tick cron = %q", cfg.Schedule.TickCron)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
ai:
  provider: anthropic
  model: claude-test
storage:
  driver: file
market:
  symbol: ETHUSD
chart:
  toolset: ["Trend Line", "Triangle"]
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AI_MODEL", "claude-env")
	t.Setenv("MARKET_SEED", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.Model != "claude-env" {
		t.Errorf("env override not applied, model = %q", cfg.AI.Model)
	}
	if cfg.AI.BaseURL != "" {
		t.Errorf("anthropic should not get the openai base url, got %q", cfg.AI.BaseURL)
	}
	if cfg.Storage.Path != "data/trademind_store.json" {
		t.Errorf("file driver default path = %q", cfg.Storage.Path)
	}
	if cfg.Market.Symbol != "ETHUSD" || cfg.Market.Seed != 42 {
		t.Errorf("market = %+v", cfg.Market)
	}
	if len(cfg.Chart.Toolset) != 2 {
		t.Errorf("toolset = %v", cfg.Chart.Toolset)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ai: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		applyDefaults(c)
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad provider", func(c *Config) { c.AI.Provider = "gemini-native" }},
		{"bad driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"negative rps", func(c *Config) { c.AI.RequestsPerSec = -1 }},
		{"too few bars", func(c *Config) { c.Market.HistoryBars = 1 }},
		{"zero width", func(c *Config) { c.Chart.Width = -5 }},
		{"blank tick cron", func(c *Config) { c.Schedule.TickCron = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
