package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	AI struct {
		Provider       string  `yaml:"provider"` // "openai" (any OpenAI-compatible endpoint) or "anthropic"
		APIKey         string  `yaml:"api_key"`
		BaseURL        string  `yaml:"base_url"`
		Model          string  `yaml:"model"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		MaxRetries     int     `yaml:"max_retries"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		TrendCacheTTL  int     `yaml:"trend_cache_ttl_seconds"`
	} `yaml:"ai"`
	Storage struct {
		Driver string `yaml:"driver"` // "sqlite", "file" or "memory"
		Path   string `yaml:"path"`
	} `yaml:"storage"`
	Market struct {
		Symbol      string `yaml:"symbol"`
		HistoryBars int    `yaml:"history_bars"`
		Seed        int64  `yaml:"seed"` // 0 means time-seeded
	} `yaml:"market"`
	Chart struct {
		Theme      string   `yaml:"theme"`
		ChartType  string   `yaml:"chart_type"`
		Timeframe  string   `yaml:"timeframe"`
		Indicators []string `yaml:"indicators"`
		Toolset    []string `yaml:"toolset"`
		Width      float64  `yaml:"width"`
		Height     float64  `yaml:"height"`
	} `yaml:"chart"`
	Schedule struct {
		TickCron  string `yaml:"tick_cron"`
		TrendCron string `yaml:"trend_cron"` // empty disables the periodic trend check
	} `yaml:"schedule"`
	Log struct {
		Level    string `yaml:"level"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TRADEMIND_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MARKET_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Market.Seed = seed
		}
	}
	if v := os.Getenv("CRON_TICK"); v != "" {
		cfg.Schedule.TickCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "openai"
	}
	if cfg.AI.BaseURL == "" && cfg.AI.Provider == "openai" {
		cfg.AI.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	}
	if cfg.AI.Model == "" {
		if cfg.AI.Provider == "anthropic" {
			cfg.AI.Model = "claude-3-5-haiku-latest"
		} else {
			cfg.AI.Model = "gemini-2.0-flash"
		}
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.AI.MaxRetries == 0 {
		cfg.AI.MaxRetries = 2
	}
	if cfg.AI.RequestsPerSec == 0 {
		cfg.AI.RequestsPerSec = 2
	}
	if cfg.AI.TrendCacheTTL == 0 {
		cfg.AI.TrendCacheTTL = 30
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.Path == "" {
		switch cfg.Storage.Driver {
		case "file":
			cfg.Storage.Path = "data/trademind_store.json"
		default:
			cfg.Storage.Path = "data/trademind.db"
		}
	}
	if cfg.Market.Symbol == "" {
		cfg.Market.Symbol = "BTCUSD"
	}
	if cfg.Market.HistoryBars == 0 {
		cfg.Market.HistoryBars = 300
	}
	if cfg.Chart.Theme == "" {
		cfg.Chart.Theme = "dark"
	}
	if cfg.Chart.ChartType == "" {
		cfg.Chart.ChartType = "Candles"
	}
	if cfg.Chart.Timeframe == "" {
		cfg.Chart.Timeframe = "5m"
	}
	if len(cfg.Chart.Indicators) == 0 {
		cfg.Chart.Indicators = []string{"Vol", "RSI"}
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1200
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 600
	}
	if cfg.Schedule.TickCron == "" {
		cfg.Schedule.TickCron = "@every 1s"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("ai.provider must be openai or anthropic, got %q", c.AI.Provider)
	}
	switch c.Storage.Driver {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("storage.driver must be sqlite, file or memory, got %q", c.Storage.Driver)
	}
	if c.AI.RequestsPerSec < 0 {
		return fmt.Errorf("ai.requests_per_sec must not be negative")
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative")
	}
	if c.Market.HistoryBars < 2 {
		return fmt.Errorf("market.history_bars must be at least 2")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be positive")
	}
	if strings.TrimSpace(c.Schedule.TickCron) == "" {
		return fmt.Errorf("schedule.tick_cron is required")
	}
	return nil
}
