package main

import (
	"context"
	"fmt"
	"os"

	"TradeMind/internal/cli"
	"TradeMind/internal/config"
	"TradeMind/internal/logging"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:      cfg.Log.Level,
		Console:    true,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	})

	if err := cli.NewRootCmd(cfg, logger).ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
