// Package cli provides the trademind command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"TradeMind/internal/ai"
	"TradeMind/internal/config"
	"TradeMind/internal/library"
	"TradeMind/internal/market"
	"TradeMind/internal/terminal"
)

// App holds the configuration shared by every command. Collaborators are
// built on demand so read-only commands never touch the network or the store.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{Config: cfg, Logger: logger}

	rootCmd := &cobra.Command{
		Use:   "trademind",
		Short: "TradeMind - trading terminal backend with AI backtests",
		Long: `TradeMind serves a charting terminal: synthetic market data, a drawing
overlay, AI trend checks and AI backtests with a saved strategy library.

Run 'trademind serve' to start the HTTP and WebSocket API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")

	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newBacktestCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newWatchlistCmd(app))
	rootCmd.AddCommand(newNewsCmd())
	rootCmd.AddCommand(newStrategiesCmd(app))
	return rootCmd
}

func (a *App) newAdvisor() (*ai.Advisor, error) {
	c := a.Config.AI
	if c.APIKey == "" {
		a.Logger.Warn().Msg("no API key configured, AI features will return fallback results")
	}
	completer, err := ai.NewCompleter(ai.Options{
		Provider:       c.Provider,
		APIKey:         c.APIKey,
		BaseURL:        c.BaseURL,
		Model:          c.Model,
		Timeout:        time.Duration(c.TimeoutSeconds) * time.Second,
		MaxRetries:     c.MaxRetries,
		RequestsPerSec: c.RequestsPerSec,
	})
	if err != nil {
		return nil, err
	}
	return ai.NewAdvisor(completer, time.Duration(c.TrendCacheTTL)*time.Second)
}

// openLibrary falls back to an in-memory store when the configured one cannot be opened.
func (a *App) openLibrary() (*library.Library, library.KV) {
	kv, err := library.Open(a.Config.Storage.Driver, a.Config.Storage.Path)
	if err != nil {
		a.Logger.Warn().Err(err).Str("driver", a.Config.Storage.Driver).Msg("open store failed, using memory")
		kv = library.NewMemoryKV()
	}
	return library.New(kv), kv
}

func (a *App) newFeed() *market.Feed {
	m := a.Config.Market
	return market.NewFeed(market.NewSyntheticSource(m.Seed), m.HistoryBars, m.Seed)
}

func (a *App) chartOptions() terminal.ChartOptions {
	c := a.Config.Chart
	return terminal.ChartOptions{
		Toolset:    c.Toolset,
		Theme:      c.Theme,
		Indicators: c.Indicators,
		ChartType:  c.ChartType,
		Timeframe:  c.Timeframe,
		Width:      c.Width,
		Height:     c.Height,
	}
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := marshalIndent(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
