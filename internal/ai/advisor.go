package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"TradeMind/internal/logging"
	"TradeMind/internal/model"
)

const (
	// TrendUnavailable is shown when the service answers with no text.
	TrendUnavailable = "Market data unavailable for analysis."
	// TrendOffline is shown when the trend call fails.
	TrendOffline = "AI Analysis offline."

	maxAnalysisWords = 30
)

// FallbackBacktest is the result shown whenever a backtest cannot be produced.
func FallbackBacktest() model.BacktestResult {
	return model.BacktestResult{
		Analysis:       "Failed to run analysis. Please check API configuration.",
		PineScriptCode: "// Error generating code",
	}
}

// Advisor runs backtest simulations and trend checks through a Completer.
// Its methods never return errors; failures become fallback values.
type Advisor struct {
	completer Completer
	cache     *ristretto.Cache
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewAdvisor creates an advisor. A positive cacheTTL caches trend answers.
func NewAdvisor(c Completer, cacheTTL time.Duration) (*Advisor, error) {
	a := &Advisor{
		completer: c,
		ttl:       cacheTTL,
		logger:    logging.Component("advisor"),
	}
	if cacheTTL > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e4,
			MaxCost:     1 << 20,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("trend cache: %w", err)
		}
		a.cache = cache
	}
	return a, nil
}

// Close releases the trend cache.
func (a *Advisor) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

func backtestPrompt(p model.StrategyParams) string {
	return fmt.Sprintf(`You are an expert algorithmic trading engineer.
User Strategy: "%s"
Asset: %s

Task 1: Simulate a backtest for this strategy on the specified asset (%s to %s). Be realistic with win rates (usually 40-65%%).

Task 2: Write a valid TradingView Pine Script (v5) that implements this strategy.

Return the result strictly as a JSON object with this schema:
{
  "winRate": number,
  "totalTrades": number,
  "netProfit": number,
  "profitFactor": number,
  "maxDrawdown": number,
  "analysis": string (short summary max 30 words),
  "pineScriptCode": string (The full pine script code)
}`, p.Description, p.Pair, p.StartDate, p.EndDate)
}

func trendPrompt(symbol string, price, change float64) string {
	return fmt.Sprintf(`Act as a professional technical analyst.
Asset: %s
Current Price: %g
24h Change: %g%%

Provide a concise, 2-sentence technical analysis of the current trend sentiment (Bullish/Bearish) and key levels to watch. Use trading terminology.`, symbol, price, change)
}

// RunBacktest asks the service to simulate the strategy and write its Pine
// Script. Any failure, including an incomplete or implausible answer, yields
// FallbackBacktest.
func (a *Advisor) RunBacktest(ctx context.Context, p model.StrategyParams) model.BacktestResult {
	text, err := a.completer.Complete(ctx, backtestPrompt(p), true)
	if err != nil {
		a.logger.Error().Err(err).Str("pair", p.Pair).Msg("backtest failed")
		return FallbackBacktest()
	}
	res, err := parseBacktest(text)
	if err != nil {
		a.logger.Error().Err(err).Str("pair", p.Pair).Msg("backtest response rejected")
		return FallbackBacktest()
	}
	a.logger.Info().Str("pair", p.Pair).Float64("win_rate", res.WinRate).Int("trades", res.TotalTrades).Msg("backtest complete")
	return res
}

type rawBacktest struct {
	WinRate        *float64 `json:"winRate"`
	TotalTrades    *float64 `json:"totalTrades"`
	NetProfit      *float64 `json:"netProfit"`
	ProfitFactor   *float64 `json:"profitFactor"`
	MaxDrawdown    *float64 `json:"maxDrawdown"`
	Analysis       *string  `json:"analysis"`
	PineScriptCode *string  `json:"pineScriptCode"`
}

func parseBacktest(text string) (model.BacktestResult, error) {
	var raw rawBacktest
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return model.BacktestResult{}, fmt.Errorf("decode backtest: %w", err)
	}
	if raw.WinRate == nil || raw.TotalTrades == nil || raw.NetProfit == nil || raw.ProfitFactor == nil ||
		raw.MaxDrawdown == nil || raw.Analysis == nil || raw.PineScriptCode == nil {
		return model.BacktestResult{}, errors.New("backtest response missing fields")
	}
	switch {
	case *raw.WinRate < 0 || *raw.WinRate > 100:
		return model.BacktestResult{}, fmt.Errorf("win rate %v out of range", *raw.WinRate)
	case *raw.TotalTrades < 0:
		return model.BacktestResult{}, fmt.Errorf("negative trade count %v", *raw.TotalTrades)
	case *raw.MaxDrawdown < 0:
		return model.BacktestResult{}, fmt.Errorf("negative drawdown %v", *raw.MaxDrawdown)
	}

	return model.BacktestResult{
		WinRate:        round2(*raw.WinRate),
		TotalTrades:    int(decimal.NewFromFloat(*raw.TotalTrades).Round(0).IntPart()),
		NetProfit:      round2(*raw.NetProfit),
		ProfitFactor:   round2(*raw.ProfitFactor),
		MaxDrawdown:    round2(*raw.MaxDrawdown),
		Analysis:       truncateWords(strings.TrimSpace(*raw.Analysis), maxAnalysisWords),
		PineScriptCode: *raw.PineScriptCode,
	}, nil
}

// AnalyzeTrend returns a short sentiment read for the pair.
func (a *Advisor) AnalyzeTrend(ctx context.Context, symbol string, price, change float64) string {
	key := fmt.Sprintf("%s|%g|%g", symbol, price, change)
	if a.cache != nil {
		if v, ok := a.cache.Get(key); ok {
			return v.(string)
		}
	}

	text, err := a.completer.Complete(ctx, trendPrompt(symbol, price, change), false)
	if err != nil {
		a.logger.Warn().Err(err).Str("symbol", symbol).Msg("trend analysis failed")
		return TrendOffline
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return TrendUnavailable
	}
	if a.cache != nil {
		a.cache.SetWithTTL(key, text, int64(len(text)), a.ttl)
		a.cache.Wait()
	}
	return text
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
