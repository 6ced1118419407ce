// Package terminal is the view controller of the trading terminal: it owns the
// selected pair, the chart and its drawing overlay, the AI trend check and the
// backtest console.
package terminal

import (
	"errors"
	"fmt"

	"TradeMind/internal/market"
	"TradeMind/internal/overlay"
)

var (
	// ErrUnknownTool is returned when selecting a tool outside the configured toolset.
	ErrUnknownTool = errors.New("unknown drawing tool")
	// ErrInvalidDate is returned for backtest dates that are not YYYY-MM-DD or out of order.
	ErrInvalidDate = errors.New("invalid date")
	// ErrUnknownChartType is returned for chart types outside market.ChartTypes.
	ErrUnknownChartType = errors.New("unknown chart type")
)

// ChartOptions are the recognised variations of the chart view.
type ChartOptions struct {
	Toolset    []string `json:"toolset,omitempty"` // empty allows every tool
	Theme      string   `json:"theme"`
	Indicators []string `json:"indicators"`
	ChartType  string   `json:"chartType"`
	Timeframe  string   `json:"timeframe"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
}

// DefaultOptions returns the stock dark chart.
func DefaultOptions() ChartOptions {
	return ChartOptions{
		Theme:      "dark",
		Indicators: []string{"Vol", "RSI"},
		ChartType:  "Candles",
		Timeframe:  "5m",
		Width:      1200,
		Height:     600,
	}
}

// Validate rejects options the chart cannot show.
func (o ChartOptions) Validate() error {
	if o.ChartType != "" && !market.IsChartType(o.ChartType) {
		return fmt.Errorf("%w: %s", ErrUnknownChartType, o.ChartType)
	}
	for _, t := range o.Toolset {
		if t != overlay.Cursor && !overlay.IsKnownTool(t) {
			return fmt.Errorf("%w: %s", ErrUnknownTool, t)
		}
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New("chart size must not be negative")
	}
	return nil
}

func (o ChartOptions) allowsTool(tool string) bool {
	if tool == overlay.Cursor || len(o.Toolset) == 0 {
		return true
	}
	for _, t := range o.Toolset {
		if t == tool {
			return true
		}
	}
	return false
}

func (o ChartOptions) clone() ChartOptions {
	o.Toolset = append([]string(nil), o.Toolset...)
	o.Indicators = append([]string(nil), o.Indicators...)
	return o
}
