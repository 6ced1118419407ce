package calculator

import (
	"errors"
	"math"

	"TradeMind/internal/model"
)

// CalculateRange scans the most recent lookback candles and returns the high and low.
func CalculateRange(candles []model.Candle, lookback int) (high, low float64, err error) {
	if len(candles) == 0 {
		return 0, 0, errors.New("no candles provided")
	}
	if lookback <= 0 {
		return 0, 0, errors.New("lookback must be positive")
	}
	start := len(candles) - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range candles[start:] {
		high = math.Max(high, c.High)
		low = math.Min(low, c.Low)
	}
	return high, low, nil
}
