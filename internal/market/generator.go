package market

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"TradeMind/internal/model"
)

const (
	// DefaultHistoryBars is the length of a freshly generated series.
	DefaultHistoryBars = 300

	dailyVolatility = 0.02
	wickSpread      = 0.01
	secondsPerDay   = 60 * 60 * 24
)

// Generate produces count daily candles whose last bucket starts one day before now.
// Each close is a random step of at most ±1% from the previous close and high/low
// always envelope open/close.
func Generate(count int, startPrice float64, now time.Time, rng *rand.Rand) []model.Candle {
	if count <= 0 {
		return nil
	}
	bars := make([]model.Candle, 0, count)
	price := startPrice
	ts := now.Unix() - int64(count)*secondsPerDay

	for i := 0; i < count; i++ {
		change := (rng.Float64() - 0.5) * dailyVolatility
		open := price
		closePrice := price * (1 + change)

		high := math.Max(open, closePrice) * (1 + rng.Float64()*wickSpread)
		low := math.Min(open, closePrice) * (1 - rng.Float64()*wickSpread)

		bars = append(bars, model.Candle{
			Time:  ts,
			Open:  round2(open),
			High:  round2(high),
			Low:   round2(low),
			Close: round2(closePrice),
		})

		price = closePrice
		ts += secondsPerDay
	}
	return bars
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
