package market

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"TradeMind/internal/model"
)

const (
	newCandleChance = 0.1
	liveCandleStep  = 60 * 5 // a new live bucket opens 5 minutes after the last one
	tickDrift       = 0.001
)

// Feed owns the live candle series for each symbol and synthesises ticks.
type Feed struct {
	mu     sync.Mutex
	source Source
	bars   int
	rng    *rand.Rand
	series map[string][]model.Candle
}

// NewFeed creates a feed that seeds series of the given length from source.
func NewFeed(source Source, bars int, seed int64) *Feed {
	if bars <= 0 {
		bars = DefaultHistoryBars
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Feed{
		source: source,
		bars:   bars,
		rng:    rand.New(rand.NewSource(seed)),
		series: make(map[string][]model.Candle),
	}
}

// Seed (re)generates the history for symbol, replacing any existing series.
func (f *Feed) Seed(symbol string) ([]model.Candle, error) {
	bars, err := f.source.Candles(symbol, f.bars)
	if err != nil {
		return nil, fmt.Errorf("seed %s from %s: %w", symbol, f.source.Name(), err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("seed %s from %s: empty history", symbol, f.source.Name())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.series[symbol] = bars
	return cloneCandles(bars), nil
}

// Candles returns a copy of the series for symbol.
func (f *Feed) Candles(symbol string) []model.Candle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneCandles(f.series[symbol])
}

// Last returns the newest candle for symbol.
func (f *Feed) Last(symbol string) (model.Candle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.series[symbol]
	if len(s) == 0 {
		return model.Candle{}, false
	}
	return s[len(s)-1], true
}

// Tick advances the series for symbol by one synthetic update. With a small
// probability it opens a flat candle at the last close; otherwise it moves the
// last close and widens its high/low.
func (f *Feed) Tick(symbol string) (model.Tick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.series[symbol]
	if len(s) == 0 {
		return model.Tick{}, fmt.Errorf("%w: %s has no series", ErrUnknownSymbol, symbol)
	}
	last := s[len(s)-1]

	if f.rng.Float64() > 1-newCandleChance {
		next := model.Candle{
			Time:  last.Time + liveCandleStep,
			Open:  last.Close,
			High:  last.Close,
			Low:   last.Close,
			Close: last.Close,
		}
		f.series[symbol] = append(s, next)
		return model.Tick{Symbol: symbol, Candle: next, Appended: true}, nil
	}

	change := (f.rng.Float64() - 0.5) * (last.Close * tickDrift)
	closePrice := round2(last.Close + change)
	last.High = math.Max(last.High, closePrice)
	last.Low = math.Min(last.Low, closePrice)
	last.Close = closePrice
	s[len(s)-1] = last
	return model.Tick{Symbol: symbol, Candle: last}, nil
}

func cloneCandles(in []model.Candle) []model.Candle {
	if in == nil {
		return nil
	}
	out := make([]model.Candle, len(in))
	copy(out, in)
	return out
}
