package market

import (
	"errors"
	"testing"

	"TradeMind/internal/model"
)

type staticSource struct {
	bars []model.Candle
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) Candles(_ string, _ int) ([]model.Candle, error) {
	out := make([]model.Candle, len(s.bars))
	copy(out, s.bars)
	return out, nil
}

func seededFeed(t *testing.T) *Feed {
	t.Helper()
	src := staticSource{bars: []model.Candle{
		{Time: 1000, Open: 100, High: 101, Low: 99, Close: 100},
		{Time: 2000, Open: 100, High: 102, Low: 98, Close: 101},
	}}
	f := NewFeed(src, 2, 7)
	if _, err := f.Seed("BTCUSD"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return f
}

func TestFeed_TickKeepsEnvelope(t *testing.T) {
	f := seededFeed(t)
	appended := 0
	for i := 0; i < 500; i++ {
		tick, err := f.Tick("BTCUSD")
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
		c := tick.Candle
		if c.High < c.Close || c.Low > c.Close || c.High < c.Open || c.Low > c.Open {
			t.Fatalf("tick %d broke envelope: %+v", i, c)
		}
		if tick.Appended {
			appended++
		}
	}
	series := f.Candles("BTCUSD")
	if len(series) != 2+appended {
		t.Errorf("series length %d, want %d", len(series), 2+appended)
	}
	if appended == 0 || appended > 150 {
		t.Errorf("appended %d candles in 500 ticks; expected roughly 10%%", appended)
	}
	for i := 2; i < len(series); i++ {
		if series[i].Time-series[i-1].Time != liveCandleStep {
			t.Fatalf("live candle %d not spaced by %d seconds", i, liveCandleStep)
		}
	}
}

func TestFeed_AppendedCandleIsFlatAtLastClose(t *testing.T) {
	f := seededFeed(t)
	for i := 0; i < 1000; i++ {
		before, _ := f.Last("BTCUSD")
		tick, err := f.Tick("BTCUSD")
		if err != nil {
			t.Fatal(err)
		}
		if !tick.Appended {
			continue
		}
		c := tick.Candle
		if c.Open != before.Close || c.High != before.Close || c.Low != before.Close || c.Close != before.Close {
			t.Fatalf("new candle %+v should be flat at %.2f", c, before.Close)
		}
		return
	}
	t.Fatal("no candle appended in 1000 ticks")
}

func TestFeed_TickUnknownSymbol(t *testing.T) {
	f := seededFeed(t)
	if _, err := f.Tick("DOGE"); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestFeed_CandlesReturnsCopy(t *testing.T) {
	f := seededFeed(t)
	c := f.Candles("BTCUSD")
	c[0].Close = -1
	if got := f.Candles("BTCUSD")[0].Close; got != 100 {
		t.Errorf("feed series mutated through copy: %.2f", got)
	}
}

func TestSyntheticSource(t *testing.T) {
	src := NewSyntheticSource(3)
	bars, err := src.Candles("AAPL", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 10 || bars[0].Open != 178.35 {
		t.Errorf("unexpected history start: %d bars, first open %.2f", len(bars), bars[0].Open)
	}
	if _, err := src.Candles("NOPE", 10); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestWatchlistUsesFeedPrice(t *testing.T) {
	f := seededFeed(t)
	list := Watchlist(f)
	for _, p := range list {
		switch p.Symbol {
		case "BTCUSD":
			if p.Price != 101 {
				t.Errorf("BTCUSD price = %.2f, want last close 101", p.Price)
			}
		case "AAPL":
			if p.Price != 178.35 {
				t.Errorf("AAPL should keep catalog price, got %.2f", p.Price)
			}
		}
	}
	if len(Watchlist(nil)) != len(Pairs()) {
		t.Error("nil feed should return the plain catalog")
	}
}
