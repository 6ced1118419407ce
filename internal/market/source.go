package market

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"TradeMind/internal/model"
)

// ErrUnknownSymbol is returned for symbols outside the catalog or not yet seeded.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Source defines the interface for loading a candle history.
type Source interface {
	Candles(symbol string, count int) ([]model.Candle, error)
	Name() string
}

// SyntheticSource generates random-walk daily history starting from the catalog price.
type SyntheticSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSyntheticSource creates a source. A zero seed seeds from the clock.
func NewSyntheticSource(seed int64) *SyntheticSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SyntheticSource{rng: rand.New(rand.NewSource(seed)), now: time.Now}
}

func (s *SyntheticSource) Name() string { return "synthetic" }

func (s *SyntheticSource) Candles(symbol string, count int) ([]model.Candle, error) {
	pair, ok := PairBySymbol(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Generate(count, pair.Price, s.now(), s.rng), nil
}
