package overlay

import (
	"math"

	"TradeMind/internal/model"
)

// SnapTolerance is how far, in seconds, a candle may be from the query time
// and still be snapped to.
const SnapTolerance = 60 * 60

// Snapper implements magnet mode: it pulls a rough price onto the nearest
// OHLC value of the candle at that time.
type Snapper struct {
	Enabled bool
	Candles func() []model.Candle
}

// Snap returns the snapped price, or false when magnet mode is off or no
// candle lies within SnapTolerance of t.
func (s *Snapper) Snap(t int64, roughPrice float64) (float64, bool) {
	if s == nil || !s.Enabled || s.Candles == nil {
		return 0, false
	}
	for _, c := range s.Candles() {
		d := c.Time - t
		if d < 0 {
			d = -d
		}
		if d < SnapTolerance {
			return Nearest(c, roughPrice), true
		}
	}
	return 0, false
}

// Nearest returns whichever of open, high, low, close is closest to price.
// Ties keep the earlier value in that order.
func Nearest(c model.Candle, price float64) float64 {
	best := c.Open
	for _, v := range []float64{c.High, c.Low, c.Close} {
		if math.Abs(v-price) < math.Abs(best-price) {
			best = v
		}
	}
	return best
}
