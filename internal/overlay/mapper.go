package overlay

import (
	"math"
	"sort"

	"TradeMind/internal/model"
)

// Chart is the host chart surface: it resolves pixel coordinates against its
// current visible range. Each method reports false when the coordinate cannot
// be resolved.
type Chart interface {
	CoordinateToTime(x float64) (int64, bool)
	CoordinateToPrice(y float64) (float64, bool)
	TimeToCoordinate(t int64) (float64, bool)
	PriceToCoordinate(p float64) (float64, bool)
}

// Viewport is a Chart over a visible time and price range. Once fitted to a
// series the time axis is a bar axis: bars sit at evenly spaced index
// positions and a pixel resolves to the time of the bar under it. Without bars
// the time axis is linear. A viewport that has no size or no fitted range
// resolves nothing.
type Viewport struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	TimeFrom int64   `json:"time_from"`
	TimeTo   int64   `json:"time_to"`
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
	Bars     []int64 `json:"-"`
}

func (v *Viewport) ready() bool {
	return v != nil && v.Width > 0 && v.Height > 0 && v.TimeTo > v.TimeFrom && v.PriceMax > v.PriceMin
}

// Resize sets the pixel size of the plot area.
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
}

// Fit sets the visible range to cover candles, padding the price axis by pad
// (a fraction of the price span) on both sides.
func (v *Viewport) Fit(candles []model.Candle, pad float64) {
	if len(candles) == 0 {
		return
	}
	bars := make([]int64, len(candles))
	for i, c := range candles {
		bars[i] = c.Time
	}
	v.Bars = bars
	v.TimeFrom = candles[0].Time
	v.TimeTo = candles[len(candles)-1].Time
	if v.TimeTo <= v.TimeFrom {
		v.TimeTo = v.TimeFrom + 1
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range candles {
		lo = math.Min(lo, c.Low)
		hi = math.Max(hi, c.High)
	}
	span := hi - lo
	if span <= 0 {
		span = math.Max(math.Abs(hi)*0.01, 1)
	}
	v.PriceMin = lo - span*pad
	v.PriceMax = hi + span*pad
}

func (v *Viewport) CoordinateToTime(x float64) (int64, bool) {
	if !v.ready() || x < 0 || x > v.Width {
		return 0, false
	}
	if n := len(v.Bars); n > 1 {
		return v.Bars[int(math.Round(x/v.Width*float64(n-1)))], true
	}
	span := float64(v.TimeTo - v.TimeFrom)
	return v.TimeFrom + int64(math.Round(x/v.Width*span)), true
}

func (v *Viewport) CoordinateToPrice(y float64) (float64, bool) {
	if !v.ready() || y < 0 || y > v.Height {
		return 0, false
	}
	return v.PriceMax - y/v.Height*(v.PriceMax-v.PriceMin), true
}

func (v *Viewport) TimeToCoordinate(t int64) (float64, bool) {
	if !v.ready() || t < v.TimeFrom || t > v.TimeTo {
		return 0, false
	}
	n := len(v.Bars)
	if n < 2 {
		return float64(t-v.TimeFrom) / float64(v.TimeTo-v.TimeFrom) * v.Width, true
	}
	step := v.Width / float64(n-1)
	i := sort.Search(n, func(i int) bool { return v.Bars[i] >= t })
	if i == n {
		return v.Width, true
	}
	if v.Bars[i] == t {
		return float64(i) * step, true
	}
	// between bars i-1 and i
	prev, next := v.Bars[i-1], v.Bars[i]
	frac := float64(t-prev) / float64(next-prev)
	return (float64(i-1) + frac) * step, true
}

func (v *Viewport) PriceToCoordinate(p float64) (float64, bool) {
	if !v.ready() || p < v.PriceMin || p > v.PriceMax {
		return 0, false
	}
	return (v.PriceMax - p) / (v.PriceMax - v.PriceMin) * v.Height, true
}

// Mapper converts between pixel space and the time/price domain of a Chart.
type Mapper struct {
	chart Chart
}

// NewMapper creates a Mapper over chart. A nil chart resolves nothing.
func NewMapper(chart Chart) *Mapper {
	return &Mapper{chart: chart}
}

// ToDomain resolves a pixel to a time/price point.
func (m *Mapper) ToDomain(x, y float64) (Point, bool) {
	if m == nil || m.chart == nil {
		return Point{}, false
	}
	t, ok := m.chart.CoordinateToTime(x)
	if !ok {
		return Point{}, false
	}
	p, ok := m.chart.CoordinateToPrice(y)
	if !ok {
		return Point{}, false
	}
	return Point{Time: t, Price: p}, true
}

// ToPixels places a domain point on the chart.
func (m *Mapper) ToPixels(pt Point) (Pixel, bool) {
	if m == nil || m.chart == nil {
		return Pixel{}, false
	}
	x, ok := m.chart.TimeToCoordinate(pt.Time)
	if !ok {
		return Pixel{}, false
	}
	y, ok := m.chart.PriceToCoordinate(pt.Price)
	if !ok {
		return Pixel{}, false
	}
	return Pixel{X: x, Y: y}, true
}
