package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"TradeMind/internal/ai"
	"TradeMind/internal/calculator"
	"TradeMind/internal/library"
	"TradeMind/internal/logging"
	"TradeMind/internal/market"
	"TradeMind/internal/model"
	"TradeMind/internal/overlay"
)

// pricePad is the fraction of the price span left empty above and below the series.
const pricePad = 0.1

// Event kinds passed to a Listener.
const (
	EventTrend    = "analysis"
	EventBacktest = "backtest"
	EventPair     = "pair"
	EventDrawings = "drawings"
)

// Listener is told about state changes that happen outside a request, such as
// AI results arriving.
type Listener func(kind string, payload any)

// TrendState is the AI trend check panel.
type TrendState struct {
	Symbol  string `json:"symbol"`
	Text    string `json:"text"`
	Pending bool   `json:"pending"`
}

// Snapshot is everything needed to draw the chart view.
type Snapshot struct {
	Pair     model.Pair        `json:"pair"`
	Options  ChartOptions      `json:"options"`
	Tool     string            `json:"tool"`
	Magnet   bool              `json:"magnet"`
	State    string            `json:"state"`
	Candles  []model.Candle    `json:"candles"`
	Legend   model.Legend      `json:"legend"`
	Viewport overlay.Viewport  `json:"viewport"`
	Drawings []overlay.Drawing `json:"drawings"`
	Current  *overlay.Drawing  `json:"current,omitempty"`
	Trend    TrendState        `json:"trend"`
}

// Deps are the collaborators a Session needs.
type Deps struct {
	Feed    *market.Feed
	Advisor *ai.Advisor
	Library *library.Library
}

// Session is one terminal view. All state is guarded by mu; AI requests run on
// their own goroutines and publish through sequencers so only the newest
// request of each kind is shown.
type Session struct {
	mu       sync.Mutex
	ctx      context.Context
	opts     ChartOptions
	feed     *market.Feed
	advisor  *ai.Advisor
	library  *library.Library
	pair     model.Pair
	viewport *overlay.Viewport
	snapper  *overlay.Snapper
	machine  *overlay.Machine
	listener Listener

	trend       TrendState
	trendSeq    ai.Sequencer
	console     Console
	backtestSeq ai.Sequencer

	inflight sync.WaitGroup
	today    func() time.Time
	logger   zerolog.Logger
}

// NewSession opens a view on symbol. ctx bounds the AI requests the session starts.
func NewSession(ctx context.Context, symbol string, opts ChartOptions, deps Deps) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	def := DefaultOptions()
	if opts.Width == 0 {
		opts.Width = def.Width
	}
	if opts.Height == 0 {
		opts.Height = def.Height
	}

	s := &Session{
		ctx:      ctx,
		opts:     opts.clone(),
		feed:     deps.Feed,
		advisor:  deps.Advisor,
		library:  deps.Library,
		viewport: &overlay.Viewport{Width: opts.Width, Height: opts.Height},
		today:    time.Now,
		logger:   logging.Component("terminal"),
	}
	s.snapper = &overlay.Snapper{Candles: func() []model.Candle { return s.feed.Candles(s.pair.Symbol) }}
	s.console = newConsole(s.today())

	if err := s.selectPair(symbol); err != nil {
		return nil, err
	}
	return s, nil
}

// SetListener installs the change listener. It is called with the session unlocked.
func (s *Session) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

func (s *Session) notify(kind string, payload any) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		l(kind, payload)
	}
}

// Feed returns the market feed backing the session.
func (s *Session) Feed() *market.Feed { return s.feed }

// Symbol returns the selected pair's symbol.
func (s *Session) Symbol() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair.Symbol
}

// SelectPair switches the chart to symbol. The series is reseeded and the
// drawings and trend panel start over.
func (s *Session) SelectPair(symbol string) error {
	s.mu.Lock()
	err := s.selectPair(symbol)
	pair := s.pair
	s.mu.Unlock()
	if err == nil {
		s.notify(EventPair, pair)
	}
	return err
}

func (s *Session) selectPair(symbol string) error {
	pair, ok := market.PairBySymbol(symbol)
	if !ok {
		return fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}
	candles, err := s.feed.Seed(symbol)
	if err != nil {
		return err
	}

	tool := overlay.Cursor
	if s.machine != nil {
		tool = s.machine.Tool()
	}
	s.pair = pair
	s.viewport.Fit(candles, pricePad)
	s.machine = overlay.NewMachine(overlay.NewMapper(s.viewport), s.snapper)
	s.machine.SetTool(tool)

	s.trendSeq.Begin()
	s.trend = TrendState{Symbol: symbol}
	s.logger.Info().Str("symbol", symbol).Int("bars", len(candles)).Msg("pair selected")
	return nil
}

// SelectTool activates a drawing tool. An empty name selects the cursor.
func (s *Session) SelectTool(tool string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tool != "" && !s.opts.allowsTool(tool) {
		return fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}
	s.machine.SetTool(tool)
	return nil
}

// SetMagnet toggles snapping clicks to candle prices.
func (s *Session) SetMagnet(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapper.Enabled = on
}

// SetChartType switches the series style.
func (s *Session) SetChartType(name string) error {
	if !market.IsChartType(name) {
		return fmt.Errorf("%w: %s", ErrUnknownChartType, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.ChartType = name
	return nil
}

// Resize changes the pixel size of the chart.
func (s *Session) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Resize(width, height)
	s.opts.Width, s.opts.Height = width, height
}

// Click forwards a pointer press to the drawing machine and reports whether
// it was accepted.
func (s *Session) Click(x, y float64) bool {
	s.mu.Lock()
	changed := s.machine.Click(x, y)
	drawings := s.machine.Drawings()
	s.mu.Unlock()
	if changed {
		s.notify(EventDrawings, drawings)
	}
	return changed
}

// ClearDrawings removes every drawing, including one in progress.
func (s *Session) ClearDrawings() {
	s.mu.Lock()
	s.machine.Clear()
	s.mu.Unlock()
	s.notify(EventDrawings, []overlay.Drawing{})
}

// Drawings returns the committed drawings.
func (s *Session) Drawings() []overlay.Drawing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Drawings()
}

// OverlaySVG renders the drawings, with any in-progress one as a ghost.
func (s *Session) OverlaySVG() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return overlay.SVG(s.machine.Overlay(), s.viewport.Width, s.viewport.Height)
}

// Tick advances the selected pair's series and keeps it in view.
func (s *Session) Tick() (model.Tick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tick, err := s.feed.Tick(s.pair.Symbol)
	if err != nil {
		return model.Tick{}, err
	}
	s.viewport.Fit(s.feed.Candles(s.pair.Symbol), pricePad)
	return tick, nil
}

// Snapshot returns a copy of the view state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	candles := s.feed.Candles(s.pair.Symbol)
	pair := s.pair
	if n := len(candles); n > 0 {
		pair.Price = candles[n-1].Close
	}
	snap := Snapshot{
		Pair:     pair,
		Options:  s.opts.clone(),
		Tool:     s.machine.Tool(),
		Magnet:   s.snapper.Enabled,
		State:    s.machine.State().String(),
		Candles:  candles,
		Legend:   calculator.Legend(candles, s.opts.Indicators),
		Viewport: *s.viewport,
		Drawings: s.machine.Drawings(),
		Trend:    s.trend,
	}
	if cur, ok := s.machine.Current(); ok {
		snap.Current = &cur
	}
	return snap
}

// Trend returns the trend panel state.
func (s *Session) Trend() TrendState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trend
}

// RequestTrendAnalysis starts an AI trend check for the selected pair and
// returns immediately. A newer request supersedes this one without
// cancelling it.
func (s *Session) RequestTrendAnalysis() uint64 {
	s.mu.Lock()
	symbol, change := s.pair.Symbol, s.pair.Change
	price := s.pair.Price
	if last, ok := s.feed.Last(symbol); ok {
		price = last.Close
	}
	tag := s.trendSeq.Begin()
	s.trend.Pending = true
	s.inflight.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()
		text := s.advisor.AnalyzeTrend(s.ctx, symbol, price, change)

		s.mu.Lock()
		applied := s.trendSeq.Commit(tag, func() {
			s.trend = TrendState{Symbol: symbol, Text: text}
		})
		state := s.trend
		s.mu.Unlock()

		if !applied {
			s.logger.Debug().Uint64("tag", tag).Msg("stale trend analysis dropped")
			return
		}
		s.notify(EventTrend, state)
	}()
	return tag
}

// Wait blocks until every AI request the session started has finished.
func (s *Session) Wait() {
	s.inflight.Wait()
}
