package terminal

import (
	"fmt"
	"strings"
	"time"

	"TradeMind/internal/model"
)

const (
	dateLayout       = "2006-01-02"
	defaultStartDate = "2023-01-01"

	// PinePlaceholder fills the Pine Script editor before the first simulation.
	PinePlaceholder = "// Your Pine Script will appear here after running a strategy simulation..."
)

// Console is the backtest console: the strategy draft, the date range, the
// last result and the Pine Script editor.
type Console struct {
	Strategy  string                `json:"strategy"`
	StartDate string                `json:"startDate"`
	EndDate   string                `json:"endDate"`
	PineCode  string                `json:"pineCode"`
	Result    *model.BacktestResult `json:"result"`
	Pending   bool                  `json:"pending"`
}

func newConsole(today time.Time) Console {
	return Console{
		StartDate: defaultStartDate,
		EndDate:   today.Format(dateLayout),
		PineCode:  PinePlaceholder,
	}
}

// BacktestState returns a copy of the console.
func (s *Session) BacktestState() Console {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.console
	if c.Result != nil {
		r := *c.Result
		c.Result = &r
	}
	return c
}

// SetStrategy replaces the strategy draft.
func (s *Session) SetStrategy(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.console.Strategy = text
}

// SetDateRange sets the backtest window. Empty values keep the current date.
func (s *Session) SetDateRange(start, end string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if start == "" {
		start = s.console.StartDate
	}
	if end == "" {
		end = s.console.EndDate
	}
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidDate, start)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidDate, end)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDate, start, end)
	}
	s.console.StartDate, s.console.EndDate = start, end
	return nil
}

// RunBacktest submits the strategy draft for the selected pair and returns
// immediately. It reports false without doing anything when the draft is blank.
func (s *Session) RunBacktest() (uint64, bool) {
	s.mu.Lock()
	if strings.TrimSpace(s.console.Strategy) == "" {
		s.mu.Unlock()
		return 0, false
	}
	params := model.StrategyParams{
		Pair:        s.pair.Symbol,
		StartDate:   s.console.StartDate,
		EndDate:     s.console.EndDate,
		Description: s.console.Strategy,
	}
	tag := s.backtestSeq.Begin()
	s.console.Pending = true
	s.console.Result = nil
	s.inflight.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()
		res := s.advisor.RunBacktest(s.ctx, params)

		s.mu.Lock()
		applied := s.backtestSeq.Commit(tag, func() {
			s.console.Result = &res
			if res.PineScriptCode != "" {
				s.console.PineCode = res.PineScriptCode
			}
			s.console.Pending = false
		})
		s.mu.Unlock()

		if !applied {
			s.logger.Debug().Uint64("tag", tag).Msg("stale backtest result dropped")
			return
		}
		s.notify(EventBacktest, res)
	}()
	return tag, true
}

// SaveStrategy stores the draft under name. A blank name or draft is ignored.
func (s *Session) SaveStrategy(name string) (model.SavedStrategy, bool, error) {
	s.mu.Lock()
	draft := s.console.Strategy
	s.mu.Unlock()
	return s.library.Save(name, draft)
}

// DeleteStrategy removes a saved strategy.
func (s *Session) DeleteStrategy(id string) (bool, error) {
	return s.library.Delete(id)
}

// LoadStrategy copies a saved strategy into the draft.
func (s *Session) LoadStrategy(id string) (model.SavedStrategy, bool) {
	st, ok := s.library.Get(id)
	if !ok {
		return model.SavedStrategy{}, false
	}
	s.SetStrategy(st.Description)
	return st, true
}

// Strategies lists the saved strategies, newest first.
func (s *Session) Strategies() []model.SavedStrategy {
	return s.library.List()
}
