package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"TradeMind/internal/logging"
	"TradeMind/internal/model"
)

// StorageKey is the key the strategy list is stored under.
const StorageKey = "tradeMind_strategies"

// Library is the ordered list of saved strategies, newest first. It is read
// once when created and written through on every change.
type Library struct {
	mu         sync.Mutex
	kv         KV
	strategies []model.SavedStrategy
	now        func() time.Time
	newID      func() string
	logger     zerolog.Logger
}

// New loads the library from kv. An unreadable or corrupt entry is logged and
// the library starts empty.
func New(kv KV) *Library {
	l := &Library{
		kv:     kv,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logging.Component("library"),
	}

	raw, err := kv.Get(StorageKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		l.logger.Error().Err(err).Msg("failed to read saved strategies")
	default:
		if err := json.Unmarshal([]byte(raw), &l.strategies); err != nil {
			l.logger.Error().Err(err).Msg("failed to parse saved strategies")
			l.strategies = nil
		}
	}
	return l
}

// Save prepends a strategy. A blank name or description is ignored and
// reported as false.
func (l *Library) Save(name, description string) (model.SavedStrategy, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(description) == "" {
		return model.SavedStrategy{}, false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s := model.SavedStrategy{
		ID:          l.newID(),
		Name:        name,
		Description: description,
		Timestamp:   l.now().UnixMilli(),
	}
	next := append([]model.SavedStrategy{s}, l.strategies...)
	if err := l.persist(next); err != nil {
		return model.SavedStrategy{}, false, err
	}
	l.strategies = next
	l.logger.Info().Str("id", s.ID).Str("name", s.Name).Msg("strategy saved")
	return s, true, nil
}

// Delete removes the strategy with id and reports whether it existed.
func (l *Library) Delete(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]model.SavedStrategy, 0, len(l.strategies))
	for _, s := range l.strategies {
		if s.ID != id {
			next = append(next, s)
		}
	}
	if len(next) == len(l.strategies) {
		return false, nil
	}
	if err := l.persist(next); err != nil {
		return false, err
	}
	l.strategies = next
	return true, nil
}

// List returns a copy of the saved strategies, newest first.
func (l *Library) List() []model.SavedStrategy {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.SavedStrategy, len(l.strategies))
	copy(out, l.strategies)
	return out
}

// Get returns the strategy with id.
func (l *Library) Get(id string) (model.SavedStrategy, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.strategies {
		if s.ID == id {
			return s, true
		}
	}
	return model.SavedStrategy{}, false
}

// Len returns the number of saved strategies.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.strategies)
}

func (l *Library) persist(list []model.SavedStrategy) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode strategies: %w", err)
	}
	if err := l.kv.Set(StorageKey, string(raw)); err != nil {
		return fmt.Errorf("save strategies: %w", err)
	}
	return nil
}
