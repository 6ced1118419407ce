package ai

import "sync"

// Sequencer tags requests so that only the newest one may publish its result.
// Earlier requests keep running; their results are dropped on arrival.
type Sequencer struct {
	mu     sync.Mutex
	latest uint64
}

// Begin issues a new tag, superseding all earlier ones.
func (s *Sequencer) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Commit runs apply if tag is still the newest issued tag and reports whether it did.
func (s *Sequencer) Commit(tag uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tag != s.latest {
		return false
	}
	apply()
	return true
}

// Latest returns the newest issued tag, zero before the first Begin.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
