package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"TradeMind/internal/logging"
	"TradeMind/internal/model"
	"TradeMind/internal/terminal"
)

// Broadcaster receives events produced by scheduled jobs.
type Broadcaster interface {
	Broadcast(kind string, data any)
}

// Terminal is the part of a terminal session the jobs drive.
type Terminal interface {
	Tick() (model.Tick, error)
	RequestTrendAnalysis() uint64
}

var _ Terminal = (*terminal.Session)(nil)

// Scheduler manages the market tick and trend check jobs.
type Scheduler struct {
	Cron     *cron.Cron
	Terminal Terminal
	Out      Broadcaster
	logger   zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(term Terminal, out Broadcaster) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Terminal: term,
		Out:      out,
		logger:   logging.Component("scheduler"),
	}
}

// RegisterAll registers the tick job and, when trendCron is set, the periodic
// trend check.
func (s *Scheduler) RegisterAll(tickCron, trendCron string) error {
	if _, err := s.Cron.AddFunc(tickCron, s.tickTask); err != nil {
		return fmt.Errorf("register tick task: %w", err)
	}
	if trendCron != "" {
		if _, err := s.Cron.AddFunc(trendCron, s.trendTask); err != nil {
			return fmt.Errorf("register trend task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunTickNow executes one tick immediately.
func (s *Scheduler) RunTickNow() {
	s.tickTask()
}

func (s *Scheduler) tickTask() {
	tick, err := s.Terminal.Tick()
	if err != nil {
		s.logger.Error().Err(err).Msg("tick failed")
		return
	}
	if s.Out != nil {
		s.Out.Broadcast("tick", tick)
	}
}

// trendTask only starts the request; the session publishes the answer.
func (s *Scheduler) trendTask() {
	tag := s.Terminal.RequestTrendAnalysis()
	s.logger.Debug().Uint64("tag", tag).Msg("trend check requested")
}
