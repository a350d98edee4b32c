// Copyright 2025 Halcyon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/robfig/cron/v3"
)

// stopTimeout bounds the wait for an in-flight cycle during Stop.
const stopTimeout = 30 * time.Second

// CycleRunner runs one ingestion cycle. The pipeline satisfies this.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*core.CycleSummary, error)
}

// Service runs ingestion cycles on a cron schedule. Cycles never overlap:
// a tick that fires while the previous cycle is still running is skipped.
type Service struct {
	runner   CycleRunner
	spec     string
	schedule cron.Schedule
	logger   *slog.Logger

	// OnCycle, if set, receives the outcome of every completed cycle.
	// The error is nil on success. Called from the cron goroutine.
	OnCycle func(summary *core.CycleSummary, err error)

	running atomic.Bool

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a scheduler that runs the given runner on the cron
// expression. The expression uses the standard five-field format and is
// validated up front.
func NewService(runner CycleRunner, spec string, opts ...Option) (*Service, error) {
	if runner == nil {
		return nil, ErrRunnerRequired
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, spec, err)
	}

	s := &Service{
		runner:   runner,
		spec:     spec,
		schedule: schedule,
		logger:   slog.Default().With("component", "scheduler"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start begins scheduling cycles. It returns immediately; cycles run on
// the cron goroutine until Stop is called or ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.cron = cron.New()
	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		s.runOnce(runCtx)
	}))
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("scheduler started", "spec", s.spec, "next", s.schedule.Next(time.Now()).UTC())
	return nil
}

// RunNow triggers one cycle immediately, outside the cron cadence.
// Returns ErrCycleInFlight if a scheduled cycle is already running.
func (s *Service) RunNow(ctx context.Context) (*core.CycleSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrCycleInFlight
	}
	defer s.running.Store(false)

	return s.runner.RunCycle(ctx)
}

// runOnce executes one scheduled cycle, skipping if one is in flight.
func (s *Service) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous cycle still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	started := time.Now()
	summary, err := s.runner.RunCycle(ctx)
	if err != nil {
		s.logger.Error("scheduled cycle failed", "err", err, "elapsed", time.Since(started))
	} else {
		s.logger.Info("scheduled cycle complete",
			"admitted", summary.Admitted,
			"archived", summary.Archived,
			"elapsed", time.Since(started),
		)
	}

	if s.OnCycle != nil {
		s.OnCycle(summary, err)
	}
}

// Stop halts scheduling and waits for an in-flight cycle, bounded by a
// timeout. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	c := s.cron
	cancel := s.cancel
	s.cron = nil
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c == nil {
		return
	}

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(stopTimeout):
		s.logger.Warn("stop timed out waiting for running cycle")
	}
	s.logger.Info("scheduler stopped")
}
