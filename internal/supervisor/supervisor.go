// Package supervisor keeps a long-running loop alive by restarting it after
// failures.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrExited is recorded when the loop returns nil while the context is live.
var ErrExited = errors.New("loop exited unexpectedly")

// RunFunc is one lifetime of the supervised loop. It should build all of its
// state from scratch on each call.
type RunFunc func(ctx context.Context) error

type Settings struct {
	// Delay is the wait before the first restart after a failure.
	Delay time.Duration
	// MaxDelay enables doubling backoff when greater than Delay.
	MaxDelay time.Duration
	// MaxRestarts stops the supervisor after that many restarts; 0 is
	// unlimited.
	MaxRestarts int
}

// Stats is a snapshot of the supervisor state.
type Stats struct {
	Running     bool       `json:"running"`
	Restarts    int        `json:"restarts"`
	LastError   string     `json:"last_error,omitempty"`
	LastRestart *time.Time `json:"last_restart,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
}

type Supervisor struct {
	run      RunFunc
	settings Settings
	log      logrus.FieldLogger

	mu    sync.Mutex
	stats Stats
}

func New(run RunFunc, settings Settings, log logrus.FieldLogger) *Supervisor {
	return &Supervisor{run: run, settings: settings, log: log}
}

func (s *Supervisor) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Run calls the loop until ctx is cancelled, waiting between failures.
// It returns nil on cancellation and an error only when MaxRestarts is
// exhausted.
func (s *Supervisor) Run(ctx context.Context) error {
	s.mu.Lock()
	s.stats.StartedAt = time.Now()
	s.mu.Unlock()

	delay := s.settings.Delay
	backoff := s.settings.MaxDelay > s.settings.Delay

	for {
		started := time.Now()
		s.setRunning(true)
		err := s.runOnce(ctx)
		s.setRunning(false)

		if ctx.Err() != nil {
			s.log.Info("Supervisor stopped")
			return nil
		}
		if err == nil {
			err = ErrExited
		}

		restarts := s.recordFailure(err)
		if backoff && time.Since(started) > s.settings.MaxDelay {
			delay = s.settings.Delay
		}

		entry := s.log.WithError(err).WithFields(logrus.Fields{
			"restarts": restarts,
			"uptime":   time.Since(started).String(),
		})
		if s.settings.MaxRestarts > 0 && restarts >= s.settings.MaxRestarts {
			entry.Error("Bot crashed; restart limit reached")
			return fmt.Errorf("giving up after %d restarts: %w", restarts, err)
		}
		entry.WithField("delay", delay.String()).Error("Bot crashed; restarting")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Supervisor stopped")
			return nil
		case <-timer.C:
		}

		now := time.Now()
		s.mu.Lock()
		s.stats.Restarts++
		s.stats.LastRestart = &now
		s.mu.Unlock()

		if backoff {
			delay *= 2
			if delay > s.settings.MaxDelay {
				delay = s.settings.MaxDelay
			}
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.run(ctx)
}

func (s *Supervisor) setRunning(running bool) {
	s.mu.Lock()
	s.stats.Running = running
	s.mu.Unlock()
}

// recordFailure returns the number of restarts performed so far.
func (s *Supervisor) recordFailure(err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.LastError = err.Error()
	return s.stats.Restarts
}
