package session

import (
	"context"
	"errors"
	"time"

	"antipop/internal/logging"
)

// ErrAlreadyRunning is returned by Start on a session whose loop is active.
var ErrAlreadyRunning = errors.New("session already running")

// Start begins fixed-rate tick execution in a background goroutine. Ticks
// never overlap: the loop runs each one to completion before waiting again.
func (s *Session) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.tickLoop(ctx, s.stopCh, s.doneCh)
	logging.Session("Session %s: tick loop started", s.id)
	return nil
}

// Stop halts the tick loop and waits for it to exit. It is safe to call on a
// session that was never started.
func (s *Session) Stop() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.runMu.Unlock()

	close(stopCh)
	<-doneCh
	logging.Session("Session %s: tick loop stopped at tick %d", s.id, s.Snapshot().Tick)
}

// Run starts the loop and blocks until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	s.closeSubscribers()
	return nil
}

func (s *Session) currentTick() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.Tick
}

func (s *Session) tickLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	period := s.currentTick()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.processTick()
			if p := s.currentTick(); p != period {
				period = p
				ticker.Reset(period)
			}
		}
	}
}
