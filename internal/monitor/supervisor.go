package monitor

import (
	"context"
	"fmt"
	"sync"

	"stockwatch/internal/logger"
)

// Runner is a long-lived task that runs until its context is cancelled.
type Runner interface {
	Run(ctx context.Context)
}

// Supervisor owns at most one running scheduler at a time, keyed by target
// market. Switching markets deterministically stops the previous scheduler
// before starting the new one, so a stale task can never keep alerting for
// a market the session has left.
type Supervisor struct {
	factory func(market string) (Runner, error)

	mu     sync.Mutex
	market string
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSupervisor(factory func(market string) (Runner, error)) *Supervisor {
	return &Supervisor{factory: factory}
}

// Switch stops the current scheduler, if any, and starts one for market.
// Switching to the already-active market is a no-op.
func (s *Supervisor) Switch(ctx context.Context, market string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil && s.market == market {
		return nil
	}
	s.stopLocked()

	runner, err := s.factory(market)
	if err != nil {
		return fmt.Errorf("start scheduler for %s: %w", market, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		runner.Run(runCtx)
	}()

	s.market = market
	s.cancel = cancel
	s.done = done
	logger.Info("Monitoring switched to market %s", market)
	return nil
}

// Stop stops the active scheduler and waits for it to exit.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Active returns the market currently being monitored, if any.
func (s *Supervisor) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market, s.cancel != nil
}

func (s *Supervisor) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	s.market = ""
}
