// Package monitor runs the background polling loop: on each tick it gates on
// market hours, fetches the day's price window for every watched ticker,
// classifies the move, and pushes a notification for every threshold cross.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"stockwatch/internal/classify"
	"stockwatch/internal/logger"
	"stockwatch/internal/marketclock"
	"stockwatch/internal/models"
	"stockwatch/internal/notify"
	"stockwatch/internal/pricefeed"
	"stockwatch/internal/watch"
)

// PriceFeed is the slice of the price provider the scheduler needs.
type PriceFeed interface {
	FetchWindow(ctx context.Context, ticker models.Ticker, start, end time.Time) (models.PriceWindow, error)
}

// Config carries the per-market scheduling parameters.
type Config struct {
	Market        string
	Hours         marketclock.Hours
	PollInterval  time.Duration
	NotifyTimeout time.Duration
}

// Scheduler owns one market's polling loop. Thresholds and the watch-list
// are read from the shared state exactly once per cycle; foreground edits
// take effect from the following cycle.
type Scheduler struct {
	cfg      Config
	feed     PriceFeed
	notifier notify.Notifier
	state    *watch.State

	now func() time.Time
}

func New(cfg Config, feed PriceFeed, notifier notify.Notifier, state *watch.State) *Scheduler {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	return &Scheduler{
		cfg:      cfg,
		feed:     feed,
		notifier: notifier,
		state:    state,
		now:      time.Now,
	}
}

// Run executes polling cycles until ctx is cancelled. The first cycle runs
// immediately; an in-flight cycle is allowed to finish naturally after
// cancellation.
func (s *Scheduler) Run(ctx context.Context) {
	logger.Info("Scheduler for %s started (interval: %v, hours: %s–%s)",
		s.cfg.Market, s.cfg.PollInterval, s.cfg.Hours.Open, s.cfg.Hours.Close)

	s.runCycle(ctx)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler for %s stopped", s.cfg.Market)
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle performs one gate-check-then-poll pass over the watch-list.
// Every per-ticker failure is contained to that ticker.
func (s *Scheduler) runCycle(ctx context.Context) {
	snap := s.state.Load()
	now := s.now()

	if !marketclock.IsOpen(now, s.cfg.Hours) {
		logger.Debug("Market %s closed, skipping cycle", s.cfg.Market)
		return
	}
	if len(snap.Tickers) == 0 {
		logger.Debug("Watch-list for %s is empty, nothing to poll", s.cfg.Market)
		return
	}

	// Today's window in market-local time; the end date is padded one day
	// past today because the provider treats it as exclusive.
	local := now.In(s.cfg.Hours.Location)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.cfg.Hours.Location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	logger.Debug("Polling %d tickers for %s", len(snap.Tickers), s.cfg.Market)
	alerts := 0
	for _, ticker := range snap.Tickers {
		window, err := s.feed.FetchWindow(ctx, ticker, dayStart, dayEnd)
		if errors.Is(err, pricefeed.ErrEmptyWindow) {
			logger.Debug("No trading data for %s, skipping", ticker)
			continue
		}
		if err != nil {
			logger.Warn("Fetch failed for %s: %v", ticker, err)
			continue
		}

		pct := window.PctChange()
		direction := classify.Classify(pct, snap.Thresholds)
		if direction == models.None {
			continue
		}

		event := models.AlertEvent{
			ID:         uuid.New().String(),
			Ticker:     ticker,
			StartPrice: window.StartPrice,
			EndPrice:   window.EndPrice,
			PctChange:  pct,
			Direction:  direction,
			Timestamp:  now,
		}
		s.dispatch(ctx, event)
		alerts++
	}
	logger.Info("Cycle for %s complete: %d tickers, %d alerts", s.cfg.Market, len(snap.Tickers), alerts)
}

// dispatch sends the alert with a bounded timeout. A failed send only loses
// the notification leg; the cycle continues.
func (s *Scheduler) dispatch(ctx context.Context, event models.AlertEvent) {
	nctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(nctx, event.Message()); err != nil {
		logger.Error("Notification for %s failed: %v", event.Ticker, err)
		return
	}
	logger.Debug("Notified %s %s %.2f%%", event.Ticker, event.Direction, event.PctChange)
}
