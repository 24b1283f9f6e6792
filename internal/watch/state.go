// Package watch holds the session state shared between the foreground
// session and the background scheduler: the active thresholds and the
// watch-list. Writes publish a whole new immutable snapshot, so a reader
// never observes a half-updated threshold pair or a half-rebuilt list.
package watch

import (
	"sync/atomic"

	"stockwatch/internal/models"
)

// Snapshot is one immutable view of the session state. The scheduler reads
// exactly one snapshot at the top of each polling cycle; edits made mid-cycle
// take effect from the next cycle.
type Snapshot struct {
	Thresholds models.Thresholds
	Tickers    []models.Ticker
}

// State is the single-slot shared reference the snapshots are exchanged
// through. The zero value is not usable; construct with NewState.
type State struct {
	current atomic.Pointer[Snapshot]
}

func NewState(th models.Thresholds, tickers []models.Ticker) *State {
	s := &State{}
	s.current.Store(newSnapshot(th, tickers))
	return s
}

func newSnapshot(th models.Thresholds, tickers []models.Ticker) *Snapshot {
	// Copy so later caller mutations of the slice cannot tear a published
	// snapshot.
	own := make([]models.Ticker, len(tickers))
	copy(own, tickers)
	return &Snapshot{Thresholds: th, Tickers: own}
}

// Load returns the current snapshot.
func (s *State) Load() Snapshot {
	return *s.current.Load()
}

// SetThresholds publishes a new snapshot with updated thresholds.
func (s *State) SetThresholds(th models.Thresholds) {
	prev := s.current.Load()
	s.current.Store(newSnapshot(th, prev.Tickers))
}

// SetTickers publishes a new snapshot with a rebuilt watch-list.
func (s *State) SetTickers(tickers []models.Ticker) {
	prev := s.current.Load()
	s.current.Store(newSnapshot(prev.Thresholds, tickers))
}
