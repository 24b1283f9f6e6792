package watch

import (
	"sync"
	"testing"

	"stockwatch/internal/models"
)

func TestStateLoadReturnsSeededValues(t *testing.T) {
	s := NewState(models.Thresholds{DropPct: -2, GainPct: 1}, []models.Ticker{"AAPL"})
	snap := s.Load()
	if snap.Thresholds.DropPct != -2 || snap.Thresholds.GainPct != 1 {
		t.Errorf("unexpected thresholds: %+v", snap.Thresholds)
	}
	if len(snap.Tickers) != 1 || snap.Tickers[0] != "AAPL" {
		t.Errorf("unexpected tickers: %v", snap.Tickers)
	}
}

func TestSetThresholdsKeepsTickers(t *testing.T) {
	s := NewState(models.Thresholds{DropPct: -2, GainPct: 1}, []models.Ticker{"AAPL", "MSFT"})
	s.SetThresholds(models.Thresholds{DropPct: -5, GainPct: 5})
	snap := s.Load()
	if snap.Thresholds.DropPct != -5 {
		t.Errorf("thresholds not updated: %+v", snap.Thresholds)
	}
	if len(snap.Tickers) != 2 {
		t.Errorf("tickers lost on threshold update: %v", snap.Tickers)
	}
}

func TestSetTickersCopiesInput(t *testing.T) {
	src := []models.Ticker{"AAPL", "MSFT"}
	s := NewState(models.Thresholds{}, nil)
	s.SetTickers(src)
	src[0] = "MUTATED"
	if got := s.Load().Tickers[0]; got != "AAPL" {
		t.Errorf("published snapshot saw caller mutation: %s", got)
	}
}

func TestSnapshotIsStableAcrossWrites(t *testing.T) {
	s := NewState(models.Thresholds{DropPct: -2, GainPct: 1}, []models.Ticker{"AAPL"})
	snap := s.Load()
	s.SetThresholds(models.Thresholds{DropPct: -9, GainPct: 9})
	s.SetTickers([]models.Ticker{"NVDA"})
	if snap.Thresholds.DropPct != -2 || snap.Tickers[0] != "AAPL" {
		t.Error("previously loaded snapshot changed after writes")
	}
}

// A writer flipping thresholds concurrently with readers must never produce
// a torn pair: readers see either both old values or both new ones.
func TestConcurrentReadersSeeConsistentPairs(t *testing.T) {
	s := NewState(models.Thresholds{DropPct: -1, GainPct: 1}, nil)

	var readers, writer sync.WaitGroup
	stop := make(chan struct{})

	writer.Add(1)
	go func() {
		defer writer.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				s.SetThresholds(models.Thresholds{DropPct: -1, GainPct: 1})
			} else {
				s.SetThresholds(models.Thresholds{DropPct: -7, GainPct: 7})
			}
		}
	}()

	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for i := 0; i < 10000; i++ {
				th := s.Load().Thresholds
				if th.DropPct != -th.GainPct {
					t.Errorf("torn read: %+v", th)
					return
				}
			}
		}()
	}

	readers.Wait()
	close(stop)
	writer.Wait()
}
