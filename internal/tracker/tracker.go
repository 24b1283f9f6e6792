// Package tracker builds the foreground performance view: per-ticker
// percentage change over an arbitrary date range, sorted best to worst,
// with the basket's mean move.
package tracker

import (
	"context"
	"errors"
	"sort"
	"time"

	"stockwatch/internal/logger"
	"stockwatch/internal/models"
	"stockwatch/internal/pricefeed"
)

// PriceFeed is the slice of the price provider the tracker needs.
type PriceFeed interface {
	FetchWindow(ctx context.Context, ticker models.Ticker, start, end time.Time) (models.PriceWindow, error)
}

// Row is one ticker's performance over the requested range.
type Row struct {
	Ticker     models.Ticker
	StartPrice float64
	EndPrice   float64
	PctChange  float64
}

// Report holds the rendered basket view.
type Report struct {
	Rows []Row
	// MeanPct is the unweighted mean percentage change across Rows; zero
	// when no ticker had data.
	MeanPct float64
}

type Tracker struct {
	feed PriceFeed
}

func New(feed PriceFeed) *Tracker {
	return &Tracker{feed: feed}
}

// Build fetches the window [start, end) for every ticker and assembles the
// report sorted by percentage change descending. Tickers with no data or a
// failed fetch are skipped, mirroring the scheduler's per-ticker isolation.
// Callers pad end one day past the last date they want included.
func (t *Tracker) Build(ctx context.Context, tickers []models.Ticker, start, end time.Time) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rows := make([]Row, 0, len(tickers))
	var sum float64
	for _, ticker := range tickers {
		window, err := t.feed.FetchWindow(ctx, ticker, start, end)
		if errors.Is(err, pricefeed.ErrEmptyWindow) {
			continue
		}
		if err != nil {
			logger.Warn("Skipping %s: %v", ticker, err)
			continue
		}
		pct := window.PctChange()
		rows = append(rows, Row{
			Ticker:     ticker,
			StartPrice: window.StartPrice,
			EndPrice:   window.EndPrice,
			PctChange:  pct,
		})
		sum += pct
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PctChange > rows[j].PctChange
	})

	report := Report{Rows: rows}
	if len(rows) > 0 {
		report.MeanPct = sum / float64(len(rows))
	}
	return report, nil
}

// FilterOutliers returns only the rows at or beyond the thresholds: the
// drop & gain view of the basket.
func FilterOutliers(rows []Row, th models.Thresholds) []Row {
	var out []Row
	for _, r := range rows {
		if r.PctChange <= th.DropPct || r.PctChange >= th.GainPct {
			out = append(out, r)
		}
	}
	return out
}
