package tracker

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"stockwatch/internal/models"
	"stockwatch/internal/pricefeed"
)

type fakeFeed struct {
	windows map[models.Ticker]models.PriceWindow
	errs    map[models.Ticker]error
}

func (f *fakeFeed) FetchWindow(_ context.Context, ticker models.Ticker, _, _ time.Time) (models.PriceWindow, error) {
	if err, ok := f.errs[ticker]; ok {
		return models.PriceWindow{}, err
	}
	return f.windows[ticker], nil
}

func TestBuildSortsAndAverages(t *testing.T) {
	feed := &fakeFeed{windows: map[models.Ticker]models.PriceWindow{
		"A": {StartPrice: 100, EndPrice: 104}, // +4%
		"B": {StartPrice: 100, EndPrice: 92},  // -8%
		"C": {StartPrice: 100, EndPrice: 110}, // +10%
	}}

	report, err := New(feed).Build(context.Background(), []models.Ticker{"A", "B", "C"}, time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(report.Rows))
	}
	order := []models.Ticker{"C", "A", "B"}
	for i, want := range order {
		if report.Rows[i].Ticker != want {
			t.Errorf("rows[%d] = %s, want %s (descending by pct)", i, report.Rows[i].Ticker, want)
		}
	}
	if math.Abs(report.MeanPct-2.0) > 1e-9 {
		t.Errorf("MeanPct = %v, want 2.0", report.MeanPct)
	}
}

func TestBuildSkipsFailuresAndEmptyWindows(t *testing.T) {
	feed := &fakeFeed{
		windows: map[models.Ticker]models.PriceWindow{
			"A": {StartPrice: 100, EndPrice: 105},
		},
		errs: map[models.Ticker]error{
			"B": pricefeed.ErrEmptyWindow,
			"C": &pricefeed.FetchError{Ticker: "C", Err: errors.New("boom")},
		},
	}

	report, err := New(feed).Build(context.Background(), []models.Ticker{"A", "B", "C"}, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].Ticker != "A" {
		t.Errorf("got rows %v, want only A", report.Rows)
	}
	if math.Abs(report.MeanPct-5.0) > 1e-9 {
		t.Errorf("MeanPct = %v, want 5.0 over surviving rows only", report.MeanPct)
	}
}

func TestBuildEmptyBasket(t *testing.T) {
	report, err := New(&fakeFeed{}).Build(context.Background(), nil, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Rows) != 0 || report.MeanPct != 0 {
		t.Errorf("empty basket produced %+v", report)
	}
}

func TestFilterOutliers(t *testing.T) {
	rows := []Row{
		{Ticker: "A", PctChange: 6.0},
		{Ticker: "B", PctChange: 1.0},
		{Ticker: "C", PctChange: -2.0},
		{Ticker: "D", PctChange: -4.5},
	}
	th := models.Thresholds{DropPct: -2.0, GainPct: 5.0}
	got := FilterOutliers(rows, th)
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3: %v", len(got), got)
	}
	for i, want := range []models.Ticker{"A", "C", "D"} {
		if got[i].Ticker != want {
			t.Errorf("outliers[%d] = %s, want %s", i, got[i].Ticker, want)
		}
	}
}
