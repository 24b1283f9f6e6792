// Package models defines the core domain entities: tickers, thresholds,
// price windows, and alert events.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Ticker identifies a single tradable instrument, e.g. "AAPL" or "INFY.NS".
type Ticker string

// Direction classifies a percentage move against the configured thresholds.
type Direction int

const (
	None Direction = iota
	Drop
	Gain
)

func (d Direction) String() string {
	switch d {
	case Drop:
		return "drop"
	case Gain:
		return "gain"
	default:
		return "none"
	}
}

// Thresholds holds the active drop/gain boundaries in percent.
// DropPct is at or below zero, GainPct at or above zero; Validate enforces
// this at the configuration boundary rather than reinterpreting bad values.
type Thresholds struct {
	DropPct float64
	GainPct float64
}

// Validate checks threshold sign constraints.
func (t Thresholds) Validate() error {
	if t.DropPct > 0 {
		return errors.New("drop threshold must not be positive")
	}
	if t.GainPct < 0 {
		return errors.New("gain threshold must not be negative")
	}
	return nil
}

// PriceWindow is the open/close pair for one ticker over a date range.
// Derived fresh on every fetch; never cached across polling cycles.
type PriceWindow struct {
	StartPrice  float64
	EndPrice    float64
	WindowStart time.Time
	WindowEnd   time.Time
}

// PctChange returns the percentage move over the window.
// Only meaningful when StartPrice > 0; the price feed never constructs a
// window with a non-positive start price.
func (w PriceWindow) PctChange() float64 {
	return (w.EndPrice - w.StartPrice) / w.StartPrice * 100
}

// AlertEvent records one threshold crossing for one ticker in one polling
// cycle. Ephemeral: constructed, formatted, dispatched, then discarded.
type AlertEvent struct {
	ID         string
	Ticker     Ticker
	StartPrice float64
	EndPrice   float64
	PctChange  float64
	Direction  Direction
	Timestamp  time.Time
}

// Message renders the event as a plain-text notification body.
func (e AlertEvent) Message() string {
	arrow := "📈"
	if e.Direction == Drop {
		arrow = "📉"
	}
	return fmt.Sprintf("%s %s %s %.2f%% (%.2f → %.2f)",
		arrow, e.Ticker, e.Direction, e.PctChange, e.StartPrice, e.EndPrice)
}
