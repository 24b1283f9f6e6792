// Package marketclock answers whether a target market is inside its regular
// trading session at a given instant.
package marketclock

import (
	"fmt"
	"time"
)

// MinuteOfDay is a civil time-of-day expressed as minutes since midnight.
type MinuteOfDay int

// ParseMinuteOfDay parses "15:04"-style clock strings.
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Hours describes one market's regular trading window in its local timezone.
// The window is half-open: the market is open at exactly Open and closed at
// exactly Close. Holidays are not modeled; weekday plus time-of-day is a
// known approximation of the real trading calendar.
type Hours struct {
	Location *time.Location
	Open     MinuteOfDay
	Close    MinuteOfDay
}

// IsOpen reports whether the market is trading at the given instant.
// Pure: no side effects, no failure modes.
func IsOpen(now time.Time, h Hours) bool {
	local := now.In(h.Location)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minute := MinuteOfDay(local.Hour()*60 + local.Minute())
	return minute >= h.Open && minute < h.Close
}
