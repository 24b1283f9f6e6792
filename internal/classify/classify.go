// Package classify maps a percentage price move onto the configured
// drop/gain thresholds.
package classify

import "stockwatch/internal/models"

// Classify returns the direction of a percentage move relative to the
// thresholds. The drop branch is evaluated first, so under a misconfigured
// pair (DropPct > GainPct) drop takes precedence. Pure and total.
func Classify(pctChange float64, th models.Thresholds) models.Direction {
	if pctChange <= th.DropPct {
		return models.Drop
	}
	if pctChange >= th.GainPct {
		return models.Gain
	}
	return models.None
}
