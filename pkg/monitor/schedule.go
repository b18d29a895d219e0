package monitor

import (
	"time"

	"github.com/papci/DiscordHealthBot/pkg/config"
)

// nextReportDelay computes how long the reporting loop sleeps before its next
// cycle. Rolling mode is a fixed delay from the end of the current cycle;
// fixed mode sleeps to the next wall-clock boundary of the configured unit.
// An unrecognized unit falls back to "hour".
func nextReportDelay(mode, unit string, delay time.Duration, now time.Time) time.Duration {
	if mode == config.ReportModeRolling {
		return delay
	}

	var next time.Time
	switch unit {
	case "minute":
		next = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, now.Location()).Add(time.Minute)
	case "day":
		next = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	default: // "hour" and anything unrecognized
		next = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location()).Add(time.Hour)
	}

	return next.Sub(now)
}
