package util

import "time"

// LookbackRange returns the [from, to] window ending at the given time
// and spanning the requested number of days. The start is aligned to a
// day boundary; the end keeps its intraday component so the most recent
// data point is included.
func LookbackRange(to time.Time, days int) (time.Time, time.Time) {
	if days < 1 {
		days = 1
	}
	from := to.AddDate(0, 0, -days).Truncate(24 * time.Hour)
	return from, to
}
