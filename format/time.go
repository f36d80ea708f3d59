package format

import (
	"fmt"
	"time"
)

const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
)

// units are tried in order; the first whose limit is above the age wins.
var units = []struct {
	limit  time.Duration
	size   time.Duration
	suffix string
}{
	{time.Minute, time.Second, "s"},
	{time.Hour, time.Minute, "m"},
	{Day, time.Hour, "h"},
	{Week, Day, "d"},
	{Month, Week, "w"},
}

// Time formats a timestamp relative to now, e.g. "3h ago". Timestamps
// a month or more away fall back to a date. A zero time renders empty.
func Time(then time.Time) string {
	return TimeAt(then, time.Now())
}

func TimeAt(then, now time.Time) string {
	if then.IsZero() {
		return ""
	}

	age := now.Sub(then)
	label := "ago"
	if age < 0 {
		age = -age
		label = "from now"
	}

	if age < time.Second {
		return "just now"
	}

	for _, u := range units {
		if age < u.limit {
			return fmt.Sprintf("%d%s %s", age/u.size, u.suffix, label)
		}
	}

	return then.Local().Format("Jan 2 2006")
}
