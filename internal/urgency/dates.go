// Package urgency classifies customs-clearance jobs into urgency tiers.
//
// The engine is pure: every function takes the job and the current instant
// explicitly, holds no state between calls and is safe for concurrent use.
// Missing or unparseable input never produces an error; it degrades to the
// neutral classification.
package urgency

import (
	"math"
	"strings"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
)

const day = 24 * time.Hour

// dateLayouts are tried in order. Layouts without a zone are read in the
// caller's location.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or timestamp. The bool is false for
// empty or unparseable input.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysUntil returns the signed number of days from now until target using
// the given rounding mode. Positive means target is in the future.
func DaysUntil(target string, now time.Time, mode model.Rounding) (int, bool) {
	loc := now.Location()
	t, ok := ParseDate(target, loc)
	if !ok {
		return 0, false
	}
	return daysBetween(t, now, mode)
}

func daysBetween(target, now time.Time, mode model.Rounding) (int, bool) {
	switch mode {
	case model.RoundCeilRaw:
		return CeilDays(target, now), true
	case model.RoundFloorMidnight:
		return FloorMidnightDays(target, now), true
	default:
		return 0, false
	}
}

// CeilDays is the ceiling of the raw delta between two instants, in days.
// Neither instant is normalised, so a target earlier today yields 0.
func CeilDays(target, now time.Time) int {
	delta := target.Sub(now)
	days := math.Ceil(float64(delta) / float64(day))
	// math.Ceil yields -0 for small negative deltas.
	if days == 0 {
		return 0
	}
	return int(days)
}

// FloorMidnightDays normalises both instants to midnight in now's location
// and returns the whole number of calendar days between them.
func FloorMidnightDays(target, now time.Time) int {
	loc := now.Location()
	t := target.In(loc)
	// Counting on UTC dates keeps DST transitions from producing 23 or 25
	// hour days.
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Floor(float64(to.Sub(from)) / float64(day)))
}
