package utils

import (
	"time"

	"github.com/julianstephens/cadence/internal/models"
)

// ISOWeekday returns the ISO-8601 weekday number of date (1 = Monday ... 7 = Sunday).
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// MatchesRecurrence reports whether a recurrence rule fires on the given date.
// Malformed rules (empty or out-of-range weekday lists, unknown types) never
// match so one bad template cannot block expansion of the others.
func MatchesRecurrence(rec models.Recurrence, date time.Time) bool {
	switch rec.Type {
	case models.RecurrenceDaily:
		return true
	case models.RecurrenceWeekly:
		iso := ISOWeekday(date)
		for _, wd := range rec.Weekdays {
			if wd == iso {
				return true
			}
		}
		return false
	case models.RecurrenceMonthly:
		// No clamping: day 31 simply never matches in shorter months
		return rec.MonthDay >= 1 && date.Day() == rec.MonthDay
	case models.RecurrenceWeekdays:
		wd := date.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	default:
		return false
	}
}
