package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestISOWeekday(t *testing.T) {
	// 2026-01-12 is a Monday
	start := mustDate(t, "2026-01-12")
	for i := 0; i < 7; i++ {
		if got := ISOWeekday(start.AddDate(0, 0, i)); got != i+1 {
			t.Errorf("ISOWeekday(day %d) = %d, want %d", i, got, i+1)
		}
	}
}

func TestMatchesRecurrence_DailyAlwaysMatches(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceDaily}
	start := mustDate(t, "2026-01-01")
	for i := 0; i < 400; i++ {
		d := start.AddDate(0, 0, i)
		if !MatchesRecurrence(rec, d) {
			t.Fatalf("daily recurrence did not match %s", d.Format(constants.DateFormat))
		}
	}
}

func TestMatchesRecurrence_WeeklyMonWedFri(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceWeekly, Weekdays: []int{1, 3, 5}}
	start := mustDate(t, "2026-01-12") // Monday

	// Three full weeks
	for i := 0; i < 21; i++ {
		d := start.AddDate(0, 0, i)
		wd := d.Weekday()
		want := wd == time.Monday || wd == time.Wednesday || wd == time.Friday
		if got := MatchesRecurrence(rec, d); got != want {
			t.Errorf("%s (%s): got %v, want %v", d.Format(constants.DateFormat), wd, got, want)
		}
	}
}

func TestMatchesRecurrence_WeeklySunday(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceWeekly, Weekdays: []int{7}}
	if !MatchesRecurrence(rec, mustDate(t, "2026-01-18")) {
		t.Error("ISO 7 should match Sunday")
	}
	if MatchesRecurrence(rec, mustDate(t, "2026-01-17")) {
		t.Error("ISO 7 should not match Saturday")
	}
}

func TestMatchesRecurrence_WeeklyMalformedNeverMatches(t *testing.T) {
	tests := []struct {
		name     string
		weekdays []int
	}{
		{"empty list", nil},
		{"out of range", []int{0, 8, -1}},
	}
	start := mustDate(t, "2026-01-12")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.Recurrence{Type: models.RecurrenceWeekly, Weekdays: tt.weekdays}
			for i := 0; i < 7; i++ {
				if MatchesRecurrence(rec, start.AddDate(0, 0, i)) {
					t.Errorf("malformed weekly rule matched day %d", i)
				}
			}
		})
	}
}

func TestMatchesRecurrence_Monthly(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceMonthly, MonthDay: 15}
	if !MatchesRecurrence(rec, mustDate(t, "2026-01-15")) {
		t.Error("expected match on the 15th")
	}
	if !MatchesRecurrence(rec, mustDate(t, "2026-02-15")) {
		t.Error("expected match on February 15th")
	}
	if MatchesRecurrence(rec, mustDate(t, "2026-01-14")) {
		t.Error("expected no match on the 14th")
	}
}

func TestMatchesRecurrence_Monthly31NeverClamps(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceMonthly, MonthDay: 31}

	// Walk all of 2026 and count matches: only the seven 31-day months fire
	start := mustDate(t, "2026-01-01")
	matches := 0
	for d := start; d.Year() == 2026; d = d.AddDate(0, 0, 1) {
		if MatchesRecurrence(rec, d) {
			if d.Day() != 31 {
				t.Errorf("day-31 rule matched %s", d.Format(constants.DateFormat))
			}
			matches++
		}
	}
	if matches != 7 {
		t.Errorf("expected 7 matches in 2026, got %d", matches)
	}

	if MatchesRecurrence(rec, mustDate(t, "2026-04-30")) {
		t.Error("day-31 rule must not clamp to April 30th")
	}
	if MatchesRecurrence(rec, mustDate(t, "2026-02-28")) {
		t.Error("day-31 rule must not clamp to February 28th")
	}
}

func TestMatchesRecurrence_Weekdays(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceWeekdays}
	start := mustDate(t, "2026-01-12") // Monday
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		want := d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
		if got := MatchesRecurrence(rec, d); got != want {
			t.Errorf("%s: got %v, want %v", d.Weekday(), got, want)
		}
	}
}

func TestMatchesRecurrence_UnknownType(t *testing.T) {
	rec := models.Recurrence{Type: "fortnightly"}
	if MatchesRecurrence(rec, mustDate(t, "2026-01-12")) {
		t.Error("unknown recurrence type should never match")
	}
}
