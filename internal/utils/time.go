package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// LocationFromSettings returns the location configured in settings.
func LocationFromSettings(settings models.Settings) (*time.Location, error) {
	loc, err := LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return loc, nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes formats minutes from midnight as HH:MM. Values outside a
// single day wrap around.
func FormatMinutes(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// AtMinutes returns the civil time minutes past local midnight of day. Minute
// values outside [0, 1440) roll into the neighbouring days.
func AtMinutes(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, day.Location())
}

// AddDays shifts a YYYY-MM-DD date string by n calendar days.
func AddDays(dateStr string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// DateRange returns every date string from start to end inclusive.
func DateRange(start, end string) ([]string, error) {
	from, err := time.Parse(constants.DateFormat, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	to, err := time.Parse(constants.DateFormat, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(constants.DateFormat))
	}
	return dates, nil
}

// InQuietHours reports whether now falls inside the quiet window [start, end).
// The window wraps past midnight when start is after end; equal bounds mean
// no quiet window. If either bound cannot be parsed the window is treated as
// not in effect and the error is returned for logging.
func InQuietHours(now time.Time, start, end string) (bool, error) {
	startMin, err := ParseTimeToMinutes(start)
	if err != nil {
		return false, fmt.Errorf("invalid quiet hours start %q: %w", start, err)
	}
	endMin, err := ParseTimeToMinutes(end)
	if err != nil {
		return false, fmt.Errorf("invalid quiet hours end %q: %w", end, err)
	}

	current := now.Hour()*60 + now.Minute()
	switch {
	case startMin == endMin:
		return false, nil
	case startMin < endMin:
		return current >= startMin && current < endMin, nil
	default:
		return current >= startMin || current < endMin, nil
	}
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
