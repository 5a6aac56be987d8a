package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/notifier"
	"github.com/julianstephens/cadence/internal/storage"
	"github.com/julianstephens/cadence/internal/utils"
)

type Context struct {
	Store storage.Provider
	// Ctx is cancelled on interrupt.
	Ctx context.Context
	// Now overrides the engine clock; nil means time.Now.
	Now func() time.Time
}

// RunContext returns the command's cancellation context.
func (c *Context) RunContext() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Engine returns an engine delivering through d.
func (c *Context) Engine(d engine.Delivery) *engine.Engine {
	var opts []engine.Option
	if c.Now != nil {
		opts = append(opts, engine.WithClock(c.Now))
	}
	return engine.New(c.Store, d, opts...)
}

// TrayEngine returns an engine that posts to the tray app and logs deliveries.
func (c *Context) TrayEngine() *engine.Engine {
	return c.Engine(notifier.NewDispatcher(notifier.New(), c.Store))
}

// Today returns the current date in the configured timezone.
func (c *Context) Today() (string, error) {
	return c.TrayEngine().Today()
}

// ResolveDate maps "", "today" and "tomorrow" to dates and validates
// anything else as YYYY-MM-DD.
func (c *Context) ResolveDate(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return c.Today()
	case "tomorrow":
		today, err := c.Today()
		if err != nil {
			return "", err
		}
		return utils.AddDays(today, 1)
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return s, nil
}

// ParseWeekdays parses a comma-separated list of weekday names or ISO numbers
// (1=Monday..7=Sunday).
func ParseWeekdays(s string) ([]int, error) {
	dayMap := map[string]int{
		"mon": 1, "monday": 1,
		"tue": 2, "tuesday": 2,
		"wed": 3, "wednesday": 3,
		"thu": 4, "thursday": 4,
		"fri": 5, "friday": 5,
		"sat": 6, "saturday": 6,
		"sun": 7, "sunday": 7,
	}

	var weekdays []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 1 || num > 7 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, num)
	}
	if len(weekdays) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return weekdays, nil
}

// ParseRecurrence builds a recurrence from the CLI flags.
func ParseRecurrence(kind, weekdays string, monthDay int) (models.Recurrence, error) {
	rec := models.Recurrence{Type: models.RecurrenceType(strings.ToLower(kind))}
	switch rec.Type {
	case models.RecurrenceDaily, models.RecurrenceWeekdays:
	case models.RecurrenceWeekly:
		wds, err := ParseWeekdays(weekdays)
		if err != nil {
			return rec, err
		}
		rec.Weekdays = wds
	case models.RecurrenceMonthly:
		rec.MonthDay = monthDay
	default:
		return rec, fmt.Errorf("invalid recurrence type: %s", kind)
	}
	return rec, nil
}

// ParseOffset parses a signed offset like "-30", "+15" or "90" in minutes,
// or a clock time "HH:MM" as minutes since midnight.
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		m, err := utils.ParseTimeToMinutes(s)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
		}
		return m, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q (expected minutes or HH:MM)", s)
	}
	return n, nil
}

// FormatWindow renders an occurrence window in loc, or "anytime".
func FormatWindow(o models.Occurrence, loc *time.Location) string {
	if o.Start == nil {
		return "anytime"
	}
	start := o.Start.In(loc).Format("15:04")
	if o.End == nil {
		return start
	}
	return start + "-" + o.End.In(loc).Format("15:04")
}
