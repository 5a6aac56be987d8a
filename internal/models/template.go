package models

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryRoutine Category = "routine"
	CategoryTask    Category = "task"
	CategoryChore   Category = "chore"
)

// Anchor is the reference point an occurrence window is computed from.
type Anchor string

const (
	AnchorWake  Anchor = "wake"
	AnchorBed   Anchor = "bed"
	AnchorFixed Anchor = "fixed"
)

type RecurrenceType string

const (
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
	RecurrenceWeekdays RecurrenceType = "weekdays"
)

// Recurrence describes on which dates a template expands.
// Weekdays uses ISO numbering: 1 = Monday ... 7 = Sunday.
type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Weekdays []int          `json:"weekdays,omitempty"`
	MonthDay int            `json:"month_day,omitempty"`
}

// Template is a recurring routine definition ("series").
// For AnchorFixed the offsets are minutes since local midnight.
type Template struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Category       Category   `json:"category"`
	Subtype        string     `json:"subtype,omitempty"`
	IsCore         bool       `json:"is_core"`
	Anchor         Anchor     `json:"anchor"`
	StartOffsetMin int        `json:"start_offset_min"`
	EndOffsetMin   int        `json:"end_offset_min"`
	Recurrence     Recurrence `json:"recurrence"`
	Active         bool       `json:"active"`
	Archived       bool       `json:"archived"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Expandable reports whether the template should produce occurrences at all.
func (t *Template) Expandable() bool {
	return t.Active && !t.Archived
}

func (t *Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("template id cannot be empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("template title cannot be empty")
	}

	switch t.Category {
	case CategoryRoutine, CategoryTask, CategoryChore:
	default:
		return fmt.Errorf("invalid category %q", t.Category)
	}

	switch t.Anchor {
	case AnchorWake, AnchorBed:
	case AnchorFixed:
		if t.StartOffsetMin < 0 || t.StartOffsetMin >= 24*60 {
			return fmt.Errorf("fixed start must be within the day (got %d minutes)", t.StartOffsetMin)
		}
	default:
		return fmt.Errorf("invalid anchor %q", t.Anchor)
	}

	if t.EndOffsetMin < t.StartOffsetMin {
		return fmt.Errorf("end offset (%d) must not be before start offset (%d)", t.EndOffsetMin, t.StartOffsetMin)
	}

	switch t.Recurrence.Type {
	case RecurrenceDaily, RecurrenceWeekdays:
	case RecurrenceWeekly:
		if len(t.Recurrence.Weekdays) == 0 {
			return fmt.Errorf("weekdays must be specified for weekly recurrence")
		}
		for _, wd := range t.Recurrence.Weekdays {
			if wd < 1 || wd > 7 {
				return fmt.Errorf("weekday %d out of range (1=Mon..7=Sun)", wd)
			}
		}
	case RecurrenceMonthly:
		if t.Recurrence.MonthDay < 1 || t.Recurrence.MonthDay > 31 {
			return fmt.Errorf("month day must be between 1 and 31")
		}
	default:
		return fmt.Errorf("invalid recurrence type %q", t.Recurrence.Type)
	}

	return nil
}

// FormatRecurrence returns a human-readable string describing the recurrence
func (r Recurrence) FormatRecurrence() string {
	switch r.Type {
	case RecurrenceDaily:
		return "Daily"
	case RecurrenceWeekdays:
		return "Weekdays"
	case RecurrenceWeekly:
		names := make([]string, 0, len(r.Weekdays))
		for _, wd := range r.Weekdays {
			if wd < 1 || wd > 7 {
				continue
			}
			names = append(names, time.Weekday(wd % 7).String()[:3])
		}
		return fmt.Sprintf("Weekly: %s", strings.Join(names, ", "))
	case RecurrenceMonthly:
		return fmt.Sprintf("Monthly on day %d", r.MonthDay)
	default:
		return "Unknown"
	}
}

// Exception marks a date on which a template must not expand.
type Exception struct {
	TemplateID string    `json:"template_id"`
	Date       string    `json:"date"` // YYYY-MM-DD format
	CreatedAt  time.Time `json:"created_at"`
}
