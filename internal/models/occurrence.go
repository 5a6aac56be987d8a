package models

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusSnoozed Status = "snoozed"
	StatusSkipped Status = "skipped"
)

// Source records where an occurrence came from.
type Source string

const (
	SourceTemplate Source = "template"
	SourceManual   Source = "manual"
	SourceVision   Source = "vision"
	SourceAI       Source = "ai"
)

// Occurrence is one concrete, dated item ("plan item"). Start and End are nil
// for anytime items.
type Occurrence struct {
	ID          string     `json:"id"`
	TemplateID  string     `json:"template_id,omitempty"`
	Date        string     `json:"date"` // YYYY-MM-DD format
	Title       string     `json:"title"`
	Category    Category   `json:"category,omitempty"`
	IsCore      bool       `json:"is_core"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Status      Status     `json:"status"`
	SnoozeUntil *time.Time `json:"snooze_until,omitempty"`
	Source      Source     `json:"source"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OccurrenceID returns the deterministic id of a template-derived occurrence.
func OccurrenceID(templateID, date string) string {
	return templateID + "_" + date
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusDone, StatusSnoozed, StatusSkipped:
		return st, nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case SourceTemplate, SourceManual, SourceVision, SourceAI:
		return src, nil
	}
	return "", fmt.Errorf("invalid source %q", s)
}

// CanTransitionTo reports whether a user action may move an occurrence from s
// to next. Done and skipped items can only be reopened.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusDone || next == StatusSkipped || next == StatusSnoozed
	case StatusSnoozed:
		return next == StatusPending || next == StatusDone || next == StatusSkipped || next == StatusSnoozed
	case StatusDone, StatusSkipped:
		return next == StatusPending
	default:
		return false
	}
}

// Resolved reports whether the occurrence counts toward adherence at now.
func (o *Occurrence) Resolved(now time.Time) bool {
	switch o.Status {
	case StatusDone, StatusSkipped:
		return true
	case StatusPending, StatusSnoozed:
		return o.End != nil && o.End.Before(now)
	}
	return false
}

// Missed reports whether the item counts as missed: it was skipped, or it is
// still pending after its window closed. A snoozed item is not missed.
func (o *Occurrence) Missed(now time.Time) bool {
	if o.Status == StatusSkipped {
		return true
	}
	return o.Status == StatusPending && o.End != nil && o.End.Before(now)
}

// SnoozeElapsed reports whether a snoozed item is due to resurface.
func (o *Occurrence) SnoozeElapsed(now time.Time) bool {
	return o.Status == StatusSnoozed && o.SnoozeUntil != nil && !o.SnoozeUntil.After(now)
}

func (o *Occurrence) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("occurrence id cannot be empty")
	}
	if o.Title == "" {
		return fmt.Errorf("occurrence title cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", o.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if _, err := ParseStatus(string(o.Status)); err != nil {
		return err
	}
	if _, err := ParseSource(string(o.Source)); err != nil {
		return err
	}
	if o.Source == SourceTemplate && o.TemplateID == "" {
		return fmt.Errorf("template-derived occurrence must reference a template")
	}
	if o.Start != nil && o.End != nil && o.End.Before(*o.Start) {
		return fmt.Errorf("end must not be before start")
	}
	return nil
}
