package models

import "time"

type NotificationClass string

// ClassSummary is the non-interrupting status line and does not count toward
// the daily budget.
const (
	ClassCore     NotificationClass = "core"
	ClassUpdate   NotificationClass = "update"
	ClassRecovery NotificationClass = "recovery"
	ClassSoft     NotificationClass = "soft"
	ClassSummary  NotificationClass = "summary"
)

// NotificationLogEntry is an append-only record of a delivered notification.
type NotificationLogEntry struct {
	ID           int64             `json:"id"`
	OccurrenceID string            `json:"occurrence_id"`
	Class        NotificationClass `json:"class"`
	SentAt       time.Time         `json:"sent_at"`
	Date         string            `json:"date"` // YYYY-MM-DD format
}
