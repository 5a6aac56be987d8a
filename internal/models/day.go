package models

import "time"

// Day holds per-date state: the busy flag set by the user or an external
// calendar, and the last computed mode with the signals it was derived from.
type Day struct {
	Date               string    `json:"date"` // YYYY-MM-DD format
	Mode               Mode      `json:"mode"`
	Busy               bool      `json:"busy"`
	AdherenceRate      float64   `json:"adherence_rate"`
	ConsecutiveSnoozes int       `json:"consecutive_snoozes"`
	MissedCoreCount    int       `json:"missed_core_count"`
	UpdatedAt          time.Time `json:"updated_at"`
}
