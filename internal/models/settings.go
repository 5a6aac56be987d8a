package models

// Settings represents application-wide settings
type Settings struct {
	DailyBudget          int    `json:"daily_budget"`          // max interrupting notifications per day
	QuietHoursStart      string `json:"quiet_hours_start"`     // HH:MM, may be after QuietHoursEnd (wraps midnight)
	QuietHoursEnd        string `json:"quiet_hours_end"`       // HH:MM, exclusive
	WakeEstimate         string `json:"wake_estimate"`         // HH:MM, anchor for wake-relative templates
	BedTarget            string `json:"bed_target"`            // HH:MM, anchor for bed-relative templates
	Timezone             string `json:"timezone"`              // IANA timezone name or "Local"
	Language             string `json:"language"`              // cosmetic only
	NotificationsEnabled bool   `json:"notifications_enabled"` // master switch for arbitration passes
	LogRetentionDays     int    `json:"log_retention_days"`    // notification log entries older than this are pruned
	ModeLookbackDays     int    `json:"mode_lookback_days"`    // history window used to derive the mode
}
