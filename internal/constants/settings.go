package constants

const (
	SettingDailyBudget          = "daily_budget"
	SettingQuietHoursStart      = "quiet_hours_start"
	SettingQuietHoursEnd        = "quiet_hours_end"
	SettingWakeEstimate         = "wake_estimate"
	SettingBedTarget            = "bed_target"
	SettingTimezone             = "timezone"
	SettingLanguage             = "language"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingLogRetentionDays     = "log_retention_days"
	SettingModeLookbackDays     = "mode_lookback_days"

	// Default Settings Values
	DefaultDailyBudget          = 7
	DefaultQuietHoursStart      = "22:00"
	DefaultQuietHoursEnd        = "07:00"
	DefaultWakeEstimate         = "07:00"
	DefaultBedTarget            = "23:00"
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultLanguage             = "en"
	DefaultNotificationsEnabled = true
	DefaultLogRetentionDays     = 30
	DefaultModeLookbackDays     = 7
)
