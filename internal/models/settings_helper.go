package models

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys absent from data keep their default value.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingDailyBudget:
			if _, err := fmt.Sscanf(value, "%d", &settings.DailyBudget); err != nil {
				return Settings{}, fmt.Errorf("parsing daily_budget: %w", err)
			}
		case constants.SettingQuietHoursStart:
			settings.QuietHoursStart = value
		case constants.SettingQuietHoursEnd:
			settings.QuietHoursEnd = value
		case constants.SettingWakeEstimate:
			settings.WakeEstimate = value
		case constants.SettingBedTarget:
			settings.BedTarget = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingLanguage:
			settings.Language = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingLogRetentionDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.LogRetentionDays); err != nil {
				return Settings{}, fmt.Errorf("parsing log_retention_days: %w", err)
			}
		case constants.SettingModeLookbackDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.ModeLookbackDays); err != nil {
				return Settings{}, fmt.Errorf("parsing mode_lookback_days: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDailyBudget:          fmt.Sprintf("%d", settings.DailyBudget),
		constants.SettingQuietHoursStart:      settings.QuietHoursStart,
		constants.SettingQuietHoursEnd:        settings.QuietHoursEnd,
		constants.SettingWakeEstimate:         settings.WakeEstimate,
		constants.SettingBedTarget:            settings.BedTarget,
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingLanguage:             settings.Language,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingLogRetentionDays:     fmt.Sprintf("%d", settings.LogRetentionDays),
		constants.SettingModeLookbackDays:     fmt.Sprintf("%d", settings.ModeLookbackDays),
	}
}

// DefaultSettings returns the settings written by a fresh init.
func DefaultSettings() Settings {
	return Settings{
		DailyBudget:          constants.DefaultDailyBudget,
		QuietHoursStart:      constants.DefaultQuietHoursStart,
		QuietHoursEnd:        constants.DefaultQuietHoursEnd,
		WakeEstimate:         constants.DefaultWakeEstimate,
		BedTarget:            constants.DefaultBedTarget,
		Timezone:             constants.DefaultTimezone,
		Language:             constants.DefaultLanguage,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		LogRetentionDays:     constants.DefaultLogRetentionDays,
		ModeLookbackDays:     constants.DefaultModeLookbackDays,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
// A zero daily budget is a valid setting (no interruptions beyond core) and is
// left alone; budgets are only defaulted when negative.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DailyBudget < 0 {
		settings.DailyBudget = constants.DefaultDailyBudget
	}
	if settings.QuietHoursStart == "" {
		settings.QuietHoursStart = constants.DefaultQuietHoursStart
	}
	if settings.QuietHoursEnd == "" {
		settings.QuietHoursEnd = constants.DefaultQuietHoursEnd
	}
	if settings.WakeEstimate == "" {
		settings.WakeEstimate = constants.DefaultWakeEstimate
	}
	if settings.BedTarget == "" {
		settings.BedTarget = constants.DefaultBedTarget
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.Language == "" {
		settings.Language = constants.DefaultLanguage
	}
	if settings.LogRetentionDays <= 0 {
		settings.LogRetentionDays = constants.DefaultLogRetentionDays
	}
	if settings.ModeLookbackDays <= 0 {
		settings.ModeLookbackDays = constants.DefaultModeLookbackDays
	}
}
