package system

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DailyBudget          *int    `help:"Maximum interrupting notifications per day."`
	QuietHoursStart      *string `help:"Start of quiet hours (HH:MM)."`
	QuietHoursEnd        *string `help:"End of quiet hours (HH:MM, exclusive)."`
	WakeEstimate         *string `help:"Usual wake time (HH:MM)."`
	BedTarget            *string `help:"Target bed time (HH:MM)."`
	Timezone             *string `help:"IANA timezone name or Local."`
	Language             *string `help:"Notification language."`
	NotificationsEnabled *bool   `help:"Enable or disable notifications."`
	LogRetentionDays     *int    `help:"Days of notification history to keep."`
	ModeLookbackDays     *int    `help:"Days of history used to derive the mode."`
}

func (c *SettingsCmd) Validate() error {
	for name, v := range map[string]*string{
		"quiet-hours-start": c.QuietHoursStart,
		"quiet-hours-end":   c.QuietHoursEnd,
		"wake-estimate":     c.WakeEstimate,
		"bed-target":        c.BedTarget,
	} {
		if v != nil && !utils.ValidateTimeFormat(*v) {
			return fmt.Errorf("--%s must be HH:MM", name)
		}
	}
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("invalid timezone: %s", *c.Timezone)
	}
	if c.DailyBudget != nil && *c.DailyBudget < 0 {
		return fmt.Errorf("--daily-budget must not be negative")
	}
	if c.LogRetentionDays != nil && *c.LogRetentionDays < 1 {
		return fmt.Errorf("--log-retention-days must be at least 1")
	}
	if c.ModeLookbackDays != nil && *c.ModeLookbackDays < 1 {
		return fmt.Errorf("--mode-lookback-days must be at least 1")
	}
	return nil
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Language:              %s\n", settings.Language)
		fmt.Printf("  Wake Estimate:         %s\n", settings.WakeEstimate)
		fmt.Printf("  Bed Target:            %s\n", settings.BedTarget)
		fmt.Printf("  Mode Lookback:         %d days\n", settings.ModeLookbackDays)
		fmt.Println("\nNotification Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Daily Budget:          %d\n", settings.DailyBudget)
		fmt.Printf("  Quiet Hours:           %s - %s\n", settings.QuietHoursStart, settings.QuietHoursEnd)
		fmt.Printf("  Log Retention:         %d days\n", settings.LogRetentionDays)
		return nil
	}

	updated := false
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
			updated = true
		}
	}
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			updated = true
		}
	}
	setInt(&settings.DailyBudget, c.DailyBudget)
	setString(&settings.QuietHoursStart, c.QuietHoursStart)
	setString(&settings.QuietHoursEnd, c.QuietHoursEnd)
	setString(&settings.WakeEstimate, c.WakeEstimate)
	setString(&settings.BedTarget, c.BedTarget)
	setString(&settings.Timezone, c.Timezone)
	setString(&settings.Language, c.Language)
	setInt(&settings.LogRetentionDays, c.LogRetentionDays)
	setInt(&settings.ModeLookbackDays, c.ModeLookbackDays)
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
		if c.WakeEstimate != nil || c.BedTarget != nil || c.Timezone != nil {
			fmt.Println("Run 'cadence expand' to move upcoming items to the new anchors.")
		}
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
