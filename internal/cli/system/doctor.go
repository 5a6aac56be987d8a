package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/keyring"
	"github.com/julianstephens/cadence/internal/notifier"
	"github.com/julianstephens/cadence/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks never fail the run.
	warnOnly bool
	needsDB  bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Settings valid", run: checkSettings, needsDB: true},
	{name: "Templates valid", run: checkTemplates, needsDB: true},
	{name: "Today expanded", run: checkTodayExpanded, needsDB: true, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone, needsDB: true},
	{name: "Tray notifier", run: checkTray, warnOnly: true},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				dbReachable = true
			}
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

// checkDBReachable loads the store, which also validates the schema version.
func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	var errs []error
	for name, value := range map[string]string{
		"quiet_hours_start": settings.QuietHoursStart,
		"quiet_hours_end":   settings.QuietHoursEnd,
		"wake_estimate":     settings.WakeEstimate,
		"bed_target":        settings.BedTarget,
	} {
		if !utils.ValidateTimeFormat(value) {
			errs = append(errs, fmt.Errorf("%s %q is not HH:MM", name, value))
		}
	}
	if settings.DailyBudget < 0 {
		errs = append(errs, fmt.Errorf("daily_budget must not be negative"))
	}
	if settings.ModeLookbackDays < 1 {
		errs = append(errs, fmt.Errorf("mode_lookback_days must be at least 1"))
	}
	return errors.Join(errs...)
}

func checkTemplates(ctx *cli.Context) error {
	templates, err := ctx.Store.GetAllTemplates(true)
	if err != nil {
		return fmt.Errorf("failed to read templates: %w", err)
	}
	var errs []error
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("template %s (%s): %w", t.ID, t.Title, err))
		}
	}
	return errors.Join(errs...)
}

func checkTodayExpanded(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	active, err := ctx.Store.ListActiveTemplates()
	if err != nil {
		return err
	}
	if len(active) == 0 {
		return nil
	}
	occs, err := ctx.Store.GetOccurrencesForDate(today)
	if err != nil {
		return err
	}
	if len(occs) == 0 {
		return fmt.Errorf("no occurrences for %s; run 'cadence expand' or start the daemon", today)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("timezone %q cannot be loaded", settings.Timezone)
	}
	if time.Now().Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", time.Now().Format(time.RFC3339))
	}
	return nil
}

func checkTray(_ *cli.Context) error {
	return notifier.CheckTray()
}

func checkKeyring(_ *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
