package items

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

type ItemDoneCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ItemDoneCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.ID, models.StatusDone, nil)
}

type ItemSkipCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ItemSkipCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.ID, models.StatusSkipped, nil)
}

type ItemReopenCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ItemReopenCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.ID, models.StatusPending, nil)
}

type ItemSnoozeCmd struct {
	ID      string `arg:"" help:"Item ID."`
	Minutes int    `short:"m" help:"Snooze for this many minutes." default:"15"`
	Until   string `short:"u" help:"Snooze until this time today (HH:MM). Overrides --minutes."`
}

func (c *ItemSnoozeCmd) Validate() error {
	if c.Until != "" && !utils.ValidateTimeFormat(c.Until) {
		return fmt.Errorf("invalid --until %q (expected HH:MM)", c.Until)
	}
	if c.Until == "" && c.Minutes <= 0 {
		return fmt.Errorf("--minutes must be positive")
	}
	return nil
}

func (c *ItemSnoozeCmd) Run(ctx *cli.Context) error {
	until, err := c.until(ctx)
	if err != nil {
		return err
	}
	return setStatus(ctx, c.ID, models.StatusSnoozed, &until)
}

func (c *ItemSnoozeCmd) until(ctx *cli.Context) (time.Time, error) {
	now := time.Now()
	if ctx.Now != nil {
		now = ctx.Now()
	}
	if c.Until == "" {
		return now.Add(time.Duration(c.Minutes) * time.Minute), nil
	}

	eng := ctx.TrayEngine()
	loc, err := eng.Location()
	if err != nil {
		return time.Time{}, err
	}
	today, err := eng.Today()
	if err != nil {
		return time.Time{}, err
	}
	day, err := utils.ParseDateInLocation(today, loc)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := utils.ParseTimeToMinutes(c.Until)
	if err != nil {
		return time.Time{}, err
	}
	until := utils.AtMinutes(day, minutes)
	if !until.After(now) {
		return time.Time{}, fmt.Errorf("--until %s is not in the future", c.Until)
	}
	return until, nil
}

func setStatus(ctx *cli.Context, id string, status models.Status, snoozeUntil *time.Time) error {
	o, err := ctx.TrayEngine().UpdateStatus(ctx.RunContext(), id, status, snoozeUntil)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidTransition) {
			return fmt.Errorf("cannot mark %s as %s: %w", id, status, err)
		}
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("item %s not found", id)
		}
		return err
	}
	fmt.Printf("%s → %s\n", o.Title, cli.StatusBadge(o.Status))
	return nil
}
