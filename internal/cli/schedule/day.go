package schedule

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
)

// DayBusyCmd flags a date as busy, e.g. from a calendar hook.
type DayBusyCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today or tomorrow)." default:"today"`
}

func (c *DayBusyCmd) Run(ctx *cli.Context) error {
	return setBusy(ctx, c.Date, true)
}

type DayFreeCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today or tomorrow)." default:"today"`
}

func (c *DayFreeCmd) Run(ctx *cli.Context) error {
	return setBusy(ctx, c.Date, false)
}

func setBusy(ctx *cli.Context, dateArg string, busy bool) error {
	date, err := ctx.ResolveDate(dateArg)
	if err != nil {
		return err
	}
	day, err := ctx.TrayEngine().SetBusy(ctx.RunContext(), date, busy)
	if err != nil {
		return err
	}
	fmt.Printf("%s busy=%v, mode: %s\n", date, day.Busy, cli.ModeBadge(day.Mode))
	return nil
}
