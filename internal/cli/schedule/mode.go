package schedule

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
)

type ModeCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today or tomorrow)." default:"today"`
}

func (c *ModeCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	day, err := ctx.TrayEngine().RecomputeMode(ctx.RunContext(), date)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", cli.TitleStyle.Render("Mode for "+date+":"), cli.ModeBadge(day.Mode))
	fmt.Printf("  Adherence:           %.0f%%\n", day.AdherenceRate*100)
	fmt.Printf("  Consecutive snoozes: %d\n", day.ConsecutiveSnoozes)
	fmt.Printf("  Missed core items:   %d\n", day.MissedCoreCount)
	fmt.Printf("  Busy:                %v\n", day.Busy)
	return nil
}
