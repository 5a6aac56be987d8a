package items

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

type ItemAddCmd struct {
	Title    string `arg:"" help:"Item title."`
	Date     string `help:"Date (YYYY-MM-DD, today or tomorrow)." default:"today"`
	Start    string `short:"s" help:"Start time (HH:MM). Omit for an anytime item."`
	Duration int    `short:"d" help:"Window length in minutes." default:"30"`
	Category string `short:"c" help:"Category (routine|task|chore)." default:"task"`
	Core     bool   `help:"Mark as a core item."`
	Source   string `help:"Origin of the item (manual|vision|ai)." default:"manual"`
}

func (c *ItemAddCmd) Validate() error {
	if c.Start != "" && !utils.ValidateTimeFormat(c.Start) {
		return fmt.Errorf("invalid start time %q (expected HH:MM)", c.Start)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	return nil
}

func (c *ItemAddCmd) Run(ctx *cli.Context) error {
	source, err := models.ParseSource(strings.ToLower(c.Source))
	if err != nil {
		return err
	}
	if source == models.SourceTemplate {
		return fmt.Errorf("template items are created by expansion; use 'cadence template add'")
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	eng := ctx.TrayEngine()
	loc, err := eng.Location()
	if err != nil {
		return err
	}

	o := models.Occurrence{
		Date:     date,
		Title:    strings.TrimSpace(c.Title),
		Category: models.Category(strings.ToLower(c.Category)),
		IsCore:   c.Core,
		Source:   source,
	}
	if c.Start != "" {
		start, end, err := window(date, c.Start, c.Duration, loc)
		if err != nil {
			return err
		}
		o.Start, o.End = &start, &end
	}

	o, err = eng.AddOccurrence(ctx.RunContext(), o)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	fmt.Printf("Added item: %s on %s %s (ID: %s)\n", o.Title, o.Date, cli.FormatWindow(o, loc), o.ID)
	return nil
}

func window(date, start string, duration int, loc *time.Location) (time.Time, time.Time, error) {
	day, err := utils.ParseDateInLocation(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	minutes, err := utils.ParseTimeToMinutes(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return utils.AtMinutes(day, minutes), utils.AtMinutes(day, minutes+duration), nil
}
