package items

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
)

type ItemListCmd struct {
	Date    string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today or tomorrow)." default:"today"`
	ShowIDs bool   `help:"Show item IDs." name:"show-ids"`
}

func (c *ItemListCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	loc, err := ctx.TrayEngine().Location()
	if err != nil {
		return err
	}

	occs, err := ctx.Store.GetOccurrencesForDate(date)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	if len(occs) == 0 {
		fmt.Printf("No items for %s\n", date)
		return nil
	}

	header := date
	if day, err := ctx.Store.GetDay(date); err == nil {
		header = fmt.Sprintf("%s · %s", date, cli.ModeBadge(day.Mode))
		if day.Busy {
			header += cli.MutedStyle.Render(" (busy)")
		}
	}
	fmt.Println(cli.TitleStyle.Render(header))

	for _, o := range occs {
		title := o.Title
		if o.IsCore {
			title = cli.CoreStyle.Render(title + " ★")
		}
		line := fmt.Sprintf("  %-11s %s [%s]", cli.FormatWindow(o, loc), title, cli.StatusBadge(o.Status))
		if o.SnoozeUntil != nil && o.Status == models.StatusSnoozed {
			line += cli.MutedStyle.Render(" until " + o.SnoozeUntil.In(loc).Format("15:04"))
		}
		if c.ShowIDs {
			line += cli.MutedStyle.Render(" (ID: " + o.ID + ")")
		}
		fmt.Println(line)
	}
	return nil
}
