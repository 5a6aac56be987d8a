package templates

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/utils"
)

type ExceptionListCmd struct {
	From string `help:"First date (YYYY-MM-DD, today or tomorrow)." default:"today"`
	Days int    `help:"Number of days to list." default:"8"`
}

func (c *ExceptionListCmd) Run(ctx *cli.Context) error {
	from, err := ctx.ResolveDate(c.From)
	if err != nil {
		return err
	}
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	to, err := utils.AddDays(from, c.Days-1)
	if err != nil {
		return err
	}

	exceptions, err := ctx.Store.ListExceptions(from, to)
	if err != nil {
		return fmt.Errorf("failed to list exceptions: %w", err)
	}
	if len(exceptions) == 0 {
		fmt.Printf("No exceptions between %s and %s\n", from, to)
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Exceptions"))
	for _, e := range exceptions {
		title := e.TemplateID
		if t, err := ctx.Store.GetTemplate(e.TemplateID); err == nil {
			title = t.Title
		}
		fmt.Printf("  %s  %s %s\n", e.Date, title, cli.MutedStyle.Render("("+e.TemplateID+")"))
	}
	return nil
}

type ExceptionRemoveCmd struct {
	TemplateID string `arg:"" help:"Template ID."`
	Date       string `arg:"" help:"Date of the exception (YYYY-MM-DD)."`
}

func (c *ExceptionRemoveCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Store.RemoveException(c.TemplateID, date); err != nil {
		return fmt.Errorf("failed to remove exception: %w", err)
	}
	fmt.Printf("Removed exception for %s on %s\n", c.TemplateID, date)

	// Restoring a date outside the expansion window needs no rebuild
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	first, _ := utils.AddDays(today, -constants.ExpansionDaysBack)
	last, _ := utils.AddDays(today, constants.ExpansionDaysForward)
	if date < first || date > last {
		return nil
	}
	return reexpand(ctx)
}
