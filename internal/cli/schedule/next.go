package schedule

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
)

type NextCmd struct {
	Announce bool `help:"Also send the summary notification to the tray."`
}

func (c *NextCmd) Run(ctx *cli.Context) error {
	eng := ctx.TrayEngine()
	today, err := eng.Today()
	if err != nil {
		return err
	}
	loc, err := eng.Location()
	if err != nil {
		return err
	}

	next, found, err := eng.SelectNextImportant(ctx.RunContext(), today, c.Announce)
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("Nothing coming up.")
		return nil
	}

	o := next.Occurrence
	title := o.Title
	if o.IsCore {
		title = cli.CoreStyle.Render(title + " ★")
	}
	card := fmt.Sprintf("%s\n%s\n%s",
		cli.TitleStyle.Render("Next up"),
		title,
		cli.MutedStyle.Render(fmt.Sprintf("%s · score %.2f", cli.FormatWindow(o, loc), next.Score)),
	)
	fmt.Println(cli.CardStyle.Render(card))
	return nil
}
