package schedule

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
)

type ExpandCmd struct{}

func (c *ExpandCmd) Run(ctx *cli.Context) error {
	eng := ctx.TrayEngine()
	today, err := eng.Today()
	if err != nil {
		return err
	}
	res, err := eng.RunExpansion(ctx.RunContext(), today)
	if err != nil {
		return err
	}
	fmt.Printf("Expanded %s..%s (%d occurrences)\n", res.From, res.To, res.Occurrences)
	return nil
}
