package items

import (
	"errors"
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
)

// ItemStopCmd removes one occurrence and keeps expansion from recreating it.
type ItemStopCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ItemStopCmd) Run(ctx *cli.Context) error {
	if err := ctx.TrayEngine().StopOccurrence(ctx.RunContext(), c.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("item %s not found", c.ID)
		}
		return err
	}
	fmt.Printf("Stopped item %s\n", c.ID)
	return nil
}

// ItemDeleteCmd removes a one-off item.
type ItemDeleteCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ItemDeleteCmd) Run(ctx *cli.Context) error {
	o, err := ctx.Store.GetOccurrence(c.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("item %s not found", c.ID)
		}
		return err
	}
	if o.Source == models.SourceTemplate {
		return fmt.Errorf("item %s comes from a template and would be recreated; use 'cadence item stop'", c.ID)
	}
	if err := ctx.Store.DeleteOccurrence(c.ID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	fmt.Printf("Deleted item: %s\n", o.Title)
	return nil
}
