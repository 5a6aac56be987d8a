package templates

import (
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
)

type TemplateArchiveCmd struct {
	ID string `arg:"" help:"Template ID."`
}

func (c *TemplateArchiveCmd) Run(ctx *cli.Context) error {
	return updateTemplate(ctx, c.ID, "Archived", func(t *models.Template) { t.Archived = true })
}

type TemplateUnarchiveCmd struct {
	ID string `arg:"" help:"Template ID."`
}

func (c *TemplateUnarchiveCmd) Run(ctx *cli.Context) error {
	return updateTemplate(ctx, c.ID, "Unarchived", func(t *models.Template) { t.Archived = false })
}

type TemplatePauseCmd struct {
	ID string `arg:"" help:"Template ID."`
}

func (c *TemplatePauseCmd) Run(ctx *cli.Context) error {
	return updateTemplate(ctx, c.ID, "Paused", func(t *models.Template) { t.Active = false })
}

type TemplateResumeCmd struct {
	ID string `arg:"" help:"Template ID."`
}

func (c *TemplateResumeCmd) Run(ctx *cli.Context) error {
	return updateTemplate(ctx, c.ID, "Resumed", func(t *models.Template) { t.Active = true })
}

// updateTemplate applies change and re-expands so the window reflects it.
func updateTemplate(ctx *cli.Context, id, verb string, change func(*models.Template)) error {
	t, err := ctx.Store.GetTemplate(id)
	if err != nil {
		return fmt.Errorf("failed to get template %s: %w", id, err)
	}
	change(&t)
	t.UpdatedAt = time.Now()
	if err := ctx.Store.UpdateTemplate(t); err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	fmt.Printf("%s template: %s\n", verb, t.Title)
	return reexpand(ctx)
}

func reexpand(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	if _, err := ctx.TrayEngine().RunExpansion(ctx.RunContext(), today); err != nil {
		return fmt.Errorf("saved but expansion failed: %w", err)
	}
	return nil
}
