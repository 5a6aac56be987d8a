package templates

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

type TemplateListCmd struct {
	All     bool `help:"Include archived templates."`
	ShowIDs bool `help:"Show template IDs." name:"show-ids"`
}

func (c *TemplateListCmd) Run(ctx *cli.Context) error {
	templates, err := ctx.Store.GetAllTemplates(c.All)
	if err != nil {
		return fmt.Errorf("failed to get templates: %w", err)
	}
	if len(templates) == 0 {
		fmt.Println("No templates found")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Templates"))
	for _, t := range templates {
		title := t.Title
		if t.IsCore {
			title = cli.CoreStyle.Render(title + " ★")
		}

		idStr := ""
		if c.ShowIDs {
			idStr = cli.MutedStyle.Render(fmt.Sprintf(" (ID: %s)", t.ID))
		}

		fmt.Printf("  [%s] %s%s - %s, %s (%s)\n",
			templateState(t), title, idStr, FormatAnchor(t), t.Recurrence.FormatRecurrence(), t.Category)
	}
	return nil
}

func templateState(t models.Template) string {
	switch {
	case t.Archived:
		return cli.MutedStyle.Render("archived")
	case !t.Active:
		return cli.WarnStyle.Render("paused")
	default:
		return cli.OKStyle.Render("active")
	}
}

// FormatAnchor describes a template's window relative to its anchor.
func FormatAnchor(t models.Template) string {
	if t.Anchor == models.AnchorFixed {
		return fmt.Sprintf("%s-%s", utils.FormatMinutes(t.StartOffsetMin), utils.FormatMinutes(t.EndOffsetMin))
	}
	return fmt.Sprintf("%s %s, %dm", strings.ToLower(string(t.Anchor)), signed(t.StartOffsetMin), t.EndOffsetMin-t.StartOffsetMin)
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%dm", n)
	}
	return fmt.Sprintf("%dm", n)
}
