package templates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

type TemplateAddCmd struct {
	Title       string `arg:"" optional:"" help:"Template title."`
	Category    string `short:"c" help:"Category (routine|task|chore)." default:"routine"`
	Subtype     string `help:"Free-form subtype, e.g. meds or hygiene."`
	Core        bool   `help:"Mark as a core item that may interrupt past the daily budget."`
	Anchor      string `short:"a" help:"Anchor (wake|bed|fixed)." default:"fixed"`
	Start       string `short:"s" help:"Start: HH:MM for fixed, signed minutes from the anchor otherwise." default:"0"`
	Duration    int    `short:"d" help:"Window length in minutes." default:"30"`
	Recurrence  string `short:"r" help:"Recurrence type (daily|weekly|weekdays|monthly)." default:"daily"`
	Weekdays    string `short:"w" help:"Comma-separated weekdays for weekly recurrence."`
	MonthDay    int    `help:"Day of month (1-31) for monthly recurrence."`
	Interactive bool   `short:"i" help:"Fill in the template with an interactive form."`
}

func (c *TemplateAddCmd) Validate() error {
	if c.Interactive {
		return nil
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required unless --interactive is set")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if c.Anchor == string(models.AnchorFixed) && !strings.Contains(c.Start, ":") && c.Start != "0" {
		return fmt.Errorf("fixed templates take --start as HH:MM")
	}
	return nil
}

func (c *TemplateAddCmd) Run(ctx *cli.Context) error {
	if c.Interactive {
		if err := c.runForm(); err != nil {
			return err
		}
	}

	t, err := c.build(time.Now())
	if err != nil {
		return err
	}
	if err := ctx.Store.AddTemplate(t); err != nil {
		return err
	}
	fmt.Printf("Added template: %s (ID: %s)\n", t.Title, t.ID)

	today, err := ctx.Today()
	if err != nil {
		return err
	}
	res, err := ctx.TrayEngine().RunExpansion(ctx.RunContext(), today)
	if err != nil {
		return fmt.Errorf("template saved but expansion failed: %w", err)
	}
	fmt.Printf("Expanded %s..%s (%d occurrences)\n", res.From, res.To, res.Occurrences)
	return nil
}

func (c *TemplateAddCmd) build(now time.Time) (models.Template, error) {
	rec, err := cli.ParseRecurrence(c.Recurrence, c.Weekdays, c.MonthDay)
	if err != nil {
		return models.Template{}, err
	}
	start, err := cli.ParseOffset(c.Start)
	if err != nil {
		return models.Template{}, err
	}

	t := models.Template{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(c.Title),
		Category:       models.Category(strings.ToLower(c.Category)),
		Subtype:        c.Subtype,
		IsCore:         c.Core,
		Anchor:         models.Anchor(strings.ToLower(c.Anchor)),
		StartOffsetMin: start,
		EndOffsetMin:   start + c.Duration,
		Recurrence:     rec,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := t.Validate(); err != nil {
		return models.Template{}, fmt.Errorf("invalid template: %w", err)
	}
	return t, nil
}

func (c *TemplateAddCmd) runForm() error {
	duration := strconv.Itoa(c.Duration)
	if c.Start == "0" && c.Anchor == string(models.AnchorFixed) {
		c.Start = "08:00"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&c.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions("routine", "task", "chore")...).
				Value(&c.Category),
			huh.NewConfirm().
				Title("Core item?").
				Description("Core items still notify after the daily budget is spent.").
				Value(&c.Core),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Anchor").
				Options(
					huh.NewOption("Fixed time of day", "fixed"),
					huh.NewOption("Relative to wake", "wake"),
					huh.NewOption("Relative to bed", "bed"),
				).
				Value(&c.Anchor),
			huh.NewInput().
				Title("Start").
				Description("HH:MM for fixed, minutes from the anchor otherwise (e.g. -30).").
				Value(&c.Start).
				Validate(func(s string) error {
					_, err := cli.ParseOffset(s)
					return err
				}),
			huh.NewInput().
				Title("Duration (minutes)").
				Value(&duration).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Repeats").
				Options(huh.NewOptions("daily", "weekdays", "weekly", "monthly")...).
				Value(&c.Recurrence),
			huh.NewInput().
				Title("Weekdays (weekly only)").
				Placeholder("mon,wed,fri").
				Value(&c.Weekdays),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	n, err := strconv.Atoi(duration)
	if err != nil {
		return err
	}
	c.Duration = n
	if c.Recurrence == string(models.RecurrenceMonthly) && c.MonthDay == 0 {
		c.MonthDay = time.Now().Day()
	}
	if c.Anchor == string(models.AnchorFixed) && !utils.ValidateTimeFormat(c.Start) {
		return fmt.Errorf("fixed templates take the start as HH:MM")
	}
	return nil
}
