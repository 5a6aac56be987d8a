package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/notifier"
)

type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them. Nothing is logged."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	var eng *engine.Engine
	if c.DryRun {
		eng = ctx.Engine(notifier.NewDispatcher(notifier.NewConsole(os.Stdout), nil))
	} else {
		eng = ctx.TrayEngine()
	}

	today, err := eng.Today()
	if err != nil {
		return err
	}
	report, err := eng.RunArbitration(ctx.RunContext(), today)
	if err != nil {
		return err
	}

	if report.Disabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	if c.DryRun {
		fmt.Printf("Mode: %s, sent today: %d, candidates: %d, delivered: %d\n",
			report.Mode, report.SentBefore, report.Candidates, len(report.Delivered))
		if report.Result.QuietHours {
			fmt.Println("Quiet hours: all candidates held back.")
		}
		for reason, n := range report.Result.Suppressed {
			fmt.Printf("  suppressed (%s): %d\n", reason, n)
		}
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d notification(s) failed to send", report.Failed)
	}
	return nil
}
