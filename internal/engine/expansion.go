package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/metrics"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/scheduler"
	"github.com/julianstephens/cadence/internal/utils"
)

// ExpansionResult summarizes one expansion pass.
type ExpansionResult struct {
	From        string
	To          string
	Occurrences int
}

// RunExpansion rebuilds the template-derived occurrences for the window from
// the day before today through a week ahead. Manual, vision and AI items are
// left alone. An existing occurrence with the same id keeps its status, snooze
// and timestamps, so re-running is a no-op and never reverts a status change.
func (e *Engine) RunExpansion(ctx context.Context, today string) (ExpansionResult, error) {
	e.expandMu.Lock()
	defer e.expandMu.Unlock()
	return e.expand(ctx, today)
}

// ensureExpanded runs expansion once per date for the life of the engine.
func (e *Engine) ensureExpanded(ctx context.Context, today string) error {
	e.expandMu.Lock()
	defer e.expandMu.Unlock()
	if e.expandedOn == today {
		return nil
	}
	_, err := e.expand(ctx, today)
	return err
}

func (e *Engine) expand(ctx context.Context, today string) (res ExpansionResult, err error) {
	started := time.Now()
	defer func() { metrics.ObservePass("expansion", started, err) }()

	en, err := e.load()
	if err != nil {
		return ExpansionResult{}, err
	}
	anchors, err := scheduler.AnchorsFromSettings(en.settings)
	if err != nil {
		return ExpansionResult{}, err
	}

	from, err := utils.AddDays(today, -constants.ExpansionDaysBack)
	if err != nil {
		return ExpansionResult{}, fmt.Errorf("invalid date %q: %w", today, err)
	}
	to, err := utils.AddDays(today, constants.ExpansionDaysForward)
	if err != nil {
		return ExpansionResult{}, fmt.Errorf("invalid date %q: %w", today, err)
	}
	dates, err := utils.DateRange(from, to)
	if err != nil {
		return ExpansionResult{}, err
	}

	templates, err := e.store.ListActiveTemplates()
	if err != nil {
		return ExpansionResult{}, fmt.Errorf("failed to list templates: %w", err)
	}
	stored, err := e.store.ListExceptions(from, to)
	if err != nil {
		return ExpansionResult{}, fmt.Errorf("failed to list exceptions: %w", err)
	}
	exceptions := scheduler.NewExceptionSet(stored)
	sched := scheduler.New(en.loc)

	res = ExpansionResult{From: from, To: to}
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var occs []models.Occurrence
		for _, t := range templates {
			occ, ok := sched.Expand(t, date, exceptions, anchors)
			if !ok {
				continue
			}
			// The store keeps status, snooze and timestamps of rows it already has.
			occ.CreatedAt = en.now
			occ.UpdatedAt = en.now
			occs = append(occs, occ)
		}

		if err := e.store.ReplaceOccurrences(date, models.SourceTemplate, occs); err != nil {
			return res, fmt.Errorf("failed to write occurrences for %s: %w", date, err)
		}
		res.Occurrences += len(occs)
	}

	e.expandedOn = today
	metrics.OccurrencesExpanded.Add(float64(res.Occurrences))
	logger.Info("Expansion complete", "from", from, "to", to, "occurrences", res.Occurrences, "templates", len(templates))
	return res, nil
}
