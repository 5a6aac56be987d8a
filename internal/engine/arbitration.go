package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/arbiter"
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/metrics"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

// ArbitrationReport describes what one arbitration pass did.
type ArbitrationReport struct {
	Date       string
	Mode       models.Mode
	SentBefore int
	Candidates int
	Result     arbiter.Result
	Delivered  []DeliveryRequest
	Failed     int
	// Disabled is set when notifications are switched off in settings.
	Disabled bool
}

// candidate is an occurrence eligible to interrupt, and whether it is
// resurfacing from a snooze.
type candidate struct {
	occ        models.Occurrence
	resurfaced bool
}

// RunArbitration decides which occurrences of date should interrupt the user
// now and hands them to the delivery channel. Expansion runs first if it has
// not yet run for date in this process. A failed delivery is logged and does
// not stop the remaining ones.
func (e *Engine) RunArbitration(ctx context.Context, date string) (report ArbitrationReport, err error) {
	started := time.Now()
	defer func() { metrics.ObservePass("arbitration", started, err) }()

	report.Date = date
	en, err := e.load()
	if err != nil {
		return report, err
	}
	if !en.settings.NotificationsEnabled {
		logger.Debug("Notifications disabled, skipping arbitration")
		report.Disabled = true
		return report, nil
	}

	if err := e.ensureExpanded(ctx, date); err != nil {
		return report, fmt.Errorf("expansion before arbitration failed: %w", err)
	}

	mode, err := e.currentMode(en, date)
	if err != nil {
		return report, err
	}
	report.Mode = mode

	sent, err := e.store.CountNotificationsSentOn(date)
	if err != nil {
		return report, fmt.Errorf("failed to count notifications: %w", err)
	}
	report.SentBefore = sent

	candidates, err := e.candidates(en, date)
	if err != nil {
		return report, err
	}
	report.Candidates = len(candidates)

	occs := make([]models.Occurrence, len(candidates))
	resurfaced := make(map[string]bool, len(candidates))
	for i, c := range candidates {
		occs[i] = c.occ
		resurfaced[c.occ.ID] = c.resurfaced
	}

	report.Result = arbiter.Arbitrate(occs, mode, sent, en.settings, en.now)
	for reason, n := range report.Result.Suppressed {
		metrics.Suppressed.WithLabelValues(string(reason)).Add(float64(n))
	}

	for _, s := range report.Result.Allowed {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		class := classify(s.Occurrence, resurfaced[s.Occurrence.ID], mode)
		req := DeliveryRequest{
			OccurrenceID: s.Occurrence.ID,
			Class:        class,
			Title:        s.Occurrence.Title,
			Body:         body(s.Occurrence, class, mode, en.loc),
			Date:         date,
		}
		if err := e.delivery.Deliver(ctx, req); err != nil {
			logger.Error("Delivery failed", "occurrence", req.OccurrenceID, "class", class, "error", err)
			metrics.Deliveries.WithLabelValues(string(class), "error").Inc()
			report.Failed++
			continue
		}
		metrics.Deliveries.WithLabelValues(string(class), "ok").Inc()
		report.Delivered = append(report.Delivered, req)
	}

	logger.Info("Arbitration complete", "date", date, "mode", mode, "sent_before", sent,
		"candidates", len(candidates), "delivered", len(report.Delivered), "failed", report.Failed,
		"quiet_hours", report.Result.QuietHours, "budget_exhausted", report.Result.BudgetExhausted)
	return report, nil
}

// candidates collects started or anytime pending items that have not been
// notified today, plus snoozed items whose snooze elapsed after their last
// notification.
func (e *Engine) candidates(en env, date string) ([]candidate, error) {
	occs, err := e.store.GetOccurrencesForDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to load occurrences: %w", err)
	}
	entries, err := e.store.GetNotificationsSentOn(date)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification log: %w", err)
	}

	lastSent := make(map[string]time.Time)
	for _, entry := range entries {
		if entry.Class == models.ClassSummary {
			continue
		}
		if prev, ok := lastSent[entry.OccurrenceID]; !ok || entry.SentAt.After(prev) {
			lastSent[entry.OccurrenceID] = entry.SentAt
		}
	}

	var out []candidate
	for _, o := range occs {
		sentAt, notified := lastSent[o.ID]
		switch o.Status {
		case models.StatusPending:
			started := o.Start == nil || !o.Start.After(en.now)
			if started && !notified {
				out = append(out, candidate{occ: o})
			}
		case models.StatusSnoozed:
			if o.SnoozeElapsed(en.now) && (!notified || sentAt.Before(*o.SnoozeUntil)) {
				out = append(out, candidate{occ: o, resurfaced: true})
			}
		}
	}
	return out, nil
}

func classify(o models.Occurrence, resurfaced bool, mode models.Mode) models.NotificationClass {
	switch {
	case o.IsCore:
		return models.ClassCore
	case resurfaced:
		return models.ClassUpdate
	case mode == models.ModeRecovery:
		return models.ClassRecovery
	default:
		return models.ClassSoft
	}
}

func body(o models.Occurrence, class models.NotificationClass, mode models.Mode, loc *time.Location) string {
	window := ""
	if o.End != nil {
		window = fmt.Sprintf(" (until %s)", o.End.In(loc).Format(constants.TimeFormat))
	}
	if class == models.ClassUpdate {
		return fmt.Sprintf("Back from snooze: %s%s", o.Title, window)
	}
	switch mode {
	case models.ModeRecovery:
		return fmt.Sprintf("One small step: %s. That's enough for now.", o.Title)
	case models.ModeLowMood:
		return fmt.Sprintf("When you're ready: %s%s", o.Title, window)
	case models.ModeBusy:
		return fmt.Sprintf("Quick one: %s%s", o.Title, window)
	default:
		return fmt.Sprintf("Time for %s%s", o.Title, window)
	}
}

// SelectNextImportant finds the most important upcoming occurrence of date.
// When announce is set and the winner differs from the last summary sent
// today, a summary notification is delivered for it.
func (e *Engine) SelectNextImportant(ctx context.Context, date string, announce bool) (next arbiter.Scored, found bool, err error) {
	started := time.Now()
	defer func() { metrics.ObservePass("summary", started, err) }()

	en, err := e.load()
	if err != nil {
		return arbiter.Scored{}, false, err
	}
	mode, err := e.currentMode(en, date)
	if err != nil {
		return arbiter.Scored{}, false, err
	}
	occs, err := e.store.GetOccurrencesForDate(date)
	if err != nil {
		return arbiter.Scored{}, false, fmt.Errorf("failed to load occurrences: %w", err)
	}

	next, found = arbiter.SelectNext(occs, mode, en.now)
	if !found || !announce || !en.settings.NotificationsEnabled {
		return next, found, nil
	}

	last, err := e.lastSummary(date)
	if err != nil {
		return next, found, err
	}
	if last == next.Occurrence.ID {
		return next, found, nil
	}

	req := DeliveryRequest{
		OccurrenceID: next.Occurrence.ID,
		Class:        models.ClassSummary,
		Title:        "Next: " + next.Occurrence.Title,
		Body:         "Starts at " + next.Occurrence.Start.In(en.loc).Format(constants.TimeFormat),
		Date:         date,
	}
	if err := e.delivery.Deliver(ctx, req); err != nil {
		logger.Warn("Summary delivery failed", "occurrence", req.OccurrenceID, "error", err)
		metrics.Deliveries.WithLabelValues(string(models.ClassSummary), "error").Inc()
		return next, found, nil
	}
	metrics.Deliveries.WithLabelValues(string(models.ClassSummary), "ok").Inc()
	return next, found, nil
}

func (e *Engine) lastSummary(date string) (string, error) {
	entries, err := e.store.GetNotificationsSentOn(date)
	if err != nil {
		return "", fmt.Errorf("failed to load notification log: %w", err)
	}
	last := ""
	for _, entry := range entries {
		if entry.Class == models.ClassSummary {
			last = entry.OccurrenceID
		}
	}
	return last, nil
}

// PruneNotificationLog removes log entries older than the retention period.
func (e *Engine) PruneNotificationLog(ctx context.Context, today string) (n int64, err error) {
	started := time.Now()
	defer func() { metrics.ObservePass("prune", started, err) }()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	en, err := e.load()
	if err != nil {
		return 0, err
	}
	cutoff, err := utils.AddDays(today, -en.settings.LogRetentionDays)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", today, err)
	}
	n, err = e.store.PruneNotificationLog(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune notification log: %w", err)
	}
	logger.Info("Pruned notification log", "before", cutoff, "deleted", n)
	return n, nil
}
