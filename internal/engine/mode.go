package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/arbiter"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/metrics"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

// RecomputeMode derives the behavioural signals for date from the lookback
// window, stores the resulting mode on the day record, and returns it.
func (e *Engine) RecomputeMode(ctx context.Context, date string) (day models.Day, err error) {
	started := time.Now()
	defer func() { metrics.ObservePass("mode", started, err) }()

	if err := ctx.Err(); err != nil {
		return models.Day{}, err
	}
	en, err := e.load()
	if err != nil {
		return models.Day{}, err
	}
	return e.recomputeMode(en, date)
}

func (e *Engine) recomputeMode(en env, date string) (models.Day, error) {
	from, err := utils.AddDays(date, -(en.settings.ModeLookbackDays - 1))
	if err != nil {
		return models.Day{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	history, err := e.store.GetOccurrencesInRange(from, date)
	if err != nil {
		return models.Day{}, fmt.Errorf("failed to load history: %w", err)
	}

	day, err := e.day(date)
	if err != nil {
		return models.Day{}, err
	}
	previous := day.Mode

	sig := arbiter.DeriveSignals(history, day.Busy, en.now)
	day.Mode = sig.Mode()
	day.AdherenceRate = sig.AdherenceRate
	day.ConsecutiveSnoozes = sig.ConsecutiveSnoozes
	day.MissedCoreCount = sig.MissedCoreCount
	day.UpdatedAt = en.now

	if err := e.store.SaveDay(day); err != nil {
		return models.Day{}, fmt.Errorf("failed to save day: %w", err)
	}

	metrics.SetMode(day.Mode)
	if previous != day.Mode {
		logger.Info("Mode changed", "date", date, "from", previous, "to", day.Mode,
			"adherence", sig.AdherenceRate, "snoozes", sig.ConsecutiveSnoozes, "missed_core", sig.MissedCoreCount)
	}
	return day, nil
}

// day returns the stored day record, or a fresh one when none exists.
func (e *Engine) day(date string) (models.Day, error) {
	day, err := e.store.GetDay(date)
	if errors.Is(err, models.ErrNotFound) {
		return models.Day{Date: date}, nil
	}
	if err != nil {
		return models.Day{}, fmt.Errorf("failed to load day: %w", err)
	}
	return day, nil
}

// currentMode returns the stored mode for date, computing it on first use.
func (e *Engine) currentMode(en env, date string) (models.Mode, error) {
	day, err := e.store.GetDay(date)
	if err == nil && day.Mode != "" {
		return day.Mode, nil
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return "", fmt.Errorf("failed to load day: %w", err)
	}
	day, err = e.recomputeMode(en, date)
	if err != nil {
		return "", err
	}
	return day.Mode, nil
}

// SetBusy toggles the busy flag for date and re-evaluates the mode.
func (e *Engine) SetBusy(ctx context.Context, date string, busy bool) (models.Day, error) {
	en, err := e.load()
	if err != nil {
		return models.Day{}, err
	}
	day, err := e.day(date)
	if err != nil {
		return models.Day{}, err
	}
	day.Busy = busy
	day.UpdatedAt = en.now
	if err := e.store.SaveDay(day); err != nil {
		return models.Day{}, fmt.Errorf("failed to save day: %w", err)
	}
	return e.RecomputeMode(ctx, date)
}
