package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
)

// AddOccurrence stores a one-off item. Missing id, source and status are
// filled in as a new manual pending item.
func (e *Engine) AddOccurrence(ctx context.Context, o models.Occurrence) (models.Occurrence, error) {
	if err := ctx.Err(); err != nil {
		return models.Occurrence{}, err
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Source == "" {
		o.Source = models.SourceManual
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	now := e.now()
	o.CreatedAt = now
	o.UpdatedAt = now

	if err := o.Validate(); err != nil {
		return models.Occurrence{}, err
	}
	if o.Source == models.SourceTemplate {
		return models.Occurrence{}, fmt.Errorf("template occurrences are created by expansion")
	}
	if err := e.store.UpsertOccurrence(o); err != nil {
		return models.Occurrence{}, err
	}
	return o, nil
}

// UpdateStatus moves an occurrence to status, enforcing the allowed
// transitions, and re-evaluates the mode for its date. snoozeUntil is
// required for snoozed and ignored otherwise.
func (e *Engine) UpdateStatus(ctx context.Context, id string, status models.Status, snoozeUntil *time.Time) (models.Occurrence, error) {
	if err := ctx.Err(); err != nil {
		return models.Occurrence{}, err
	}
	o, err := e.store.GetOccurrence(id)
	if err != nil {
		return models.Occurrence{}, err
	}
	if !o.Status.CanTransitionTo(status) {
		return models.Occurrence{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
	}

	o.SnoozeUntil = nil
	if status == models.StatusSnoozed {
		if snoozeUntil == nil {
			return models.Occurrence{}, fmt.Errorf("snooze requires an end time")
		}
		until := *snoozeUntil
		o.SnoozeUntil = &until
	}
	o.Status = status
	o.UpdatedAt = e.now()

	if err := e.store.UpsertOccurrence(o); err != nil {
		return models.Occurrence{}, fmt.Errorf("failed to save occurrence: %w", err)
	}
	logger.Debug("Occurrence status updated", "occurrence", id, "status", status)

	if _, err := e.RecomputeMode(ctx, o.Date); err != nil {
		return o, fmt.Errorf("status saved but mode update failed: %w", err)
	}
	return o, nil
}

// StopOccurrence removes a single occurrence. For template items an
// exception is recorded first so expansion does not bring it back.
func (e *Engine) StopOccurrence(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o, err := e.store.GetOccurrence(id)
	if err != nil {
		return err
	}
	if o.Source == models.SourceTemplate && o.TemplateID != "" {
		exc := models.Exception{TemplateID: o.TemplateID, Date: o.Date, CreatedAt: e.now()}
		if err := e.store.AddException(exc); err != nil {
			return fmt.Errorf("failed to record exception: %w", err)
		}
	}
	if err := e.store.DeleteOccurrence(id); err != nil {
		return fmt.Errorf("failed to delete occurrence: %w", err)
	}
	logger.Info("Occurrence stopped", "occurrence", id, "template", o.TemplateID, "date", o.Date)
	return nil
}
