// Package engine runs the scheduling passes: expansion of templates into
// dated occurrences, mode evaluation, notification arbitration, and the
// next-important summary.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

// Store is the persistence the engine needs.
type Store interface {
	GetSettings() (models.Settings, error)

	ListActiveTemplates() ([]models.Template, error)
	ListExceptions(start, end string) ([]models.Exception, error)
	AddException(models.Exception) error

	GetOccurrence(id string) (models.Occurrence, error)
	GetOccurrencesForDate(date string) ([]models.Occurrence, error)
	GetOccurrencesInRange(start, end string) ([]models.Occurrence, error)
	UpsertOccurrence(models.Occurrence) error
	ReplaceOccurrences(date string, source models.Source, occs []models.Occurrence) error
	DeleteOccurrence(id string) error

	GetNotificationsSentOn(date string) ([]models.NotificationLogEntry, error)
	CountNotificationsSentOn(date string) (int, error)
	PruneNotificationLog(before string) (int64, error)

	GetDay(date string) (models.Day, error)
	SaveDay(models.Day) error
}

// DeliveryRequest is one notification the engine wants shown.
type DeliveryRequest struct {
	OccurrenceID string
	Class        models.NotificationClass
	Title        string
	Body         string
	Date         string
}

// Delivery hands requests to a notification channel. Implementations record
// successful deliveries in the notification log.
type Delivery interface {
	Deliver(ctx context.Context, req DeliveryRequest) error
}

var ErrInvalidTransition = errors.New("invalid status transition")

type Engine struct {
	store    Store
	delivery Delivery
	now      func() time.Time

	// expandMu serializes expansion; expandedOn is the last date it ran for.
	expandMu   sync.Mutex
	expandedOn string
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(store Store, delivery Delivery, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		delivery: delivery,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// env bundles the settings and clock reading shared by one pass.
type env struct {
	settings models.Settings
	loc      *time.Location
	now      time.Time
}

func (e *Engine) load() (env, error) {
	settings, err := e.store.GetSettings()
	if err != nil {
		return env{}, fmt.Errorf("failed to load settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	loc, err := utils.LocationFromSettings(settings)
	if err != nil {
		return env{}, fmt.Errorf("invalid timezone: %w", err)
	}
	return env{settings: settings, loc: loc, now: e.now().In(loc)}, nil
}

// Today returns the current date in the configured timezone.
func (e *Engine) Today() (string, error) {
	en, err := e.load()
	if err != nil {
		return "", err
	}
	return en.now.Format(constants.DateFormat), nil
}

// Location returns the configured timezone.
func (e *Engine) Location() (*time.Location, error) {
	en, err := e.load()
	if err != nil {
		return nil, err
	}
	return en.loc, nil
}
