package storage

import "github.com/julianstephens/cadence/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Migrate(logFn func(string)) (int, error)

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Templates
	AddTemplate(models.Template) error
	GetTemplate(id string) (models.Template, error)
	GetAllTemplates(includeArchived bool) ([]models.Template, error)
	ListActiveTemplates() ([]models.Template, error)
	UpdateTemplate(models.Template) error

	// Exceptions
	AddException(models.Exception) error
	RemoveException(templateID, date string) error
	ListExceptions(start, end string) ([]models.Exception, error)

	// Occurrences
	UpsertOccurrence(models.Occurrence) error
	// ReplaceOccurrences makes occs the set of source occurrences on date in a
	// single transaction. Rows that survive keep status, snooze and timestamps.
	ReplaceOccurrences(date string, source models.Source, occs []models.Occurrence) error
	DeleteOccurrencesBySource(date string, source models.Source) error
	DeleteOccurrence(id string) error
	GetOccurrence(id string) (models.Occurrence, error)
	GetOccurrencesForDate(date string) ([]models.Occurrence, error)
	GetOccurrencesInRange(start, end string) ([]models.Occurrence, error)

	// Notification log
	AppendNotificationLog(models.NotificationLogEntry) (int64, error)
	GetNotificationsSentOn(date string) ([]models.NotificationLogEntry, error)
	// CountNotificationsSentOn excludes summary entries.
	CountNotificationsSentOn(date string) (int, error)
	PruneNotificationLog(before string) (int64, error)

	// Days
	GetDay(date string) (models.Day, error)
	SaveDay(models.Day) error

	// Utils
	GetConfigPath() string
}
