package scheduler

import (
	"time"

	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

// ExceptionSet is a lookup of (template, date) pairs that must not expand.
type ExceptionSet map[string]struct{}

func exceptionKey(templateID, date string) string {
	return templateID + "|" + date
}

// NewExceptionSet builds a set from stored exceptions.
func NewExceptionSet(exceptions []models.Exception) ExceptionSet {
	set := make(ExceptionSet, len(exceptions))
	for _, e := range exceptions {
		set.Add(e.TemplateID, e.Date)
	}
	return set
}

func (s ExceptionSet) Add(templateID, date string) {
	s[exceptionKey(templateID, date)] = struct{}{}
}

func (s ExceptionSet) Contains(templateID, date string) bool {
	if s == nil {
		return false
	}
	_, ok := s[exceptionKey(templateID, date)]
	return ok
}

// Scheduler materializes template occurrences in a single timezone.
type Scheduler struct {
	loc *time.Location
}

func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{loc: loc}
}

func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// Expand produces the occurrence of template t on date, if any. It returns
// false when the template is paused or archived, the date is excepted, the
// recurrence does not fire, or the template data is malformed.
func (s *Scheduler) Expand(t models.Template, date string, exceptions ExceptionSet, anchors Anchors) (models.Occurrence, bool) {
	if !t.Expandable() {
		return models.Occurrence{}, false
	}
	if exceptions.Contains(t.ID, date) {
		return models.Occurrence{}, false
	}

	day, err := utils.ParseDateInLocation(date, s.loc)
	if err != nil {
		logger.Warn("Skipping expansion for invalid date", "date", date, "error", err)
		return models.Occurrence{}, false
	}

	if !utils.MatchesRecurrence(t.Recurrence, day) {
		return models.Occurrence{}, false
	}

	start, end, err := ResolveAnchor(t, day, anchors)
	if err != nil {
		logger.Warn("Skipping template with unresolvable anchor", "template", t.ID, "error", err)
		return models.Occurrence{}, false
	}

	return models.Occurrence{
		ID:         models.OccurrenceID(t.ID, date),
		TemplateID: t.ID,
		Date:       date,
		Title:      t.Title,
		Category:   t.Category,
		IsCore:     t.IsCore,
		Start:      &start,
		End:        &end,
		Status:     models.StatusPending,
		Source:     models.SourceTemplate,
	}, true
}
