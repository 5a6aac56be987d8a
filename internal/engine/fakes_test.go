package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/cadence/internal/models"
)

type memStore struct {
	mu          sync.Mutex
	settings    models.Settings
	templates   map[string]models.Template
	exceptions  map[string]models.Exception
	occurrences map[string]models.Occurrence
	log         []models.NotificationLogEntry
	days        map[string]models.Day

	failTemplates error
}

func newMemStore() *memStore {
	s := models.DefaultSettings()
	s.Timezone = "UTC"
	s.WakeEstimate = "08:00"
	return &memStore{
		settings:    s,
		templates:   map[string]models.Template{},
		exceptions:  map[string]models.Exception{},
		occurrences: map[string]models.Occurrence{},
		days:        map[string]models.Day{},
	}
}

func (m *memStore) GetSettings() (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *memStore) ListActiveTemplates() ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTemplates != nil {
		return nil, m.failTemplates
	}
	var out []models.Template
	for _, t := range m.templates {
		if t.Expandable() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListExceptions(start, end string) ([]models.Exception, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Exception
	for _, e := range m.exceptions {
		if e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) AddException(e models.Exception) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exceptions[e.TemplateID+"|"+e.Date] = e
	return nil
}

func (m *memStore) GetOccurrence(id string) (models.Occurrence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.occurrences[id]
	if !ok {
		return models.Occurrence{}, fmt.Errorf("occurrence %s: %w", id, models.ErrNotFound)
	}
	return o, nil
}

func (m *memStore) GetOccurrencesForDate(date string) ([]models.Occurrence, error) {
	return m.GetOccurrencesInRange(date, date)
}

func (m *memStore) GetOccurrencesInRange(start, end string) ([]models.Occurrence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Occurrence
	for _, o := range m.occurrences {
		if o.Date >= start && o.Date <= end {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpsertOccurrence(o models.Occurrence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.occurrences[o.ID]; ok {
		o.CreatedAt = prev.CreatedAt
	}
	m.occurrences[o.ID] = o
	return nil
}

func (m *memStore) ReplaceOccurrences(date string, source models.Source, occs []models.Occurrence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	keep := make(map[string]bool, len(occs))
	for _, o := range occs {
		keep[o.ID] = true
	}
	for id, o := range m.occurrences {
		if o.Date == date && o.Source == source && !keep[id] {
			delete(m.occurrences, id)
		}
	}
	for _, o := range occs {
		if prev, ok := m.occurrences[o.ID]; ok {
			o.Status = prev.Status
			o.SnoozeUntil = prev.SnoozeUntil
			o.CreatedAt = prev.CreatedAt
			o.UpdatedAt = prev.UpdatedAt
		}
		m.occurrences[o.ID] = o
	}
	return nil
}

func (m *memStore) DeleteOccurrence(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.occurrences[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.occurrences, id)
	return nil
}

func (m *memStore) GetNotificationsSentOn(date string) ([]models.NotificationLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.NotificationLogEntry
	for _, e := range m.log {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CountNotificationsSentOn(date string) (int, error) {
	entries, _ := m.GetNotificationsSentOn(date)
	n := 0
	for _, e := range entries {
		if e.Class != models.ClassSummary {
			n++
		}
	}
	return n, nil
}

func (m *memStore) PruneNotificationLog(before string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []models.NotificationLogEntry
	for _, e := range m.log {
		if e.Date >= before {
			kept = append(kept, e)
		}
	}
	n := int64(len(m.log) - len(kept))
	m.log = kept
	return n, nil
}

func (m *memStore) GetDay(date string) (models.Day, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.days[date]
	if !ok {
		return models.Day{}, models.ErrNotFound
	}
	return d, nil
}

func (m *memStore) SaveDay(d models.Day) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[d.Date] = d
	return nil
}

func (m *memStore) appendLog(e models.NotificationLogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = int64(len(m.log) + 1)
	m.log = append(m.log, e)
}

// recorder logs every request it accepts to the store, like the real dispatcher.
type recorder struct {
	store    *memStore
	clock    *clock
	requests []DeliveryRequest
	fail     map[string]bool
}

func (r *recorder) Deliver(_ context.Context, req DeliveryRequest) error {
	if r.fail[req.OccurrenceID] {
		return errors.New("tray unreachable")
	}
	r.requests = append(r.requests, req)
	r.store.appendLog(models.NotificationLogEntry{
		OccurrenceID: req.OccurrenceID,
		Class:        req.Class,
		SentAt:       r.clock.now(),
		Date:         req.Date,
	})
	return nil
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) set(h, m int) {
	c.t = time.Date(c.t.Year(), c.t.Month(), c.t.Day(), h, m, 0, 0, time.UTC)
}
