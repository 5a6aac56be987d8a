package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func ts(h, m int) time.Time {
	return time.Date(2026, 1, 14, h, m, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func TestInitAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cadence.db")

	missing := NewStore(path)
	if err := missing.Load(); err == nil {
		t.Error("Load() on a missing database should fail")
	}

	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if settings.DailyBudget != constants.DefaultDailyBudget {
		t.Errorf("DailyBudget = %d, want default %d", settings.DailyBudget, constants.DefaultDailyBudget)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() after Init failed: %v", err)
	}
	defer reopened.Close()
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q", reopened.GetConfigPath())
	}
}

func TestSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	settings.DailyBudget = 0
	settings.QuietHoursStart = "21:30"
	settings.NotificationsEnabled = false
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if got != settings {
		t.Errorf("settings mismatch: got %+v, want %+v", got, settings)
	}
}

func sampleTemplate(id string) models.Template {
	return models.Template{
		ID:             id,
		Title:          "Stretch " + id,
		Category:       models.CategoryRoutine,
		IsCore:         true,
		Anchor:         models.AnchorWake,
		StartOffsetMin: 15,
		EndOffsetMin:   45,
		Recurrence:     models.Recurrence{Type: models.RecurrenceWeekly, Weekdays: []int{1, 3, 5}},
		Active:         true,
		CreatedAt:      ts(6, 0),
		UpdatedAt:      ts(6, 0),
	}
}

func TestTemplates(t *testing.T) {
	store := setupTestStore(t)

	tmpl := sampleTemplate("a")
	if err := store.AddTemplate(tmpl); err != nil {
		t.Fatalf("AddTemplate() failed: %v", err)
	}
	if err := store.AddTemplate(models.Template{ID: "bad"}); err == nil {
		t.Error("AddTemplate() should validate")
	}

	got, err := store.GetTemplate("a")
	if err != nil {
		t.Fatalf("GetTemplate() failed: %v", err)
	}
	if got.Title != tmpl.Title || got.Anchor != tmpl.Anchor || !got.IsCore || !got.Active {
		t.Errorf("template mismatch: %+v", got)
	}
	if len(got.Recurrence.Weekdays) != 3 || got.Recurrence.Weekdays[2] != 5 {
		t.Errorf("weekdays = %v", got.Recurrence.Weekdays)
	}
	if !got.CreatedAt.Equal(tmpl.CreatedAt) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}

	if _, err := store.GetTemplate("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetTemplate(missing) error = %v, want ErrNotFound", err)
	}

	paused := sampleTemplate("b")
	paused.Active = false
	archived := sampleTemplate("c")
	archived.Archived = true
	for _, tm := range []models.Template{paused, archived} {
		if err := store.AddTemplate(tm); err != nil {
			t.Fatalf("AddTemplate(%s) failed: %v", tm.ID, err)
		}
	}

	active, err := store.ListActiveTemplates()
	if err != nil {
		t.Fatalf("ListActiveTemplates() failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != "a" {
		t.Errorf("active templates = %+v", active)
	}

	visible, _ := store.GetAllTemplates(false)
	all, _ := store.GetAllTemplates(true)
	if len(visible) != 2 || len(all) != 3 {
		t.Errorf("GetAllTemplates: visible=%d all=%d", len(visible), len(all))
	}

	got.Archived = true
	got.UpdatedAt = ts(7, 0)
	if err := store.UpdateTemplate(got); err != nil {
		t.Fatalf("UpdateTemplate() failed: %v", err)
	}
	active, _ = store.ListActiveTemplates()
	if len(active) != 0 {
		t.Errorf("archived template still active: %+v", active)
	}

	ghost := sampleTemplate("ghost")
	if err := store.UpdateTemplate(ghost); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateTemplate(ghost) error = %v, want ErrNotFound", err)
	}
}

func TestTemplates_MalformedWeekdaysNeverMatch(t *testing.T) {
	store := setupTestStore(t)
	if err := store.AddTemplate(sampleTemplate("a")); err != nil {
		t.Fatalf("AddTemplate() failed: %v", err)
	}
	if _, err := store.DB().Exec("UPDATE templates SET recurrence_weekdays = 'not json' WHERE id = 'a'"); err != nil {
		t.Fatalf("failed to corrupt weekdays: %v", err)
	}

	got, err := store.GetTemplate("a")
	if err != nil {
		t.Fatalf("GetTemplate() failed: %v", err)
	}
	if len(got.Recurrence.Weekdays) != 0 {
		t.Errorf("weekdays = %v, want empty", got.Recurrence.Weekdays)
	}
}

func TestExceptions(t *testing.T) {
	store := setupTestStore(t)

	e := models.Exception{TemplateID: "a", Date: "2026-01-14", CreatedAt: ts(9, 0)}
	if err := store.AddException(e); err != nil {
		t.Fatalf("AddException() failed: %v", err)
	}
	if err := store.AddException(e); err != nil {
		t.Fatalf("AddException() should be idempotent: %v", err)
	}
	if err := store.AddException(models.Exception{TemplateID: "a", Date: "2026-02-01", CreatedAt: ts(9, 0)}); err != nil {
		t.Fatalf("AddException() failed: %v", err)
	}

	got, err := store.ListExceptions("2026-01-13", "2026-01-21")
	if err != nil {
		t.Fatalf("ListExceptions() failed: %v", err)
	}
	if len(got) != 1 || got[0].Date != "2026-01-14" {
		t.Errorf("exceptions = %+v", got)
	}

	if err := store.RemoveException("a", "2026-01-14"); err != nil {
		t.Fatalf("RemoveException() failed: %v", err)
	}
	if err := store.RemoveException("a", "2026-01-14"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second RemoveException() error = %v, want ErrNotFound", err)
	}
}

func TestOccurrences(t *testing.T) {
	store := setupTestStore(t)

	timed := models.Occurrence{
		ID: "a_2026-01-14", TemplateID: "a", Date: "2026-01-14", Title: "Meds",
		Category: models.CategoryRoutine, IsCore: true,
		Start: ptr(ts(8, 0)), End: ptr(ts(9, 0)),
		Status: models.StatusPending, Source: models.SourceTemplate,
		CreatedAt: ts(0, 5), UpdatedAt: ts(0, 5),
	}
	anytime := models.Occurrence{
		ID: "manual-1", Date: "2026-01-14", Title: "Call mom",
		Status: models.StatusPending, Source: models.SourceManual,
		CreatedAt: ts(7, 0), UpdatedAt: ts(7, 0),
	}
	for _, o := range []models.Occurrence{anytime, timed} {
		if err := store.UpsertOccurrence(o); err != nil {
			t.Fatalf("UpsertOccurrence(%s) failed: %v", o.ID, err)
		}
	}

	got, err := store.GetOccurrencesForDate("2026-01-14")
	if err != nil {
		t.Fatalf("GetOccurrencesForDate() failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != timed.ID || got[1].ID != anytime.ID {
		t.Fatalf("order = %+v, want timed first", got)
	}
	if got[1].Start != nil || got[1].End != nil || got[1].TemplateID != "" {
		t.Errorf("anytime item round trip: %+v", got[1])
	}
	if !got[0].Start.Equal(ts(8, 0)) || !got[0].End.Equal(ts(9, 0)) {
		t.Errorf("timed window = %v-%v", got[0].Start, got[0].End)
	}

	timed.Status = models.StatusSnoozed
	timed.SnoozeUntil = ptr(ts(8, 30))
	timed.CreatedAt = ts(12, 0)
	timed.UpdatedAt = ts(8, 10)
	if err := store.UpsertOccurrence(timed); err != nil {
		t.Fatalf("UpsertOccurrence(update) failed: %v", err)
	}
	updated, err := store.GetOccurrence(timed.ID)
	if err != nil {
		t.Fatalf("GetOccurrence() failed: %v", err)
	}
	if updated.Status != models.StatusSnoozed || updated.SnoozeUntil == nil || !updated.SnoozeUntil.Equal(ts(8, 30)) {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(ts(0, 5)) {
		t.Errorf("CreatedAt changed on upsert: %v", updated.CreatedAt)
	}

	if err := store.DeleteOccurrence("manual-1"); err != nil {
		t.Fatalf("DeleteOccurrence() failed: %v", err)
	}
	if _, err := store.GetOccurrence("manual-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetOccurrence(deleted) error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteOccurrence("manual-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeleteOccurrence(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestReplaceOccurrences_LeavesOtherSources(t *testing.T) {
	store := setupTestStore(t)

	manual := models.Occurrence{
		ID: "manual-1", Date: "2026-01-14", Title: "Manual", Status: models.StatusPending,
		Source: models.SourceManual, CreatedAt: ts(7, 0), UpdatedAt: ts(7, 0),
	}
	stale := models.Occurrence{
		ID: "old_2026-01-14", TemplateID: "old", Date: "2026-01-14", Title: "Old", Status: models.StatusPending,
		Source: models.SourceTemplate, CreatedAt: ts(0, 5), UpdatedAt: ts(0, 5),
	}
	otherDay := stale
	otherDay.ID = "old_2026-01-15"
	otherDay.Date = "2026-01-15"
	for _, o := range []models.Occurrence{manual, stale, otherDay} {
		if err := store.UpsertOccurrence(o); err != nil {
			t.Fatalf("UpsertOccurrence(%s) failed: %v", o.ID, err)
		}
	}

	fresh := models.Occurrence{
		ID: "new_2026-01-14", TemplateID: "new", Date: "2026-01-14", Title: "New", Status: models.StatusPending,
		Source: models.SourceTemplate, CreatedAt: ts(0, 6), UpdatedAt: ts(0, 6),
	}
	if err := store.ReplaceOccurrences("2026-01-14", models.SourceTemplate, []models.Occurrence{fresh}); err != nil {
		t.Fatalf("ReplaceOccurrences() failed: %v", err)
	}

	day, _ := store.GetOccurrencesForDate("2026-01-14")
	ids := map[string]bool{}
	for _, o := range day {
		ids[o.ID] = true
	}
	if !ids["manual-1"] || !ids["new_2026-01-14"] || ids["old_2026-01-14"] || len(day) != 2 {
		t.Errorf("unexpected occurrences after replace: %v", ids)
	}

	next, _ := store.GetOccurrencesForDate("2026-01-15")
	if len(next) != 1 {
		t.Errorf("other dates must not be touched, got %d", len(next))
	}

	if err := store.DeleteOccurrencesBySource("2026-01-15", models.SourceTemplate); err != nil {
		t.Fatalf("DeleteOccurrencesBySource() failed: %v", err)
	}
	next, _ = store.GetOccurrencesForDate("2026-01-15")
	if len(next) != 0 {
		t.Errorf("DeleteOccurrencesBySource left %d items", len(next))
	}

	ranged, err := store.GetOccurrencesInRange("2026-01-13", "2026-01-15")
	if err != nil {
		t.Fatalf("GetOccurrencesInRange() failed: %v", err)
	}
	if len(ranged) != 2 {
		t.Errorf("range = %d items, want 2", len(ranged))
	}
}

func TestReplaceOccurrences_KeepsUserState(t *testing.T) {
	store := setupTestStore(t)

	occ := models.Occurrence{
		ID: "meds_2026-01-14", TemplateID: "meds", Date: "2026-01-14", Title: "Meds", Status: models.StatusPending,
		Start: ptr(ts(8, 0)), End: ptr(ts(9, 0)), Source: models.SourceTemplate, CreatedAt: ts(0, 5), UpdatedAt: ts(0, 5),
	}
	if err := store.ReplaceOccurrences("2026-01-14", models.SourceTemplate, []models.Occurrence{occ}); err != nil {
		t.Fatalf("ReplaceOccurrences() failed: %v", err)
	}

	snoozed := occ
	snoozed.Status = models.StatusSnoozed
	snoozed.SnoozeUntil = ptr(ts(8, 30))
	snoozed.UpdatedAt = ts(8, 10)
	if err := store.UpsertOccurrence(snoozed); err != nil {
		t.Fatalf("UpsertOccurrence() failed: %v", err)
	}

	// A pass built from a stale read still carries the pending status.
	moved := occ
	moved.Title = "Morning meds"
	moved.Start, moved.End = ptr(ts(8, 30)), ptr(ts(9, 30))
	moved.CreatedAt, moved.UpdatedAt = ts(9, 0), ts(9, 0)
	if err := store.ReplaceOccurrences("2026-01-14", models.SourceTemplate, []models.Occurrence{moved}); err != nil {
		t.Fatalf("ReplaceOccurrences() failed: %v", err)
	}

	got, err := store.GetOccurrence(occ.ID)
	if err != nil {
		t.Fatalf("GetOccurrence() failed: %v", err)
	}
	if got.Status != models.StatusSnoozed || got.SnoozeUntil == nil || !got.SnoozeUntil.Equal(ts(8, 30)) {
		t.Errorf("user state lost: status=%s snooze=%v", got.Status, got.SnoozeUntil)
	}
	if !got.CreatedAt.Equal(ts(0, 5)) || !got.UpdatedAt.Equal(ts(8, 10)) {
		t.Errorf("timestamps rewritten: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}
	if got.Title != "Morning meds" || !got.Start.Equal(ts(8, 30)) {
		t.Errorf("schedule fields not updated: %q %v", got.Title, got.Start)
	}

	if err := store.ReplaceOccurrences("2026-01-14", models.SourceTemplate, nil); err != nil {
		t.Fatalf("ReplaceOccurrences(nil) failed: %v", err)
	}
	if _, err := store.GetOccurrence(occ.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("empty set should clear the date, got %v", err)
	}
}

func TestGetOccurrencesForDate_OrdersByInstantAcrossDSTFallBack(t *testing.T) {
	store := setupTestStore(t)
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 01:30 EDT happens before the repeated 01:10 EST.
	firstPass := time.Date(2026, 11, 1, 5, 30, 0, 0, time.UTC).In(loc)
	secondPass := time.Date(2026, 11, 1, 6, 10, 0, 0, time.UTC).In(loc)
	for _, o := range []models.Occurrence{
		{ID: "b", Date: "2026-11-01", Title: "Second", Start: ptr(secondPass), Status: models.StatusPending,
			Source: models.SourceManual, CreatedAt: firstPass, UpdatedAt: firstPass},
		{ID: "a", Date: "2026-11-01", Title: "First", Start: ptr(firstPass), Status: models.StatusPending,
			Source: models.SourceManual, CreatedAt: firstPass, UpdatedAt: firstPass},
	} {
		if err := store.UpsertOccurrence(o); err != nil {
			t.Fatalf("UpsertOccurrence(%s) failed: %v", o.ID, err)
		}
	}

	day, err := store.GetOccurrencesForDate("2026-11-01")
	if err != nil {
		t.Fatalf("GetOccurrencesForDate() failed: %v", err)
	}
	if len(day) != 2 || day[0].Title != "First" || day[1].Title != "Second" {
		t.Fatalf("unexpected order: %+v", day)
	}
	if !day[0].Start.Equal(firstPass) {
		t.Errorf("start = %v, want %v", day[0].Start, firstPass)
	}
}

func TestNotificationLog(t *testing.T) {
	store := setupTestStore(t)

	entries := []models.NotificationLogEntry{
		{OccurrenceID: "a", Class: models.ClassCore, SentAt: ts(8, 0), Date: "2026-01-14"},
		{OccurrenceID: "b", Class: models.ClassSoft, SentAt: ts(9, 0), Date: "2026-01-14"},
		{OccurrenceID: "c", Class: models.ClassSummary, SentAt: ts(9, 5), Date: "2026-01-14"},
		{OccurrenceID: "d", Class: models.ClassSoft, SentAt: ts(9, 0), Date: "2025-12-01"},
	}
	var lastID int64
	for _, e := range entries {
		id, err := store.AppendNotificationLog(e)
		if err != nil {
			t.Fatalf("AppendNotificationLog() failed: %v", err)
		}
		if id <= lastID {
			t.Errorf("ids not increasing: %d after %d", id, lastID)
		}
		lastID = id
	}

	n, err := store.CountNotificationsSentOn("2026-01-14")
	if err != nil {
		t.Fatalf("CountNotificationsSentOn() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2 (summary excluded)", n)
	}

	sent, err := store.GetNotificationsSentOn("2026-01-14")
	if err != nil {
		t.Fatalf("GetNotificationsSentOn() failed: %v", err)
	}
	if len(sent) != 3 || sent[0].OccurrenceID != "a" || sent[2].Class != models.ClassSummary {
		t.Errorf("entries = %+v", sent)
	}

	pruned, err := store.PruneNotificationLog("2025-12-15")
	if err != nil {
		t.Fatalf("PruneNotificationLog() failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
}

func TestDays(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.GetDay("2026-01-14"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetDay(missing) error = %v, want ErrNotFound", err)
	}

	day := models.Day{
		Date: "2026-01-14", Mode: models.ModeLowMood, Busy: true,
		AdherenceRate: 0.75, ConsecutiveSnoozes: 3, MissedCoreCount: 1, UpdatedAt: ts(10, 0),
	}
	if err := store.SaveDay(day); err != nil {
		t.Fatalf("SaveDay() failed: %v", err)
	}
	day.Mode = models.ModeRecovery
	if err := store.SaveDay(day); err != nil {
		t.Fatalf("SaveDay(update) failed: %v", err)
	}

	got, err := store.GetDay("2026-01-14")
	if err != nil {
		t.Fatalf("GetDay() failed: %v", err)
	}
	if got.Mode != models.ModeRecovery || !got.Busy || got.AdherenceRate != 0.75 || got.ConsecutiveSnoozes != 3 {
		t.Errorf("day = %+v", got)
	}
}
