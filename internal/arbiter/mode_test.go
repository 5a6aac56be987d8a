package arbiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/cadence/internal/models"
)

func TestCalculateMode(t *testing.T) {
	tests := []struct {
		name      string
		adherence float64
		snoozes   int
		missed    int
		busy      bool
		want      models.Mode
	}{
		{"all clear", 0.9, 0, 0, false, models.ModeNormal},
		{"busy", 0.9, 0, 0, true, models.ModeBusy},
		{"snoozing", 0.9, 3, 0, false, models.ModeLowMood},
		{"two snoozes is not enough", 0.9, 2, 0, false, models.ModeNormal},
		{"missed core", 0.9, 0, 2, false, models.ModeRecovery},
		{"low adherence", 0.39, 0, 0, false, models.ModeRecovery},
		{"adherence at floor is fine", 0.4, 0, 0, false, models.ModeNormal},
		{"recovery beats low mood and busy", 0.2, 5, 0, true, models.ModeRecovery},
		{"low mood beats busy", 0.9, 3, 1, true, models.ModeLowMood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateMode(tt.adherence, tt.snoozes, tt.missed, tt.busy))
		})
	}
}

func at(h, m int) *time.Time {
	t := time.Date(2026, 1, 14, h, m, 0, 0, time.UTC)
	return &t
}

func TestDeriveSignals(t *testing.T) {
	now := *at(20, 0)

	t.Run("no history", func(t *testing.T) {
		sig := DeriveSignals(nil, false, now)
		assert.Equal(t, 1.0, sig.AdherenceRate)
		assert.Zero(t, sig.ConsecutiveSnoozes)
		assert.Zero(t, sig.MissedCoreCount)
		assert.Equal(t, models.ModeNormal, sig.Mode())
	})

	t.Run("mixed history", func(t *testing.T) {
		history := []models.Occurrence{
			{ID: "a", Status: models.StatusDone, Start: at(7, 0), End: at(8, 0)},
			{ID: "b", Status: models.StatusPending, IsCore: true, Start: at(9, 0), End: at(10, 0)},
			{ID: "c", Status: models.StatusSkipped, IsCore: true, Start: at(11, 0), End: at(12, 0)},
			{ID: "d", Status: models.StatusDone, Start: at(13, 0), End: at(14, 0)},
			{ID: "e", Status: models.StatusPending, Start: at(21, 0), End: at(22, 0)},
		}
		sig := DeriveSignals(history, true, now)
		assert.InDelta(t, 0.5, sig.AdherenceRate, 1e-9)
		assert.Equal(t, 2, sig.MissedCoreCount)
		assert.True(t, sig.Busy)
		assert.Equal(t, models.ModeRecovery, sig.Mode())
	})

	t.Run("snooze streak stops at first non-snoozed item", func(t *testing.T) {
		history := []models.Occurrence{
			{ID: "a", Status: models.StatusSnoozed, Start: at(8, 0)},
			{ID: "b", Status: models.StatusDone, Start: at(9, 0), End: at(10, 0)},
			{ID: "c", Status: models.StatusSnoozed, Start: at(11, 0)},
			{ID: "d", Status: models.StatusSnoozed, Start: at(12, 0)},
			{ID: "e", Status: models.StatusSnoozed, Start: at(13, 0)},
		}
		sig := DeriveSignals(history, false, now)
		assert.Equal(t, 3, sig.ConsecutiveSnoozes)
		assert.Equal(t, models.ModeLowMood, sig.Mode())
	})
}

func TestDeriveSignals_IgnoresBackfilledOpenItems(t *testing.T) {
	now := *at(20, 0)
	history := []models.Occurrence{
		// Expanded at 12:00 for a morning window: never actionable.
		{ID: "a", IsCore: true, Status: models.StatusPending, Start: at(7, 0), End: at(8, 0), CreatedAt: *at(12, 0)},
		{ID: "b", IsCore: true, Status: models.StatusPending, Start: at(8, 0), End: at(9, 0), CreatedAt: *at(12, 0)},
		// Skipped on purpose still counts.
		{ID: "c", Status: models.StatusSkipped, Start: at(9, 0), End: at(10, 0), CreatedAt: *at(12, 0)},
		{ID: "d", Status: models.StatusDone, Start: at(13, 0), End: at(14, 0), CreatedAt: *at(12, 0)},
	}

	sig := DeriveSignals(history, false, now)
	assert.Zero(t, sig.MissedCoreCount)
	assert.InDelta(t, 0.5, sig.AdherenceRate, 1e-9)
	assert.Equal(t, models.ModeNormal, sig.Mode())
}

func TestDeriveSignals_SkippedCoreItemsCountAsMissed(t *testing.T) {
	now := *at(20, 0)
	history := []models.Occurrence{
		{ID: "meds", Status: models.StatusSkipped, IsCore: true, Start: at(8, 0), End: at(9, 0)},
		{ID: "walk", Status: models.StatusSkipped, IsCore: true, Start: at(10, 0), End: at(11, 0)},
		{ID: "tea", Status: models.StatusSkipped, Start: at(15, 0), End: at(16, 0)},
		{ID: "stretch", Status: models.StatusDone, IsCore: true, Start: at(12, 0), End: at(13, 0)},
		{ID: "read", Status: models.StatusDone, Start: at(17, 0), End: at(18, 0)},
	}

	sig := DeriveSignals(history, false, now)
	assert.Equal(t, 2, sig.MissedCoreCount, "skipped non-core items are not counted")
	assert.InDelta(t, 0.4, sig.AdherenceRate, 1e-9)
	assert.Equal(t, models.ModeRecovery, sig.Mode())
}
