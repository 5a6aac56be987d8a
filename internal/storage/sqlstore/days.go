package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/cadence/internal/models"
)

func (s *Store) GetDay(date string) (models.Day, error) {
	var d models.Day
	var mode, updatedAt string
	err := s.queryRow(`
		SELECT date, mode, busy, adherence_rate, consecutive_snoozes, missed_core_count, updated_at
		FROM days
		WHERE date = ?
	`, date).Scan(&d.Date, &mode, &d.Busy, &d.AdherenceRate, &d.ConsecutiveSnoozes, &d.MissedCoreCount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Day{}, fmt.Errorf("day %s: %w", date, models.ErrNotFound)
	}
	if err != nil {
		return models.Day{}, fmt.Errorf("failed to get day: %w", err)
	}

	d.Mode = models.Mode(mode)
	if d.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Day{}, err
	}
	return d, nil
}

func (s *Store) SaveDay(d models.Day) error {
	_, err := s.exec(`
		INSERT INTO days (date, mode, busy, adherence_rate, consecutive_snoozes, missed_core_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			mode = excluded.mode,
			busy = excluded.busy,
			adherence_rate = excluded.adherence_rate,
			consecutive_snoozes = excluded.consecutive_snoozes,
			missed_core_count = excluded.missed_core_count,
			updated_at = excluded.updated_at
	`, d.Date, string(d.Mode), d.Busy, d.AdherenceRate, d.ConsecutiveSnoozes, d.MissedCoreCount, formatTime(d.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save day: %w", err)
	}
	return nil
}
