package sqlstore

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/models"
)

// AppendNotificationLog records a delivered notification and returns its id.
func (s *Store) AppendNotificationLog(e models.NotificationLogEntry) (int64, error) {
	var id int64
	err := s.queryRow(`
		INSERT INTO notification_log (occurrence_id, class, sent_at, date)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, e.OccurrenceID, string(e.Class), formatTime(e.SentAt), e.Date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to append notification log: %w", err)
	}
	return id, nil
}

// GetNotificationsSentOn returns the log entries for date in send order.
func (s *Store) GetNotificationsSentOn(date string) ([]models.NotificationLogEntry, error) {
	rows, err := s.query(`
		SELECT id, occurrence_id, class, sent_at, date
		FROM notification_log
		WHERE date = ?
		ORDER BY sent_at ASC, id ASC
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification log: %w", err)
	}
	defer rows.Close()

	var entries []models.NotificationLogEntry
	for rows.Next() {
		var e models.NotificationLogEntry
		var class, sentAt string
		if err := rows.Scan(&e.ID, &e.OccurrenceID, &class, &sentAt, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan notification log: %w", err)
		}
		e.Class = models.NotificationClass(class)
		if e.SentAt, err = parseTime("sent_at", sentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountNotificationsSentOn counts the entries on date that consume the daily
// budget.
func (s *Store) CountNotificationsSentOn(date string) (int, error) {
	var n int
	err := s.queryRow(
		"SELECT COUNT(*) FROM notification_log WHERE date = ? AND class <> ?",
		date, string(models.ClassSummary),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// PruneNotificationLog deletes entries dated before the given date.
func (s *Store) PruneNotificationLog(before string) (int64, error) {
	res, err := s.exec("DELETE FROM notification_log WHERE date < ?", before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune notification log: %w", err)
	}
	return res.RowsAffected()
}
