package sqlstore

import (
	"fmt"

	"github.com/julianstephens/cadence/internal/models"
)

// AddException records that a template must not expand on a date. Adding the
// same exception twice is a no-op.
func (s *Store) AddException(e models.Exception) error {
	_, err := s.exec(`
		INSERT INTO template_exceptions (template_id, date, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (template_id, date) DO NOTHING
	`, e.TemplateID, e.Date, formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert exception: %w", err)
	}
	return nil
}

func (s *Store) RemoveException(templateID, date string) error {
	res, err := s.exec("DELETE FROM template_exceptions WHERE template_id = ? AND date = ?", templateID, date)
	if err != nil {
		return fmt.Errorf("failed to delete exception: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("exception %s on %s: %w", templateID, date, models.ErrNotFound)
	}
	return nil
}

// ListExceptions returns exceptions with dates in [start, end].
func (s *Store) ListExceptions(start, end string) ([]models.Exception, error) {
	rows, err := s.query(`
		SELECT template_id, date, created_at
		FROM template_exceptions
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, template_id ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []models.Exception
	for rows.Next() {
		var e models.Exception
		var createdAt string
		if err := rows.Scan(&e.TemplateID, &e.Date, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan exception: %w", err)
		}
		if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, e)
	}
	return exceptions, rows.Err()
}
