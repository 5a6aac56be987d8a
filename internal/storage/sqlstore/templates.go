package sqlstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
)

const templateColumns = `id, title, category, subtype, is_core, anchor,
	start_offset_min, end_offset_min,
	recurrence_type, recurrence_weekdays, recurrence_month_day,
	active, archived, created_at, updated_at`

func (s *Store) AddTemplate(t models.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	weekdays, err := json.Marshal(t.Recurrence.Weekdays)
	if err != nil {
		return fmt.Errorf("failed to marshal weekdays: %w", err)
	}

	_, err = s.exec(`
		INSERT INTO templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, t.Title, string(t.Category), t.Subtype, t.IsCore, string(t.Anchor),
		t.StartOffsetMin, t.EndOffsetMin,
		string(t.Recurrence.Type), string(weekdays), t.Recurrence.MonthDay,
		t.Active, t.Archived, formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}
	return nil
}

func (s *Store) UpdateTemplate(t models.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	weekdays, err := json.Marshal(t.Recurrence.Weekdays)
	if err != nil {
		return fmt.Errorf("failed to marshal weekdays: %w", err)
	}

	res, err := s.exec(`
		UPDATE templates SET
			title = ?, category = ?, subtype = ?, is_core = ?, anchor = ?,
			start_offset_min = ?, end_offset_min = ?,
			recurrence_type = ?, recurrence_weekdays = ?, recurrence_month_day = ?,
			active = ?, archived = ?, updated_at = ?
		WHERE id = ?
	`,
		t.Title, string(t.Category), t.Subtype, t.IsCore, string(t.Anchor),
		t.StartOffsetMin, t.EndOffsetMin,
		string(t.Recurrence.Type), string(weekdays), t.Recurrence.MonthDay,
		t.Active, t.Archived, formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("template %s: %w", t.ID, models.ErrNotFound)
	}
	return nil
}

func (s *Store) GetTemplate(id string) (models.Template, error) {
	row := s.queryRow("SELECT "+templateColumns+" FROM templates WHERE id = ?", id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Template{}, fmt.Errorf("template %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Template{}, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

// GetAllTemplates lists templates ordered by title.
func (s *Store) GetAllTemplates(includeArchived bool) ([]models.Template, error) {
	if includeArchived {
		return s.listTemplates("SELECT " + templateColumns + " FROM templates ORDER BY title ASC")
	}
	return s.listTemplates("SELECT "+templateColumns+" FROM templates WHERE archived = ? ORDER BY title ASC", false)
}

// ListActiveTemplates returns the templates that take part in expansion.
func (s *Store) ListActiveTemplates() ([]models.Template, error) {
	return s.listTemplates("SELECT "+templateColumns+" FROM templates WHERE active = ? AND archived = ? ORDER BY id ASC", true, false)
}

func (s *Store) listTemplates(query string, args ...any) ([]models.Template, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (models.Template, error) {
	var t models.Template
	var category, anchor, recurrenceType, weekdays, createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.Title, &category, &t.Subtype, &t.IsCore, &anchor,
		&t.StartOffsetMin, &t.EndOffsetMin,
		&recurrenceType, &weekdays, &t.Recurrence.MonthDay,
		&t.Active, &t.Archived, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Template{}, err
	}

	t.Category = models.Category(category)
	t.Anchor = models.Anchor(anchor)
	t.Recurrence.Type = models.RecurrenceType(recurrenceType)

	// A corrupt weekday list must not fail the whole expansion pass; the
	// template simply never matches.
	if err := json.Unmarshal([]byte(weekdays), &t.Recurrence.Weekdays); err != nil {
		logger.Warn("Ignoring malformed template weekdays", "template", t.ID, "value", weekdays, "error", err)
		t.Recurrence.Weekdays = []int{}
	}

	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Template{}, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Template{}, err
	}
	return t, nil
}
