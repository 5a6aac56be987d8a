package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/cadence/internal/models"
)

const occurrenceColumns = `id, template_id, date, title, category, is_core,
	start_at, end_at, status, snooze_until, source, created_at, updated_at`

const upsertOccurrence = `
	INSERT INTO occurrences (` + occurrenceColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		template_id = excluded.template_id,
		date = excluded.date,
		title = excluded.title,
		category = excluded.category,
		is_core = excluded.is_core,
		start_at = excluded.start_at,
		end_at = excluded.end_at,
		status = excluded.status,
		snooze_until = excluded.snooze_until,
		source = excluded.source,
		updated_at = excluded.updated_at
`

// mergeOccurrence rewrites the schedule fields of an existing row and keeps
// the state a user owns.
const mergeOccurrence = `
	INSERT INTO occurrences (` + occurrenceColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		template_id = excluded.template_id,
		date = excluded.date,
		title = excluded.title,
		category = excluded.category,
		is_core = excluded.is_core,
		start_at = excluded.start_at,
		end_at = excluded.end_at,
		source = excluded.source
`

func occurrenceArgs(o models.Occurrence) []any {
	return []any{
		o.ID, nullString(o.TemplateID), o.Date, o.Title, string(o.Category), o.IsCore,
		formatTimePtr(o.Start), formatTimePtr(o.End), string(o.Status), formatTimePtr(o.SnoozeUntil),
		string(o.Source), formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	}
}

// UpsertOccurrence inserts or replaces an occurrence by id. The original
// creation time is kept on update.
func (s *Store) UpsertOccurrence(o models.Occurrence) error {
	if _, err := s.exec(upsertOccurrence, occurrenceArgs(o)...); err != nil {
		return fmt.Errorf("failed to upsert occurrence %s: %w", o.ID, err)
	}
	return nil
}

// ReplaceOccurrences makes occs the full set of source occurrences on date in
// one transaction. Rows not in occs are deleted. Rows already present keep
// their status, snooze and timestamps; only the schedule fields are rewritten.
func (s *Store) ReplaceOccurrences(date string, source models.Source, occs []models.Occurrence) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := "DELETE FROM occurrences WHERE date = ? AND source = ?"
	args := []any{date, string(source)}
	if len(occs) > 0 {
		query += " AND id NOT IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(occs)), ", ") + ")"
		for _, o := range occs {
			args = append(args, o.ID)
		}
	}
	if _, err := tx.Exec(s.rebind(query), args...); err != nil {
		return fmt.Errorf("failed to clear %s occurrences for %s: %w", source, date, err)
	}

	stmt, err := tx.Prepare(s.rebind(mergeOccurrence))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range occs {
		if _, err := stmt.Exec(occurrenceArgs(o)...); err != nil {
			return fmt.Errorf("failed to write occurrence %s: %w", o.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) DeleteOccurrencesBySource(date string, source models.Source) error {
	if _, err := s.exec("DELETE FROM occurrences WHERE date = ? AND source = ?", date, string(source)); err != nil {
		return fmt.Errorf("failed to delete %s occurrences for %s: %w", source, date, err)
	}
	return nil
}

func (s *Store) DeleteOccurrence(id string) error {
	res, err := s.exec("DELETE FROM occurrences WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete occurrence: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("occurrence %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *Store) GetOccurrence(id string) (models.Occurrence, error) {
	row := s.queryRow("SELECT "+occurrenceColumns+" FROM occurrences WHERE id = ?", id)
	o, err := scanOccurrence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Occurrence{}, fmt.Errorf("occurrence %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Occurrence{}, fmt.Errorf("failed to get occurrence: %w", err)
	}
	return o, nil
}

// GetOccurrencesForDate returns the occurrences of one day, timed items first
// in start order.
func (s *Store) GetOccurrencesForDate(date string) ([]models.Occurrence, error) {
	return s.GetOccurrencesInRange(date, date)
}

// GetOccurrencesInRange returns occurrences dated within [start, end].
func (s *Store) GetOccurrencesInRange(start, end string) ([]models.Occurrence, error) {
	rows, err := s.query(`
		SELECT `+occurrenceColumns+`
		FROM occurrences
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, CASE WHEN start_at IS NULL THEN 1 ELSE 0 END, start_at ASC, id ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query occurrences: %w", err)
	}
	defer rows.Close()

	var occs []models.Occurrence
	for rows.Next() {
		o, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan occurrence: %w", err)
		}
		occs = append(occs, o)
	}
	return occs, rows.Err()
}

func scanOccurrence(row scanner) (models.Occurrence, error) {
	var o models.Occurrence
	var templateID, start, end, snoozeUntil sql.NullString
	var category, status, source, createdAt, updatedAt string

	err := row.Scan(
		&o.ID, &templateID, &o.Date, &o.Title, &category, &o.IsCore,
		&start, &end, &status, &snoozeUntil, &source, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Occurrence{}, err
	}

	o.TemplateID = templateID.String
	o.Category = models.Category(category)
	o.Status = models.Status(status)
	o.Source = models.Source(source)

	if o.Start, err = parseTimePtr("start_at", start); err != nil {
		return models.Occurrence{}, err
	}
	if o.End, err = parseTimePtr("end_at", end); err != nil {
		return models.Occurrence{}, err
	}
	if o.SnoozeUntil, err = parseTimePtr("snooze_until", snoozeUntil); err != nil {
		return models.Occurrence{}, err
	}
	if o.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Occurrence{}, err
	}
	if o.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Occurrence{}, err
	}
	return o, nil
}
