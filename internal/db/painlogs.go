package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/themobileprof/paintrack-be/internal/painlog"
)

// PainLogStore is the Postgres-backed painlog.Repository
type PainLogStore struct {
	db *DB
}

// NewPainLogStore creates a pain log store around an open connection
func NewPainLogStore(db *DB) *PainLogStore {
	return &PainLogStore{db: db}
}

const painLogColumns = `id, log_date, log_time, body_part, severity, pain_type, cause, activity, description, tags, photos`

// ListEntries returns the user's entries in insertion order
func (s *PainLogStore) ListEntries(ctx context.Context, userID string) ([]painlog.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM pain_logs
		WHERE user_id = $1
		ORDER BY inserted_at ASC
	`, painLogColumns)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pain logs: %w", err)
	}
	defer rows.Close()

	entries := make([]painlog.Entry, 0)
	for rows.Next() {
		entry, err := scanPainLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pain logs: %w", err)
	}

	return entries, nil
}

// GetEntry retrieves a single entry by ID
func (s *PainLogStore) GetEntry(ctx context.Context, userID, entryID string) (*painlog.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM pain_logs
		WHERE user_id = $1 AND id = $2
	`, painLogColumns)

	row := s.db.QueryRowContext(ctx, query, userID, entryID)
	entry, err := scanPainLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, painlog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// AppendEntry inserts a new entry
func (s *PainLogStore) AppendEntry(ctx context.Context, userID string, entry painlog.Entry) error {
	query := `
		INSERT INTO pain_logs (id, user_id, log_date, log_time, body_part, severity, pain_type, cause, activity, description, tags, photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, userID, entry.Date, entry.Time, entry.BodyPart, entry.Severity,
		string(entry.PainType), string(entry.Cause), entry.Activity, entry.Description,
		pq.Array(entry.Tags), pq.Array(entry.Photos),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return painlog.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert pain log: %w", err)
	}

	return nil
}

// ReplaceEntry overwrites an existing entry by ID
func (s *PainLogStore) ReplaceEntry(ctx context.Context, userID string, entry painlog.Entry) error {
	query := `
		UPDATE pain_logs
		SET log_date = $3, log_time = $4, body_part = $5, severity = $6,
		    pain_type = $7, cause = $8, activity = $9, description = $10,
		    tags = $11, photos = $12, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND id = $2
	`

	result, err := s.db.ExecContext(ctx, query,
		userID, entry.ID, entry.Date, entry.Time, entry.BodyPart, entry.Severity,
		string(entry.PainType), string(entry.Cause), entry.Activity, entry.Description,
		pq.Array(entry.Tags), pq.Array(entry.Photos),
	)
	if err != nil {
		return fmt.Errorf("failed to update pain log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return painlog.ErrNotFound
	}

	return nil
}

// DeleteEntry removes an entry by ID
func (s *PainLogStore) DeleteEntry(ctx context.Context, userID, entryID string) error {
	query := `DELETE FROM pain_logs WHERE user_id = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, userID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete pain log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return painlog.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPainLog(row rowScanner) (painlog.Entry, error) {
	var (
		entry    painlog.Entry
		painType string
		cause    string
		tags     pq.StringArray
		photos   pq.StringArray
	)

	err := row.Scan(
		&entry.ID, &entry.Date, &entry.Time, &entry.BodyPart, &entry.Severity,
		&painType, &cause, &entry.Activity, &entry.Description, &tags, &photos,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return painlog.Entry{}, sql.ErrNoRows
	}
	if err != nil {
		return painlog.Entry{}, fmt.Errorf("failed to scan pain log: %w", err)
	}

	entry.PainType = painlog.PainType(painType)
	entry.Cause = painlog.Cause(cause)
	entry.Tags = []string(tags)
	entry.Photos = []string(photos)

	return entry, nil
}
