// ABOUTME: Code check storage operations for SQLite
// ABOUTME: Requested codes and verdicts are JSON columns; Get returns nil for unknown IDs
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/cdt-coder/internal/models"
)

// CodeCheckStore handles code check persistence
type CodeCheckStore struct {
	db *DB
}

// NewCodeCheckStore creates a new CodeCheckStore
func NewCodeCheckStore(db *DB) *CodeCheckStore {
	return &CodeCheckStore{db: db}
}

const codeCheckColumns = `id, scenario, codes, verdicts, raw_response, error, created_at`

// Save inserts or replaces a code check
func (s *CodeCheckStore) Save(c *models.CodeCheck) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("code check must have an ID")
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	codes, err := json.Marshal(c.Codes)
	if err != nil {
		return fmt.Errorf("failed to encode codes: %w", err)
	}
	verdicts, err := json.Marshal(c.Verdicts)
	if err != nil {
		return fmt.Errorf("failed to encode verdicts: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO code_checks (id, scenario, codes, verdicts, raw_response, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scenario = excluded.scenario,
			codes = excluded.codes,
			verdicts = excluded.verdicts,
			raw_response = excluded.raw_response,
			error = excluded.error
	`, c.ID, c.Scenario, string(codes), string(verdicts), nullString(c.RawResponse), nullString(c.Error), createdAt)
	return err
}

// Get retrieves a code check by ID, or nil if there is none
func (s *CodeCheckStore) Get(id string) (*models.CodeCheck, error) {
	row := s.db.QueryRow(`SELECT `+codeCheckColumns+` FROM code_checks WHERE id = ?`, id)
	c, err := scanCodeCheck(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// List returns up to limit code checks, newest first. A limit <= 0 returns all.
func (s *CodeCheckStore) List(limit int) ([]*models.CodeCheck, error) {
	query := `SELECT ` + codeCheckColumns + ` FROM code_checks ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	checks := []*models.CodeCheck{}
	for rows.Next() {
		c, err := scanCodeCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

func scanCodeCheck(row rowScanner) (*models.CodeCheck, error) {
	var (
		c        models.CodeCheck
		codes    string
		verdicts string
		raw      sql.NullString
		errText  sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Scenario, &codes, &verdicts, &raw, &errText, &c.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(codes), &c.Codes); err != nil {
		return nil, fmt.Errorf("failed to decode codes of %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(verdicts), &c.Verdicts); err != nil {
		return nil, fmt.Errorf("failed to decode verdicts of %s: %w", c.ID, err)
	}
	c.RawResponse = raw.String
	c.Error = errText.String
	return &c, nil
}
