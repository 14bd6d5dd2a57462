// ABOUTME: Analysis storage operations for SQLite
// ABOUTME: Stage outputs round-trip through JSON columns; lookups return nil for unknown IDs
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/cdt-coder/internal/models"
)

// ErrNotFound is returned when deleting an analysis that does not exist
var ErrNotFound = errors.New("analysis not found")

// AnalysisStore handles analysis persistence
type AnalysisStore struct {
	db *DB
}

// NewAnalysisStore creates a new AnalysisStore
func NewAnalysisStore(db *DB) *AnalysisStore {
	return &AnalysisStore{db: db}
}

const analysisColumns = `id, scenario, processed_scenario, ranges, topics, questions, inspection, created_at`

// Save inserts or replaces an analysis
func (s *AnalysisStore) Save(a *models.Analysis) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("analysis must have an ID")
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	ranges, err := json.Marshal(a.Ranges)
	if err != nil {
		return fmt.Errorf("failed to encode ranges: %w", err)
	}
	topics, err := json.Marshal(a.Topics)
	if err != nil {
		return fmt.Errorf("failed to encode topics: %w", err)
	}
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	var inspection sql.NullString
	if a.Inspection != nil {
		raw, err := json.Marshal(a.Inspection)
		if err != nil {
			return fmt.Errorf("failed to encode inspection: %w", err)
		}
		inspection = nullString(string(raw))
	}
	finalCodes, err := json.Marshal(a.FinalCodes())
	if err != nil {
		return fmt.Errorf("failed to encode final codes: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO analyses (id, scenario, processed_scenario, ranges, topics, questions, inspection, final_codes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scenario = excluded.scenario,
			processed_scenario = excluded.processed_scenario,
			ranges = excluded.ranges,
			topics = excluded.topics,
			questions = excluded.questions,
			inspection = excluded.inspection,
			final_codes = excluded.final_codes
	`, a.ID, a.Scenario, nullString(a.ProcessedScenario), string(ranges), string(topics),
		string(questions), inspection, string(finalCodes), createdAt)

	return err
}

// Get retrieves an analysis by ID, or nil if there is none
func (s *AnalysisStore) Get(id string) (*models.Analysis, error) {
	row := s.db.QueryRow(`SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, id)
	a, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// Latest returns the most recent analysis, or nil when nothing is saved
func (s *AnalysisStore) Latest() (*models.Analysis, error) {
	row := s.db.QueryRow(`SELECT ` + analysisColumns + ` FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	a, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// List returns up to limit analyses, newest first. A limit <= 0 returns all.
func (s *AnalysisStore) List(limit int) ([]*models.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses ORDER BY created_at DESC, rowid DESC`
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

	analyses := []*models.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// FindByCode returns analyses whose final codes include code, newest first
func (s *AnalysisStore) FindByCode(code string) ([]*models.Analysis, error) {
	rows, err := s.db.Query(`
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE EXISTS (SELECT 1 FROM json_each(analyses.final_codes) WHERE json_each.value = ?)
		ORDER BY created_at DESC, rowid DESC
	`, code)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	analyses := []*models.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// likeEscaper makes % and _ literal in a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// IDsWithPrefix returns up to limit analysis IDs starting with prefix.
// Only the id column is read, so a row with corrupt JSON does not break it.
func (s *AnalysisStore) IDsWithPrefix(prefix string, limit int) ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM analyses WHERE id LIKE ? || '%' ESCAPE '\' ORDER BY id LIMIT ?`,
		likeEscaper.Replace(prefix), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes an analysis
func (s *AnalysisStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of saved analyses
func (s *AnalysisStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	var (
		a          models.Analysis
		processed  sql.NullString
		ranges     string
		topics     string
		questions  string
		inspection sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Scenario, &processed, &ranges, &topics, &questions, &inspection, &a.CreatedAt); err != nil {
		return nil, err
	}

	if processed.Valid {
		a.ProcessedScenario = processed.String
	}
	if err := json.Unmarshal([]byte(ranges), &a.Ranges); err != nil {
		return nil, fmt.Errorf("failed to decode ranges of %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(topics), &a.Topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics of %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(questions), &a.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions of %s: %w", a.ID, err)
	}
	if inspection.Valid {
		a.Inspection = &models.Inspection{}
		if err := json.Unmarshal([]byte(inspection.String), a.Inspection); err != nil {
			return nil, fmt.Errorf("failed to decode inspection of %s: %w", a.ID, err)
		}
	}
	return &a, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
