// ABOUTME: Storage wraps the SQLite analysis store behind one handle
// ABOUTME: Used by the coder to persist runs and by the CLI, HTTP API and MCP tools to read history
package sqlite

import (
	"fmt"
	"strings"

	"github.com/harper/cdt-coder/internal/models"
)

// Storage manages all persistent data for the coding assistant
type Storage struct {
	db       *DB
	analyses *AnalysisStore
	checks   *CodeCheckStore
}

// NewStorage initializes storage at the default XDG path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path.
// An empty path uses DefaultDBPath.
func NewStorageWithPath(dbPath string) (*Storage, error) {
	if strings.TrimSpace(dbPath) == "" {
		dbPath = DefaultDBPath()
	}
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{
		db:       db,
		analyses: NewAnalysisStore(db),
		checks:   NewCodeCheckStore(db),
	}, nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	return &Storage{
		db:       db,
		analyses: NewAnalysisStore(db),
		checks:   NewCodeCheckStore(db),
	}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// SaveAnalysis persists a finished analysis
func (s *Storage) SaveAnalysis(a *models.Analysis) error {
	if err := s.analyses.Save(a); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID, or nil if there is none
func (s *Storage) GetAnalysis(id string) (*models.Analysis, error) {
	return s.analyses.Get(id)
}

// ResolveAnalysis accepts a full ID, a unique ID prefix or "latest"
func (s *Storage) ResolveAnalysis(ref string) (*models.Analysis, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "latest" {
		return s.analyses.Latest()
	}
	if a, err := s.analyses.Get(ref); err != nil || a != nil {
		return a, err
	}

	ids, err := s.analyses.IDsWithPrefix(ref, 2)
	if err != nil {
		return nil, err
	}
	switch len(ids) {
	case 0:
		return nil, nil
	case 1:
		return s.analyses.Get(ids[0])
	default:
		return nil, fmt.Errorf("analysis prefix %q is ambiguous", ref)
	}
}

// ListAnalyses returns up to limit analyses, newest first
func (s *Storage) ListAnalyses(limit int) ([]*models.Analysis, error) {
	return s.analyses.List(limit)
}

// FindAnalysesByCode returns analyses whose final codes include code
func (s *Storage) FindAnalysesByCode(code string) ([]*models.Analysis, error) {
	return s.analyses.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
}

// DeleteAnalysis removes an analysis
func (s *Storage) DeleteAnalysis(id string) error {
	return s.analyses.Delete(id)
}

// CountAnalyses returns the number of saved analyses
func (s *Storage) CountAnalyses() (int, error) {
	return s.analyses.Count()
}

// SaveCodeCheck persists a code verification
func (s *Storage) SaveCodeCheck(c *models.CodeCheck) error {
	if err := s.checks.Save(c); err != nil {
		return fmt.Errorf("failed to save code check: %w", err)
	}
	return nil
}

// GetCodeCheck retrieves a code check by ID, or nil if there is none
func (s *Storage) GetCodeCheck(id string) (*models.CodeCheck, error) {
	return s.checks.Get(id)
}

// ListCodeChecks returns up to limit code checks, newest first
func (s *Storage) ListCodeChecks(limit int) ([]*models.CodeCheck, error) {
	return s.checks.List(limit)
}
