// ABOUTME: SQLite schema migrations for saved analyses and code checks
// ABOUTME: Pipeline stage outputs are stored as JSON columns next to the scenario text
package sqlite

// migrations are applied in order; PRAGMA user_version records how many ran.
// Append new steps, never edit old ones.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    scenario TEXT NOT NULL,
    processed_scenario TEXT,
    ranges TEXT NOT NULL DEFAULT '{}',
    topics TEXT NOT NULL DEFAULT '[]',
    questions TEXT NOT NULL DEFAULT '{}',
    inspection TEXT,
    final_codes TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);`,

	`CREATE TABLE IF NOT EXISTS code_checks (
    id TEXT PRIMARY KEY,
    scenario TEXT NOT NULL,
    codes TEXT NOT NULL DEFAULT '[]',
    verdicts TEXT NOT NULL DEFAULT '[]',
    raw_response TEXT,
    error TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_code_checks_created ON code_checks(created_at);`,
}

// SchemaVersion is the user_version of a fully migrated database
func SchemaVersion() int {
	return len(migrations)
}
