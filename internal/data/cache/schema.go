package cache

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest migration known to this build.
const SchemaVersion = 3

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS renders (
  content_hash TEXT NOT NULL,
  format TEXT NOT NULL,
  indent INTEGER NOT NULL DEFAULT 0,
  output BLOB NOT NULL,
  struct_count INTEGER NOT NULL DEFAULT 0,
  member_count INTEGER NOT NULL DEFAULT 0,
  function_count INTEGER NOT NULL DEFAULT 0,
  parameter_count INTEGER NOT NULL DEFAULT 0,
  line_files TEXT NOT NULL DEFAULT '',
  created_at_utc TEXT NOT NULL,
  PRIMARY KEY (content_hash, format, indent)
);
CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at_utc);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS runs (
  run_id TEXT PRIMARY KEY,
  source_path TEXT NOT NULL,
  content_hash TEXT NOT NULL DEFAULT '',
  outcome TEXT NOT NULL,
  cache_hit INTEGER NOT NULL DEFAULT 0,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  ts_utc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts_utc);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source_path);
`,
	},
	{
		// Renderings are keyed by renderer version; older rows are dropped.
		version: 3,
		sql: `
DROP TABLE IF EXISTS renders;
CREATE TABLE renders (
  content_hash TEXT NOT NULL,
  format TEXT NOT NULL,
  indent INTEGER NOT NULL DEFAULT 0,
  renderer TEXT NOT NULL DEFAULT '',
  output BLOB NOT NULL,
  struct_count INTEGER NOT NULL DEFAULT 0,
  member_count INTEGER NOT NULL DEFAULT 0,
  function_count INTEGER NOT NULL DEFAULT 0,
  parameter_count INTEGER NOT NULL DEFAULT 0,
  file_count INTEGER NOT NULL DEFAULT 0,
  line_files TEXT NOT NULL DEFAULT '',
  created_at_utc TEXT NOT NULL,
  PRIMARY KEY (content_hash, format, indent, renderer)
);
CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at_utc);
`,
	},
}

// EnsureSchema applies pending migrations in order, one transaction each.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema_migrations version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("cache schema version %d is newer than supported version %d", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}
