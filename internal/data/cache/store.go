// Package cache persists rendered reflection output keyed by source content,
// plus a small log of reflection runs.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Key identifies one rendering of one source text by one renderer version.
type Key struct {
	ContentHash string
	Format      string
	Indent      int
	Renderer    string
}

// Entry is a cached rendering.
type Entry struct {
	Key
	Output         []byte
	StructCount    int
	MemberCount    int
	FunctionCount  int
	ParameterCount int
	FileCount      int
	// LineFiles are the #line paths named by the source, in first-seen order.
	LineFiles []string
	CreatedAt time.Time
}

// Run is one recorded reflection attempt.
type Run struct {
	ID          string
	SourcePath  string
	ContentHash string
	Outcome     string
	CacheHit    bool
	Duration    time.Duration
	Timestamp   time.Time
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("cache path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("cache path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite cache %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Get returns the cached rendering for key. The bool is false on a miss.
func (s *Store) Get(key Key) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry   Entry
		files   string
		created string
	)
	err := s.withRetry("load render", func() error {
		return s.db.QueryRow(`
SELECT output, struct_count, member_count, function_count, parameter_count, file_count, line_files, created_at_utc
FROM renders
WHERE content_hash = ? AND format = ? AND indent = ? AND renderer = ?`,
			key.ContentHash, key.Format, key.Indent, key.Renderer,
		).Scan(&entry.Output, &entry.StructCount, &entry.MemberCount, &entry.FunctionCount,
			&entry.ParameterCount, &entry.FileCount, &files, &created)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	entry.Key = key
	if files != "" {
		entry.LineFiles = strings.Split(files, "\n")
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, created); parseErr == nil {
		entry.CreatedAt = ts
	}
	return entry, true, nil
}

// Put stores or replaces a rendering.
func (s *Store) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(entry.ContentHash) == "" {
		return fmt.Errorf("save render: content hash must not be empty")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	return s.withRetry("save render", func() error {
		_, err := s.db.Exec(`
INSERT INTO renders (
  content_hash, format, indent, renderer, output, struct_count, member_count,
  function_count, parameter_count, file_count, line_files, created_at_utc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(content_hash, format, indent, renderer) DO UPDATE SET
  output=excluded.output,
  struct_count=excluded.struct_count,
  member_count=excluded.member_count,
  function_count=excluded.function_count,
  parameter_count=excluded.parameter_count,
  file_count=excluded.file_count,
  line_files=excluded.line_files,
  created_at_utc=excluded.created_at_utc`,
			entry.ContentHash,
			entry.Format,
			entry.Indent,
			entry.Renderer,
			entry.Output,
			entry.StructCount,
			entry.MemberCount,
			entry.FunctionCount,
			entry.ParameterCount,
			entry.FileCount,
			strings.Join(entry.LineFiles, "\n"),
			entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
}

// RecordRun appends a run to the log.
func (s *Store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		return fmt.Errorf("record run: id must not be empty")
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	hit := 0
	if run.CacheHit {
		hit = 1
	}

	return s.withRetry("record run", func() error {
		_, err := s.db.Exec(`
INSERT OR REPLACE INTO runs (run_id, source_path, content_hash, outcome, cache_hit, duration_ms, ts_utc)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.SourcePath,
			run.ContentHash,
			run.Outcome,
			hit,
			run.Duration.Milliseconds(),
			run.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT run_id, source_path, content_hash, outcome, cache_hit, duration_ms, ts_utc
FROM runs
ORDER BY ts_utc DESC, run_id
LIMIT ?`, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var (
			run        Run
			hit        int
			durationMS int64
			tsRaw      string
		)
		if err := rows.Scan(&run.ID, &run.SourcePath, &run.ContentHash, &run.Outcome, &hit, &durationMS, &tsRaw); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CacheHit = hit == 1
		run.Duration = time.Duration(durationMS) * time.Millisecond
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
