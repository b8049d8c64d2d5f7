package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveRun(projectKey string, run Run) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.SchemaVersion == 0 {
		run.SchemaVersion = SchemaVersion
	}
	if run.SchemaVersion != SchemaVersion {
		return Run{}, fmt.Errorf("unsupported run schema version %d", run.SchemaVersion)
	}

	_, err := s.db.Exec(`
INSERT INTO runs (schema_version, run_id, project_key, ts_utc, task_count, edge_count, critical_count, project_duration_days, max_slack_days)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.SchemaVersion,
		run.RunID,
		projectKey,
		run.Timestamp.UTC().Format(time.RFC3339Nano),
		run.TaskCount,
		run.EdgeCount,
		run.CriticalCount,
		run.ProjectDurationDays,
		run.MaxSlackDays,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run %q: %w", run.RunID, err)
	}
	return run, nil
}

// ListRuns returns the project's runs in ascending timestamp order. A zero
// since returns everything.
func (s *Store) ListRuns(projectKey string, since time.Time) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	rows, err := s.db.Query(`
SELECT schema_version, run_id, ts_utc, task_count, edge_count, critical_count, project_duration_days, max_slack_days
FROM runs
WHERE project_key = ? AND ts_utc >= ?
ORDER BY ts_utc ASC`,
		projectKey,
		since.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var ts string
		if err := rows.Scan(
			&run.SchemaVersion,
			&run.RunID,
			&ts,
			&run.TaskCount,
			&run.EdgeCount,
			&run.CriticalCount,
			&run.ProjectDurationDays,
			&run.MaxSlackDays,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", ts, err)
		}
		run.Timestamp = parsed
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
