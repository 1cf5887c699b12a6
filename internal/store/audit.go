package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Invocation is one executed tool invocation as recorded in the audit log.
type Invocation struct {
	ID          int64
	Timestamp   time.Time
	TraceID     string
	Tool        string
	ProjectDir  string
	Argv        []string
	ExitCode    int
	DurationMS  int64
	StdoutBytes int
	StderrBytes int
	ErrorKind   string
}

// AuditStore persists invocation records in a local SQLite database.
// Recording is best-effort plumbing around the request pipeline: a failed
// write never fails the request it describes.
type AuditStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func NewAuditStore(path string) *AuditStore {
	return &AuditStore{path: path}
}

func (s *AuditStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return err
	}

	schema := `
CREATE TABLE IF NOT EXISTS invocations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_unix INTEGER NOT NULL,
  trace_id TEXT NOT NULL,
  tool TEXT NOT NULL,
  project_dir TEXT NOT NULL,
  argv TEXT NOT NULL,
  exit_code INTEGER NOT NULL DEFAULT 0,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  stdout_bytes INTEGER NOT NULL DEFAULT 0,
  stderr_bytes INTEGER NOT NULL DEFAULT 0,
  error_kind TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_invocations_ts ON invocations(ts_unix);
CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations(tool);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *AuditStore) Record(ctx context.Context, inv Invocation) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}

	argvJSON, err := json.Marshal(inv.Argv)
	if err != nil {
		return err
	}

	ts := inv.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = db.ExecContext(
		ctx,
		`INSERT INTO invocations(ts_unix, trace_id, tool, project_dir, argv, exit_code, duration_ms, stdout_bytes, stderr_bytes, error_kind)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Unix(),
		inv.TraceID,
		inv.Tool,
		inv.ProjectDir,
		string(argvJSON),
		inv.ExitCode,
		inv.DurationMS,
		inv.StdoutBytes,
		inv.StderrBytes,
		inv.ErrorKind,
	)
	return err
}

// Recent returns up to limit invocations, newest first.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.QueryContext(
		ctx,
		`SELECT id, ts_unix, trace_id, tool, project_dir, argv, exit_code, duration_ms, stdout_bytes, stderr_bytes, error_kind
		 FROM invocations ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		var tsUnix int64
		var argvJSON string
		if err := rows.Scan(
			&inv.ID, &tsUnix, &inv.TraceID, &inv.Tool, &inv.ProjectDir,
			&argvJSON, &inv.ExitCode, &inv.DurationMS, &inv.StdoutBytes,
			&inv.StderrBytes, &inv.ErrorKind,
		); err != nil {
			return nil, err
		}
		inv.Timestamp = time.Unix(tsUnix, 0)
		if err := json.Unmarshal([]byte(argvJSON), &inv.Argv); err != nil {
			inv.Argv = nil
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *AuditStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *AuditStore) ensureDB(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db != nil {
		return db, nil
	}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db, nil
}
