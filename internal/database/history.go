package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/nlpreport/internal/model"
)

// FileName is the name of the history database file inside its directory.
const FileName = "history.db"

var (
	// ErrDatabaseNotFound is returned by Open when the database does not exist
	// and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("history database not found")

	// ErrRunNotFound is returned when no run matches the requested ID.
	ErrRunNotFound = errors.New("run not found")
)

// HistoryDB stores analysis runs in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		input_name TEXT NOT NULL,
		input_digest TEXT,
		output_dir TEXT,
		output_path TEXT,
		format TEXT,
		status TEXT NOT NULL,
		sentences INTEGER DEFAULT 0,
		chains INTEGER DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		error TEXT,
		run_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(input_digest);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run.
type RunRecord struct {
	ID          int64           `json:"-"`
	RunID       string          `json:"run_id"`
	InputName   string          `json:"input_name"`
	InputDigest string          `json:"input_digest"`
	OutputDir   string          `json:"output_dir"`
	OutputPath  string          `json:"output_path,omitempty"`
	Format      string          `json:"format"`
	Status      model.RunStatus `json:"status"`
	Sentences   int             `json:"sentences"`
	Chains      int             `json:"chains"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
	Error       string          `json:"error,omitempty"`
}

// Duration returns how long the run took, or 0 if it never finished.
func (r RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// SaveRun stores run. Saving the same run again replaces the earlier row.
func (h *HistoryDB) SaveRun(ctx context.Context, run *model.Run) error {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to serialize run: %w", err)
	}

	query := `
	INSERT INTO runs (run_id, input_name, input_digest, output_dir, output_path, format,
		status, sentences, chains, started_at, finished_at, error, run_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id) DO UPDATE SET
		output_path = excluded.output_path,
		status = excluded.status,
		sentences = excluded.sentences,
		chains = excluded.chains,
		finished_at = excluded.finished_at,
		error = excluded.error,
		run_json = excluded.run_json
	`

	_, err = h.db.ExecContext(ctx, query,
		run.ID,
		run.InputName,
		run.InputDigest,
		run.OutputDir,
		run.OutputPath,
		string(run.Format),
		string(run.Status()),
		run.SentenceCount(),
		run.ChainCount(),
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.FinishedAt),
		run.ErrorMessage,
		string(runJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

const selectRunColumns = `
	SELECT id, run_id, input_name, input_digest, output_dir, output_path, format,
		status, sentences, chains, started_at, finished_at, error
	FROM runs
	`

// ListRuns returns the most recent runs, newest first.
// A limit of 0 or less returns all runs.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := selectRunColumns + `ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return h.queryRuns(ctx, query, args...)
}

// RunsForDigest returns all runs over the same input text, newest first.
func (h *HistoryDB) RunsForDigest(ctx context.Context, digest string) ([]RunRecord, error) {
	query := selectRunColumns + `WHERE input_digest = ? ORDER BY started_at DESC, id DESC`
	return h.queryRuns(ctx, query, digest)
}

// GetRun returns the run with the given run ID.
func (h *HistoryDB) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	records, err := h.queryRuns(ctx, selectRunColumns+`WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return &records[0], nil
}

// queryRuns runs query and scans the rows into RunRecords.
func (h *HistoryDB) queryRuns(ctx context.Context, query string, args ...any) ([]RunRecord, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err is checked below

	var records []RunRecord
	for rows.Next() {
		var (
			r                 RunRecord
			digest, dir, path sql.NullString
			format, errMsg    sql.NullString
			started, finished sql.NullString
			status            string
		)
		if err := rows.Scan(&r.ID, &r.RunID, &r.InputName, &digest, &dir, &path, &format,
			&status, &r.Sentences, &r.Chains, &started, &finished, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		r.InputDigest = digest.String
		r.OutputDir = dir.String
		r.OutputPath = path.String
		r.Format = format.String
		r.Status = model.RunStatus(status)
		r.StartedAt = parseTimestamp(started.String)
		r.FinishedAt = parseTimestamp(finished.String)
		r.Error = errMsg.String

		records = append(records, r)
	}

	return records, rows.Err()
}

// formatTimestamp stores t as a sortable UTC string; the zero time becomes "".
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(storedTimestampLayout)
}

// storedTimestampLayout is a fixed-width RFC 3339 layout so timestamps sort
// lexically in SQL.
const storedTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats contains the timestamp formats the runs table may hold.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
