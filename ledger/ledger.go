// Package ledger records every article scrape attempt in SQLite so a run can
// be audited and failed articles found again later.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Entry statuses.
const (
	StatusScraped = "scraped"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// ErrEntryNotFound is returned when a URL has never been recorded.
var ErrEntryNotFound = errors.New("ledger entry not found")

// Ledger stores scrape outcomes keyed by article URL.
type Ledger struct {
	db    *sql.DB
	runID uuid.UUID
}

// Entry is the latest recorded outcome for one article URL.
type Entry struct {
	URL       string    `json:"url"`
	Theme     string    `json:"theme"`
	Path      string    `json:"path"`
	RunID     uuid.UUID `json:"run_id"`
	Status    string    `json:"status"`
	LastError *string   `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open opens (creating if needed) the ledger database and tags every record
// written through it with runID.
func Open(dbPath string, runID uuid.UUID) (*Ledger, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	l := &Ledger{db: db, runID: runID}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return l, nil
}

// initSchema creates the articles table if it doesn't exist.
func (l *Ledger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		url TEXT PRIMARY KEY,
		theme TEXT NOT NULL,
		path TEXT NOT NULL,
		run_id TEXT NOT NULL,
		status TEXT NOT NULL,
		last_error TEXT,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_status ON articles(status);
	`

	_, err := l.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RunID returns the run identifier written with each record.
func (l *Ledger) RunID() uuid.UUID {
	return l.runID
}

// Record stores the outcome of one article. A non-nil scrapeErr is saved as
// the entry's last error.
func (l *Ledger) Record(url, theme, path, status string, scrapeErr error) error {
	var lastError *string
	if scrapeErr != nil {
		msg := scrapeErr.Error()
		lastError = &msg
	}

	query := `
	INSERT INTO articles (url, theme, path, run_id, status, last_error, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		theme = excluded.theme,
		path = excluded.path,
		run_id = excluded.run_id,
		status = excluded.status,
		last_error = excluded.last_error,
		updated_at = excluded.updated_at
	`

	_, err := l.db.Exec(query, url, theme, path, l.runID.String(), status, lastError,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record article: %w", err)
	}
	return nil
}

// Get returns the entry for a URL.
func (l *Ledger) Get(url string) (*Entry, error) {
	query := `SELECT url, theme, path, run_id, status, last_error, updated_at FROM articles WHERE url = ?`

	entry, err := scanEntry(l.db.QueryRow(query, url))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}
	return entry, nil
}

// List returns the entries with the given status, or all entries when status
// is empty, ordered by URL.
func (l *Ledger) List(status string) ([]Entry, error) {
	query := `SELECT url, theme, path, run_id, status, last_error, updated_at FROM articles`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY url`

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

// Counts returns the number of entries per status for the current run.
func (l *Ledger) Counts() (map[string]int, error) {
	rows, err := l.db.Query(`SELECT status, COUNT(*) FROM articles WHERE run_id = ? GROUP BY status`, l.runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}

	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var runID, updatedAt string
	var lastError sql.NullString

	if err := row.Scan(&entry.URL, &entry.Theme, &entry.Path, &runID, &entry.Status, &lastError, &updatedAt); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id %q: %w", runID, err)
	}
	entry.RunID = id

	if lastError.Valid {
		entry.LastError = &lastError.String
	}

	entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}

	return &entry, nil
}
