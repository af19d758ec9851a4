package settle

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS settlements (
	settle_key  TEXT PRIMARY KEY,
	record_id   TEXT NOT NULL,
	instance    TEXT NOT NULL,
	content     TEXT NOT NULL,
	token       TEXT,
	decision    TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS breach_events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	counter      INTEGER NOT NULL,
	reported_at  TEXT NOT NULL
);
`

// #endregion schema

// ErrDuplicateRecord is returned when a settlement key has been seen before.
var ErrDuplicateRecord = errors.New("duplicate settlement record")

// #region store

// Store is the durable settlement ledger. The pipeline only writes
// seen-before keys and decision rows into it; admission logic never reads
// them back.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store

// #region record

// Record is one settlement row.
type Record struct {
	Key       string // keyed content digest, unique
	RecordID  string
	Instance  string // "issuance" | "seal" | "convert" | "transfer"
	Content   string
	Token     string // sealed token, empty for rejections
	Decision  string // "accepted" | "rejected"
	CreatedAt time.Time
}

// Insert writes one settlement row. A key seen before yields
// ErrDuplicateRecord and leaves the original row untouched.
func (s *Store) Insert(rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO settlements (settle_key, record_id, instance, content, token, decision, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Key, rec.RecordID, rec.Instance, rec.Content,
		nullIfEmpty(rec.Token), rec.Decision, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: key %s", ErrDuplicateRecord, rec.Key)
	}
	return nil
}

// List returns the most recent settlement rows.
func (s *Store) List(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT settle_key, record_id, instance, content, token, decision, created_at
		 FROM settlements ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var token sql.NullString
		var createdStr string
		if err := rows.Scan(&rec.Key, &rec.RecordID, &rec.Instance, &rec.Content, &token, &rec.Decision, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if token.Valid {
			rec.Token = token.String
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion record

// #region breach

// RecordBreach appends one breach event with the running counter value.
func (s *Store) RecordBreach(counter int) error {
	_, err := s.db.Exec(
		`INSERT INTO breach_events (counter, reported_at) VALUES (?, ?)`,
		counter, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record breach: %w", err)
	}
	return nil
}

// BreachCount returns the number of recorded breach events.
func (s *Store) BreachCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM breach_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count breaches: %w", err)
	}
	return n, nil
}

// #endregion breach

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
