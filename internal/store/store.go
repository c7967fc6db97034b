package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dantwoashim/Project-Parva-sub001/internal/panchanga"
	"github.com/dantwoashim/Project-Parva-sub001/internal/solar"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS panchanga_records (
	record_id    TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	instant      TEXT NOT NULL,
	civil_date   TEXT NOT NULL,
	record_json  TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	UNIQUE (kind, instant)
);

CREATE INDEX IF NOT EXISTS idx_records_civil_date ON panchanga_records (kind, civil_date);

CREATE TABLE IF NOT EXISTS provenance_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id    TEXT,
	query_type   TEXT NOT NULL,
	instant      TEXT,
	source       TEXT,
	decision     TEXT NOT NULL,
	reason       TEXT,
	detail_json  TEXT,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (record_id) REFERENCES panchanga_records(record_id)
);
`
// #endregion schema

// #region kinds
// Record kinds.
const (
	KindInstant = "instant" // computed for an arbitrary instant
	KindDaily   = "daily"   // udaya record of a civil date
)
// #endregion kinds

// #region store-struct
// Store caches panchanga records in SQLite. It implements panchanga.Fallback.
type Store struct {
	db  *sql.DB
	loc solar.Location
}

// StoredRecord is one cached row.
type StoredRecord struct {
	ID        string
	Kind      string
	CivilDate string
	CreatedAt time.Time
	Record    panchanga.Record
}

var _ panchanga.Fallback = (*Store)(nil)
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return newStore(db)
}

// newStore prepares db and closes it when preparation fails.
func newStore(db *sql.DB) (*Store, error) {
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, loc: solar.Kathmandu}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region put
// Put stores a validated record under kind, replacing any record of the same
// kind and instant. It returns the record ID.
func (s *Store) Put(ctx context.Context, kind string, rec panchanga.Record) (string, error) {
	if kind != KindInstant && kind != KindDaily {
		return "", fmt.Errorf("put record: unknown kind %q", kind)
	}
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("put record: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO panchanga_records (record_id, kind, instant, civil_date, record_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(kind, instant) DO UPDATE SET record_json = excluded.record_json, created_at = excluded.created_at
		 RETURNING record_id`,
		uuid.New().String(), kind, instantKey(rec.Instant), rec.CivilDate.Format(time.DateOnly),
		string(data), time.Now().UTC().Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return id, nil
}

func instantKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
// #endregion put

// #region lookup
// Lookup implements panchanga.Fallback: a record for the exact instant
// first, then the daily record of the instant's Nepal civil date.
func (s *Store) Lookup(ctx context.Context, t time.Time) (panchanga.Record, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record_id, kind, civil_date, created_at, record_json FROM panchanga_records
		 WHERE instant = ? ORDER BY kind = 'daily' DESC LIMIT 1`, instantKey(t))
	rec, err := scanRecord(row)
	if err == nil {
		return rec.Record, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return panchanga.Record{}, false, fmt.Errorf("lookup instant: %w", err)
	}

	civil := solar.CivilDate(t, s.loc).Format(time.DateOnly)
	row = s.db.QueryRowContext(ctx,
		`SELECT record_id, kind, civil_date, created_at, record_json FROM panchanga_records
		 WHERE kind = ? AND civil_date = ? LIMIT 1`, KindDaily, civil)
	rec, err = scanRecord(row)
	switch {
	case err == nil:
		return rec.Record, true, nil
	case errors.Is(err, sql.ErrNoRows):
		return panchanga.Record{}, false, nil
	default:
		return panchanga.Record{}, false, fmt.Errorf("lookup civil date %s: %w", civil, err)
	}
}

// Get retrieves a cached record by ID.
func (s *Store) Get(ctx context.Context, id string) (StoredRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record_id, kind, civil_date, created_at, record_json FROM panchanga_records
		 WHERE record_id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, nil
}
// #endregion lookup

// #region list
// List returns cached records ordered by instant, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, kind, civil_date, created_at, record_json FROM panchanga_records
		 ORDER BY instant DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of cached records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM panchanga_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (StoredRecord, error) {
	var rec StoredRecord
	var createdStr, data string
	if err := row.Scan(&rec.ID, &rec.Kind, &rec.CivilDate, &createdStr, &data); err != nil {
		return StoredRecord{}, err
	}
	if err := json.Unmarshal([]byte(data), &rec.Record); err != nil {
		return StoredRecord{}, fmt.Errorf("unmarshal record: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("parse created_at %q: %w", createdStr, err)
	}
	rec.CreatedAt = created
	return rec, nil
}
// #endregion list
