package cache

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/wordle-solver/internal/entropy"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS entropy_tables (
	entry_id      TEXT PRIMARY KEY,
	language      TEXT NOT NULL,
	cache_key     TEXT NOT NULL,
	steps         TEXT NOT NULL,
	catalog_hash  TEXT NOT NULL,
	row_count     INTEGER NOT NULL,
	scores        BLOB NOT NULL,
	created_at    TEXT NOT NULL,
	UNIQUE (language, cache_key)
);

CREATE INDEX IF NOT EXISTS idx_entropy_tables_language ON entropy_tables(language, created_at);

CREATE TABLE IF NOT EXISTS suggestion_log (
	id            TEXT PRIMARY KEY,
	language      TEXT NOT NULL,
	cache_key     TEXT NOT NULL,
	steps         TEXT NOT NULL,
	mode          TEXT NOT NULL,
	suggestion    TEXT NOT NULL,
	candidates    INTEGER NOT NULL,
	weight        REAL NOT NULL,
	created_at    TEXT NOT NULL
);
`
// #endregion schema

// #region store-struct
// SQLiteStore keeps entropy tables in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("pragma busy: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}
// #endregion constructor

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region get
func (s *SQLiteStore) Get(ctx context.Context, language, key string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT entry_id, language, cache_key, steps, catalog_hash, scores, created_at
		 FROM entropy_tables WHERE language = ? AND cache_key = ?`, language, key,
	)
	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get entry %s/%s: %w", language, key, err)
	}
	return e, true, nil
}
// #endregion get

// #region put
// Put replaces any entry under the same language and key.
func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	stepsJSON, err := json.Marshal(e.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM entropy_tables WHERE language = ? AND cache_key = ?`, e.Language, e.Key,
	); err != nil {
		return fmt.Errorf("replace entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO entropy_tables (entry_id, language, cache_key, steps, catalog_hash, row_count, scores, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Language, e.Key, string(stepsJSON), e.CatalogHash, len(e.Scores),
		encodeScores(e.Scores), e.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
// #endregion put

// #region delete
func (s *SQLiteStore) Delete(ctx context.Context, language, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM entropy_tables WHERE language = ? AND cache_key = ?`, language, key,
	); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Clear drops every entry of a language and returns how many were removed.
func (s *SQLiteStore) Clear(ctx context.Context, language string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entropy_tables WHERE language = ?`, language)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", language, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", language, err)
	}
	return int(n), nil
}
// #endregion delete

// #region list
// List returns the most recent entries of a language without their scores;
// Rows still carries the stored row count.
// An empty language lists every language.
func (s *SQLiteStore) List(ctx context.Context, language string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, language, cache_key, steps, catalog_hash, row_count, created_at
		 FROM entropy_tables WHERE (? = '' OR language = ?)
		 ORDER BY created_at DESC LIMIT ?`, language, language, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			stepsJSON  string
			rowCount   int
			createdStr string
		)
		if err := rows.Scan(&e.ID, &e.Language, &e.Key, &stepsJSON, &e.CatalogHash, &rowCount, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(stepsJSON), &e.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal steps: %w", err)
		}
		e.Rows = rowCount
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion list

func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var (
		e          Entry
		stepsJSON  string
		blob       []byte
		createdStr string
	)
	if err := scan(&e.ID, &e.Language, &e.Key, &stepsJSON, &e.CatalogHash, &blob, &createdStr); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(stepsJSON), &e.Steps); err != nil {
		return Entry{}, fmt.Errorf("unmarshal steps: %w", err)
	}
	scores, err := decodeScores(blob)
	if err != nil {
		return Entry{}, err
	}
	e.Scores = scores
	e.Rows = len(scores)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return e, nil
}

// #region score-encoding
const scoreWidth = 16

func encodeScores(scores []entropy.Score) []byte {
	buf := make([]byte, len(scores)*scoreWidth)
	for i, sc := range scores {
		binary.LittleEndian.PutUint64(buf[i*scoreWidth:], uint64(int64(sc.ID)))
		binary.LittleEndian.PutUint64(buf[i*scoreWidth+8:], math.Float64bits(sc.Entropy))
	}
	return buf
}

func decodeScores(b []byte) ([]entropy.Score, error) {
	if len(b)%scoreWidth != 0 {
		return nil, fmt.Errorf("decode scores: %d bytes is not a multiple of %d", len(b), scoreWidth)
	}
	scores := make([]entropy.Score, len(b)/scoreWidth)
	for i := range scores {
		scores[i] = entropy.Score{
			ID:      int(int64(binary.LittleEndian.Uint64(b[i*scoreWidth:]))),
			Entropy: math.Float64frombits(binary.LittleEndian.Uint64(b[i*scoreWidth+8:])),
		}
	}
	return scores, nil
}
// #endregion score-encoding
