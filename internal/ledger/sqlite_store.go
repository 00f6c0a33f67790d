package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dirpurge/internal/models"
	"dirpurge/internal/providers"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS deletions (
	id         TEXT PRIMARY KEY,
	ts         TEXT NOT NULL,
	date       TEXT NOT NULL,
	file       TEXT NOT NULL,
	ext        TEXT NOT NULL,
	size       INTEGER NOT NULL,
	batch      INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0,
	error_code INTEGER
);
CREATE INDEX IF NOT EXISTS idx_deletions_date_batch ON deletions(date, batch);
`

// SqliteStore keeps the ledger in a single SQLite table. Predicates run in
// Go over the loaded rows; updates only ever write the batch column.
type SqliteStore struct {
	db     *sql.DB
	logger providers.Logger
}

func NewSqliteStore(path string, logger providers.Logger) (*SqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ledger %s: %w", path, err)
	}

	logger.Debugf(providers.TypeLedger, "Opened sqlite ledger %s", path)
	return &SqliteStore{db: db, logger: logger}, nil
}

func (s *SqliteStore) Insert(rec models.DeletionRecord) (string, error) {
	id := uuid.NewString()

	var failed int
	var code sql.NullInt64
	if rec.Error != nil {
		failed = 1
		if !rec.Error.Unclassified() {
			code = sql.NullInt64{Int64: int64(rec.Error.Code), Valid: true}
		}
	}

	_, err := s.db.Exec(
		`INSERT INTO deletions (id, ts, date, file, ext, size, batch, failed, error_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.TS.Format(time.RFC3339Nano), rec.Date, rec.File, rec.Ext, rec.Size, rec.Batch, failed, code,
	)
	if err != nil {
		return "", fmt.Errorf("insert ledger record: %w", err)
	}
	return id, nil
}

func (s *SqliteStore) Update(match Predicate, apply Mutation) (int, error) {
	records, err := s.Search(match)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(`UPDATE deletions SET batch = ? WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for i := range records {
		candidate := records[i]
		apply(&candidate)
		if _, err := stmt.Exec(candidate.Batch, records[i].ID); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("update ledger record %s: %w", records[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *SqliteStore) Search(match Predicate) ([]models.DeletionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, ts, date, file, ext, size, batch, failed, error_code FROM deletions`,
	)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	out := make([]models.DeletionRecord, 0)
	for rows.Next() {
		var (
			rec    models.DeletionRecord
			ts     string
			failed int
			code   sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Date, &rec.File, &rec.Ext, &rec.Size, &rec.Batch, &failed, &code); err != nil {
			return nil, err
		}
		rec.TS, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("ledger record %s: %w", rec.ID, err)
		}
		if failed != 0 {
			if code.Valid {
				rec.Error = models.ErrorWithCode(int(code.Int64))
			} else {
				rec.Error = models.UnclassifiedError()
			}
		}
		if match(&rec) {
			out = append(out, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortRecords(out)
	return out, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}
