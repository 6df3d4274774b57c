package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/leadgenius/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS batches (
	id         TEXT PRIMARY KEY,
	params     TEXT NOT NULL,
	leads      TEXT NOT NULL,
	sources    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveBatch(ctx context.Context, params model.SearchParams, leads []model.Lead, sources []model.GroundingSource) (*model.LeadBatch, error) {
	batch := model.LeadBatch{
		ID:        uuid.New().String(),
		Params:    params,
		Leads:     leads,
		Sources:   sources,
		CreatedAt: time.Now().UTC(),
	}

	paramsJSON, err := json.Marshal(batch.Params)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal params")
	}
	leadsJSON, err := json.Marshal(batch.Leads)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal leads")
	}
	sourcesJSON, err := json.Marshal(batch.Sources)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal sources")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO batches (id, params, leads, sources, created_at) VALUES (?, ?, ?, ?, ?)`,
		batch.ID, string(paramsJSON), string(leadsJSON), string(sourcesJSON), batch.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert batch")
	}

	return &batch, nil
}

func (s *SQLiteStore) GetBatch(ctx context.Context, batchID string) (*model.LeadBatch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, params, leads, sources, created_at FROM batches WHERE id = ?`,
		batchID,
	)
	return scanBatch(row)
}

func (s *SQLiteStore) ListBatches(ctx context.Context, filter BatchFilter) ([]model.LeadBatch, error) {
	query := `SELECT id, params, leads, sources, created_at FROM batches WHERE 1=1`
	var args []any

	if filter.Niche != "" {
		query += ` AND json_extract(params, '$.niche') = ?`
		args = append(args, filter.Niche)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list batches")
	}
	defer rows.Close()

	var batches []model.LeadBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, eris.Wrap(rows.Err(), "sqlite: list batches iterate")
}

func (s *SQLiteStore) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: get preference %s", key)
	}
	return value, nil
}

func (s *SQLiteStore) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: set preference %s", key)
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanBatch(row scannable) (*model.LeadBatch, error) {
	var b model.LeadBatch
	var paramsJSON, leadsJSON, sourcesJSON string

	err := row.Scan(&b.ID, &paramsJSON, &leadsJSON, &sourcesJSON, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan batch")
	}

	if err := json.Unmarshal([]byte(paramsJSON), &b.Params); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal params")
	}
	if err := json.Unmarshal([]byte(leadsJSON), &b.Leads); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal leads")
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &b.Sources); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal sources")
	}
	return &b, nil
}
