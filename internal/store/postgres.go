package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/leadgenius/prospect-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS batches (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	params     JSONB NOT NULL,
	leads      JSONB NOT NULL,
	sources    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveBatch(ctx context.Context, params model.SearchParams, leads []model.Lead, sources []model.GroundingSource) (*model.LeadBatch, error) {
	batch := model.LeadBatch{
		ID:        uuid.New().String(),
		Params:    params,
		Leads:     leads,
		Sources:   sources,
		CreatedAt: time.Now().UTC(),
	}

	paramsJSON, err := json.Marshal(batch.Params)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal params")
	}
	leadsJSON, err := json.Marshal(batch.Leads)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal leads")
	}
	sourcesJSON, err := json.Marshal(batch.Sources)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal sources")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO batches (id, params, leads, sources, created_at) VALUES ($1, $2, $3, $4, $5)`,
		batch.ID, paramsJSON, leadsJSON, sourcesJSON, batch.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert batch")
	}

	return &batch, nil
}

func (s *PostgresStore) GetBatch(ctx context.Context, batchID string) (*model.LeadBatch, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, params, leads, sources, created_at FROM batches WHERE id = $1`,
		batchID,
	)
	return scanPostgresBatch(row)
}

func (s *PostgresStore) ListBatches(ctx context.Context, filter BatchFilter) ([]model.LeadBatch, error) {
	query := `SELECT id, params, leads, sources, created_at FROM batches WHERE 1=1`
	var args []any

	if filter.Niche != "" {
		args = append(args, filter.Niche)
		query += ` AND params->>'niche' = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list batches")
	}
	defer rows.Close()

	var batches []model.LeadBatch
	for rows.Next() {
		b, err := scanPostgresBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, eris.Wrap(rows.Err(), "postgres: list batches iterate")
}

func (s *PostgresStore) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM preferences WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", eris.Wrapf(err, "postgres: get preference %s", key)
	}
	return value, nil
}

func (s *PostgresStore) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: set preference %s", key)
}

func scanPostgresBatch(row pgx.Row) (*model.LeadBatch, error) {
	var b model.LeadBatch
	var paramsJSON, leadsJSON, sourcesJSON []byte

	err := row.Scan(&b.ID, &paramsJSON, &leadsJSON, &sourcesJSON, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan batch")
	}

	if err := json.Unmarshal(paramsJSON, &b.Params); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal params")
	}
	if err := json.Unmarshal(leadsJSON, &b.Leads); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal leads")
	}
	if err := json.Unmarshal(sourcesJSON, &b.Sources); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal sources")
	}
	return &b, nil
}

