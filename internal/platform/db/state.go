package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const stateRowID = "primary"

// StatePersister stores the whole HRIS document as one JSONB row. Each save
// bumps the row version.
type StatePersister struct {
	Pool *pgxpool.Pool
}

func NewStatePersister(pool *pgxpool.Pool) *StatePersister {
	return &StatePersister{Pool: pool}
}

func (p *StatePersister) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := p.Pool.QueryRow(ctx, "SELECT body FROM hris_state WHERE id = $1", stateRowID).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (p *StatePersister) Save(ctx context.Context, data []byte) error {
	_, err := p.Pool.Exec(ctx, `
    INSERT INTO hris_state (id, body)
    VALUES ($1, $2::jsonb)
    ON CONFLICT (id) DO UPDATE
    SET body = EXCLUDED.body, version = hris_state.version + 1, updated_at = now()
  `, stateRowID, string(data))
	return err
}

func (p *StatePersister) Version(ctx context.Context) (int64, error) {
	var version int64
	err := p.Pool.QueryRow(ctx, "SELECT version FROM hris_state WHERE id = $1", stateRowID).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

func (p *StatePersister) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}
