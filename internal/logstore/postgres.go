package logstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the log in an append-only chat_records table. Record
// order is the bigserial id; absolute index maps to row offset at read time.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT record FROM chat_records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []string{}
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Append(ctx context.Context, record string) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO chat_records (record) VALUES ($1)`, record)
	return err
}

// RemoveAt deletes the index-th record in id order. The offset lookup and
// the delete run in one transaction so a concurrent append cannot shift
// the target between the two statements.
func (s *PostgresStore) RemoveAt(ctx context.Context, index int) error {
	if index < 0 {
		return ErrIndexOutOfRange
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM chat_records ORDER BY id OFFSET $1 LIMIT 1
	`, index).Scan(&id)
	if err == pgx.ErrNoRows {
		return ErrIndexOutOfRange
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM chat_records WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE chat_records`)
	return err
}
