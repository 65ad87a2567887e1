package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/robotics-club/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func wrapRowErr(table string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlerr.WithTable(table, err)
	}
	return fmt.Errorf("failed to collect row from table:%s: %w", table, err)
}

// deleteByID removes one row and reports pgx.ErrNoRows when nothing matched.
func deleteByID(ctx context.Context, q querier, table string, id uuid.UUID) error {
	tag, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WithTable(table, pgx.ErrNoRows)
	}
	return nil
}

// lockedUpdate loads the row FOR UPDATE, lets mutate change it and writes
// it back with write in the same transaction. Concurrent updates of the
// same row are serialized. An error from mutate rolls back and is returned
// unchanged.
func lockedUpdate[T any](
	ctx context.Context,
	db *pgxpool.Pool,
	table string,
	id uuid.UUID,
	mutate func(*T) error,
	write func(ctx context.Context, q querier, v *T) (*T, error),
) (*T, error) {
	var out *T
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		row, err := collectOne[T](ctx, tx, table, "SELECT * FROM "+table+" WHERE id = $1 FOR UPDATE", id)
		if err != nil {
			return err
		}
		if err := mutate(row); err != nil {
			return err
		}
		out, err = write(ctx, tx, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
