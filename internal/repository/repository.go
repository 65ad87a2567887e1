// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Every query returning a single row wraps pgx.ErrNoRows with
// sqlerr.WithTable so the not-found message can name the entity.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// whereClause collects filter conditions as pgx named arguments.
type whereClause struct {
	conds []string
	args  pgx.NamedArgs
}

func newWhere() *whereClause {
	return &whereClause{args: pgx.NamedArgs{}}
}

func (w *whereClause) add(cond, name string, value any) {
	w.conds = append(w.conds, cond)
	w.args[name] = value
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// collectOne runs a single-row query and maps it onto T by column name.
func collectOne[T any](ctx context.Context, q querier, table, sql string, args ...any) (*T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query for %s: %w", table, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, wrapRowErr(table, err)
	}

	return item, nil
}

// collectMany maps every row onto T. An empty result is an empty slice.
func collectMany[T any](ctx context.Context, q querier, table, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query for %s: %w", table, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:%s: %w", table, err)
	}

	if items == nil {
		items = []T{}
	}
	return items, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
