package store

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"classbalance/server/engine"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Card pool
------------------------------*/

// ImportCards replaces the whole cards table with pool, preserving order.
func (db *DB) ImportCards(ctx context.Context, pool engine.Pool) (int64, error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // safe if already committed

	if _, err := tx.Exec(ctx, `TRUNCATE cards RESTART IDENTITY`); err != nil {
		return 0, fmt.Errorf("truncate cards: %w", err)
	}
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"cards"},
		[]string{"name", "class", "cost", "attack", "health"},
		pgx.CopyFromSlice(len(pool), func(i int) ([]any, error) {
			c := pool[i]
			return []any{c.Name, c.Class, c.Cost, c.Attack, c.Health}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy cards: %w", err)
	}
	return n, tx.Commit(ctx)
}

// LoadPool returns every card in import order.
func (db *DB) LoadPool(ctx context.Context) (engine.Pool, error) {
	rows, err := db.Query(ctx, `SELECT name, class, cost, attack, health FROM cards ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out engine.Pool
	for rows.Next() {
		var c engine.CardRecord
		if err := rows.Scan(&c.Name, &c.Class, &c.Cost, &c.Attack, &c.Health); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClassCounts is the per-class population straight from SQL.
func (db *DB) ClassCounts(ctx context.Context) (map[string]int, error) {
	rows, err := db.Query(ctx, `SELECT class, COUNT(*)::int FROM cards GROUP BY class`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var cls string
		var n int
		if err := rows.Scan(&cls, &n); err != nil {
			return nil, err
		}
		out[cls] = n
	}
	return out, rows.Err()
}
