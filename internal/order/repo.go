package order

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id          TEXT PRIMARY KEY,
		net_total   BIGINT NOT NULL,
		cgst        BIGINT NOT NULL,
		sgst        BIGINT NOT NULL,
		grand_total BIGINT NOT NULL,
		placed_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id   TEXT NOT NULL REFERENCES orders(id),
		position   INT NOT NULL,
		dish_id    TEXT NOT NULL,
		name       TEXT NOT NULL,
		unit_price BIGINT NOT NULL,
		quantity   INT NOT NULL,
		image_url  TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (order_id, position)
	)`,
}

type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

func (r *PGStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *PGStore) Append(ctx context.Context, o Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, net_total, cgst, sgst, grand_total, placed_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, o.ID, o.Subtotal, o.CGST, o.SGST, o.Total, o.PlacedAt); err != nil {
		return err
	}

	for i, l := range o.Lines {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_lines (order_id, position, dish_id, name, unit_price, quantity, image_url)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, o.ID, i, l.DishID, l.Name, l.UnitPrice, l.Quantity, l.ImageURL); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGStore) LoadAll(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT id, net_total, cgst, sgst, grand_total, placed_at
    FROM orders
  `)
	if err != nil {
		return nil, err
	}
	var out []Order
	index := map[string]int{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Subtotal, &o.CGST, &o.SGST, &o.Total, &o.PlacedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.db.Query(ctx, `
    SELECT order_id, dish_id, name, unit_price, quantity, image_url
    FROM order_lines
    ORDER BY order_id, position
  `)
	if err != nil {
		return nil, err
	}
	defer lines.Close()
	for lines.Next() {
		var (
			orderID string
			l       Line
		)
		if err := lines.Scan(&orderID, &l.DishID, &l.Name, &l.UnitPrice, &l.Quantity, &l.ImageURL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		if i, ok := index[orderID]; ok {
			out[i].Lines = append(out[i].Lines, l)
		}
	}
	return out, lines.Err()
}
