package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostelmed/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Item, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT medicine, stock FROM inventory
		ORDER BY medicine
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Medicine, &it.Stock); err != nil {
			return nil, 0, err
		}
		items = append(items, &it)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Get(ctx context.Context, medicine string) (*Item, error) {
	var it Item
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT medicine, stock FROM inventory WHERE medicine = $1`, medicine).
		Scan(&it.Medicine, &it.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repoPG) Upsert(ctx context.Context, medicine string, quantity int) (*Item, error) {
	var it Item
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO inventory (medicine, stock) VALUES ($1, $2)
		ON CONFLICT (medicine) DO UPDATE SET stock = inventory.stock + EXCLUDED.stock
		RETURNING medicine, stock`, medicine, quantity).
		Scan(&it.Medicine, &it.Stock)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repoPG) Decrement(ctx context.Context, medicine string, quantity int) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE inventory SET stock = stock - $2
		WHERE medicine = $1 AND stock >= $2`, medicine, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
