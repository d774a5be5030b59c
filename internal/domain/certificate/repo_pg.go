package certificate

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

func (r *repoPG) Create(ctx context.Context, cert *Certificate) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO certificates (serial_no, visit_id, age, gender, relaxations, file_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		cert.SerialNo, cert.VisitID, cert.Age, cert.Gender, cert.Relaxations, cert.FileName).
		Scan(&cert.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrVisitNotFound
		}
	}
	return err
}

func (r *repoPG) ListByRollNo(ctx context.Context, rollNo string) ([]*Certificate, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT c.serial_no, c.visit_id, c.age, c.gender, c.relaxations, c.file_name, c.created_at
		FROM certificates c
		JOIN visits v ON v.id = c.visit_id
		WHERE v.roll_no = $1
		ORDER BY c.created_at DESC`, rollNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []*Certificate
	for rows.Next() {
		var c Certificate
		if err := rows.Scan(&c.SerialNo, &c.VisitID, &c.Age, &c.Gender,
			&c.Relaxations, &c.FileName, &c.CreatedAt); err != nil {
			return nil, err
		}
		certs = append(certs, &c)
	}
	return certs, rows.Err()
}

func (r *repoPG) OwnerByFileName(ctx context.Context, fileName string) (string, error) {
	var rollNo string
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT v.roll_no
		FROM certificates c
		JOIN visits v ON v.id = c.visit_id
		WHERE c.file_name = $1`, fileName).
		Scan(&rollNo)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return rollNo, err
}

func (r *repoPG) FileNames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT file_name FROM certificates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names[name] = struct{}{}
	}
	return names, rows.Err()
}
