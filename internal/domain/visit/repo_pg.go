package visit

import (
	"context"
	"errors"
	"time"

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

func (r *repoPG) CreateVisit(ctx context.Context, v *VisitRecord) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO visits (roll_no, diagnosis, remarks)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		v.RollNo, v.Diagnosis, v.Remarks).
		Scan(&v.ID, &v.CreatedAt)
}

func (r *repoPG) AddLine(ctx context.Context, l *DispensedLine) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO dispensed_lines (visit_id, medicine, quantity)
		VALUES ($1, $2, $3)
		RETURNING id`,
		l.VisitID, l.Medicine, l.Quantity).
		Scan(&l.ID)
}

func (r *repoPG) GetVisit(ctx context.Context, id int64) (*VisitRecord, error) {
	var v VisitRecord
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, roll_no, diagnosis, remarks, created_at
		FROM visits WHERE id = $1`, id).
		Scan(&v.ID, &v.RollNo, &v.Diagnosis, &v.Remarks, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// historyQuery joins visits with an aggregated medication summary and the
// certificate link, one row per visit.
const historyQuery = `
	SELECT v.id, v.roll_no, v.diagnosis, v.remarks, v.created_at,
		COALESCE(string_agg(dl.medicine || ' x' || dl.quantity, ', ' ORDER BY dl.id), ''),
		c.serial_no
	FROM visits v
	LEFT JOIN dispensed_lines dl ON dl.visit_id = v.id
	LEFT JOIN certificates c ON c.visit_id = v.id`

func (r *repoPG) scanEntries(rows pgx.Rows) ([]*HistoryEntry, error) {
	defer rows.Close()
	var entries []*HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.VisitID, &e.RollNo, &e.Diagnosis, &e.Remarks, &e.CreatedAt,
			&e.Medications, &e.CertificateSerial); err != nil {
			return nil, err
		}
		e.HasCertificate = e.CertificateSerial != nil
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *repoPG) HistoryByRollNo(ctx context.Context, rollNo string, limit, offset int) ([]*HistoryEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM visits WHERE roll_no = $1`, rollNo).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, historyQuery+`
		WHERE v.roll_no = $1
		GROUP BY v.id, c.serial_no
		ORDER BY v.created_at DESC
		LIMIT $2 OFFSET $3`, rollNo, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	entries, err := r.scanEntries(rows)
	return entries, total, err
}

func (r *repoPG) DayLog(ctx context.Context, day time.Time, limit, offset int) ([]*HistoryEntry, int, error) {
	// Dates are compared in UTC so day boundaries do not depend on the
	// server's timezone; the handler parses the date as UTC midnight.
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM visits WHERE (created_at AT TIME ZONE 'UTC')::date = $1::date`, day).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, historyQuery+`
		WHERE (v.created_at AT TIME ZONE 'UTC')::date = $1::date
		GROUP BY v.id, c.serial_no
		ORDER BY v.created_at DESC
		LIMIT $2 OFFSET $3`, day, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	entries, err := r.scanEntries(rows)
	return entries, total, err
}
