package visit

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("visit record not found")

type Repository interface {
	CreateVisit(ctx context.Context, v *VisitRecord) error
	AddLine(ctx context.Context, l *DispensedLine) error
	GetVisit(ctx context.Context, id int64) (*VisitRecord, error)
	HistoryByRollNo(ctx context.Context, rollNo string, limit, offset int) ([]*HistoryEntry, int, error)
	DayLog(ctx context.Context, day time.Time, limit, offset int) ([]*HistoryEntry, int, error)
}
