package visit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hostelmed/clinic/pkg/validate"
)

// StockDispenser is the slice of the inventory service the submission
// workflow needs: a conditional decrement that reports false when the
// medicine is unknown or under-stocked.
type StockDispenser interface {
	Dispense(ctx context.Context, medicine string, quantity int) (bool, error)
}

// TxRunner executes fn atomically; everything fn writes through the context
// it receives either commits together or not at all. Production wiring uses
// db.RunInTx.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// InsufficientStockError names the medicine that could not be dispensed.
type InsufficientStockError struct {
	Medicine string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s", e.Medicine)
}

type Service struct {
	visits Repository
	stock  StockDispenser
	inTx   TxRunner
}

func NewService(visits Repository, stock StockDispenser, inTx TxRunner) *Service {
	return &Service{visits: visits, stock: stock, inTx: inTx}
}

func (s *Service) validate(sub *Submission) error {
	if sub.RollNo == "" {
		return validate.Errorf("roll_no is required")
	}
	if strings.TrimSpace(sub.Diagnosis) == "" {
		return validate.Errorf("diagnosis is required")
	}
	for i, line := range sub.Lines {
		if strings.TrimSpace(line.Medicine) == "" {
			return validate.Errorf("line %d: medicine is required", i+1)
		}
		if line.Quantity < 1 {
			return validate.Errorf("line %d: quantity must be at least 1", i+1)
		}
	}
	return nil
}

// Submit runs the record submission workflow: insert the visit, then per
// line insert the dispensed row and decrement stock. Each decrement is a
// single conditional update; a failed decrement aborts the whole
// transaction, so no partial record or stock change ever persists.
// Duplicate medicines in one submission decrement sequentially against
// current stock, consuming cumulatively.
func (s *Service) Submit(ctx context.Context, sub *Submission) (int64, error) {
	if err := s.validate(sub); err != nil {
		return 0, err
	}

	var visitID int64
	err := s.inTx(ctx, func(ctx context.Context) error {
		v := &VisitRecord{RollNo: sub.RollNo, Diagnosis: sub.Diagnosis, Remarks: sub.Remarks}
		if err := s.visits.CreateVisit(ctx, v); err != nil {
			return fmt.Errorf("create visit: %w", err)
		}
		visitID = v.ID

		for _, line := range sub.Lines {
			l := &DispensedLine{VisitID: v.ID, Medicine: line.Medicine, Quantity: line.Quantity}
			if err := s.visits.AddLine(ctx, l); err != nil {
				return fmt.Errorf("add dispensed line: %w", err)
			}
			ok, err := s.stock.Dispense(ctx, line.Medicine, line.Quantity)
			if err != nil {
				return fmt.Errorf("dispense %s: %w", line.Medicine, err)
			}
			if !ok {
				return &InsufficientStockError{Medicine: line.Medicine}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return visitID, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*VisitRecord, error) {
	return s.visits.GetVisit(ctx, id)
}

func (s *Service) History(ctx context.Context, rollNo string, limit, offset int) ([]*HistoryEntry, int, error) {
	return s.visits.HistoryByRollNo(ctx, rollNo, limit, offset)
}

func (s *Service) DayLog(ctx context.Context, day time.Time, limit, offset int) ([]*HistoryEntry, int, error) {
	return s.visits.DayLog(ctx, day, limit, offset)
}
