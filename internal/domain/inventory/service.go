package inventory

import (
	"context"
	"strings"

	"github.com/hostelmed/clinic/pkg/validate"
)

type Service struct {
	items Repository
}

func NewService(items Repository) *Service {
	return &Service{items: items}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Item, int, error) {
	return s.items.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, medicine string) (*Item, error) {
	return s.items.Get(ctx, medicine)
}

// Restock adds quantity units of a medicine, creating the row if new.
func (s *Service) Restock(ctx context.Context, medicine string, quantity int) (*Item, error) {
	medicine = strings.TrimSpace(medicine)
	if medicine == "" {
		return nil, validate.Errorf("medicine is required")
	}
	if quantity < 1 {
		return nil, validate.Errorf("quantity must be at least 1")
	}
	return s.items.Upsert(ctx, medicine, quantity)
}

// Dispense removes quantity units of a medicine if enough stock remains. It
// reports false without error when the medicine is unknown or under-stocked,
// so a caller inside a transaction can roll back.
func (s *Service) Dispense(ctx context.Context, medicine string, quantity int) (bool, error) {
	if quantity < 1 {
		return false, validate.Errorf("quantity must be at least 1")
	}
	return s.items.Decrement(ctx, medicine, quantity)
}
