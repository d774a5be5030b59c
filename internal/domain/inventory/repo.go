package inventory

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("medicine not found")

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]*Item, int, error)
	Get(ctx context.Context, medicine string) (*Item, error)
	// Upsert inserts the medicine or adds the given quantity to its stock.
	Upsert(ctx context.Context, medicine string, quantity int) (*Item, error)
	// Decrement subtracts quantity from the medicine's stock only if enough
	// remains, in a single conditional UPDATE. It reports false when the
	// medicine is unknown or stock is insufficient.
	Decrement(ctx context.Context, medicine string, quantity int) (bool, error)
}
