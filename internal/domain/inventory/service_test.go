package inventory

import (
	"context"
	"sort"
	"testing"
)

// -- Mock Repository --

type mockRepo struct {
	stock map[string]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{stock: make(map[string]int)}
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Item, int, error) {
	names := make([]string, 0, len(m.stock))
	for name := range m.stock {
		names = append(names, name)
	}
	sort.Strings(names)

	var items []*Item
	for i, name := range names {
		if i < offset || i >= offset+limit {
			continue
		}
		items = append(items, &Item{Medicine: name, Stock: m.stock[name]})
	}
	return items, len(names), nil
}

func (m *mockRepo) Get(_ context.Context, medicine string) (*Item, error) {
	stock, ok := m.stock[medicine]
	if !ok {
		return nil, ErrNotFound
	}
	return &Item{Medicine: medicine, Stock: stock}, nil
}

func (m *mockRepo) Upsert(_ context.Context, medicine string, quantity int) (*Item, error) {
	m.stock[medicine] += quantity
	return &Item{Medicine: medicine, Stock: m.stock[medicine]}, nil
}

func (m *mockRepo) Decrement(_ context.Context, medicine string, quantity int) (bool, error) {
	stock, ok := m.stock[medicine]
	if !ok || stock < quantity {
		return false, nil
	}
	m.stock[medicine] = stock - quantity
	return true, nil
}

// -- Tests --

func TestRestock(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	item, err := svc.Restock(ctx, "Paracetamol", 5)
	if err != nil {
		t.Fatalf("Restock: %v", err)
	}
	if item.Stock != 5 {
		t.Errorf("expected stock 5, got %d", item.Stock)
	}

	item, err = svc.Restock(ctx, "Paracetamol", 3)
	if err != nil {
		t.Fatal(err)
	}
	if item.Stock != 8 {
		t.Errorf("restock should accumulate: expected 8, got %d", item.Stock)
	}
}

func TestRestock_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if _, err := svc.Restock(ctx, "  ", 5); err == nil {
		t.Error("expected error for blank medicine")
	}
	if _, err := svc.Restock(ctx, "Paracetamol", 0); err == nil {
		t.Error("expected error for zero quantity")
	}
}

func TestDispense(t *testing.T) {
	repo := newMockRepo()
	repo.stock["Paracetamol"] = 5
	svc := NewService(repo)
	ctx := context.Background()

	ok, err := svc.Dispense(ctx, "Paracetamol", 3)
	if err != nil || !ok {
		t.Fatalf("expected dispense to succeed, ok=%v err=%v", ok, err)
	}
	if repo.stock["Paracetamol"] != 2 {
		t.Errorf("expected stock 2, got %d", repo.stock["Paracetamol"])
	}
}

func TestDispense_InsufficientStock(t *testing.T) {
	repo := newMockRepo()
	repo.stock["Paracetamol"] = 5
	svc := NewService(repo)

	ok, err := svc.Dispense(context.Background(), "Paracetamol", 10)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("dispense should fail when quantity exceeds stock")
	}
	if repo.stock["Paracetamol"] != 5 {
		t.Errorf("stock must be untouched, got %d", repo.stock["Paracetamol"])
	}
}

func TestDispense_UnknownMedicine(t *testing.T) {
	svc := NewService(newMockRepo())
	ok, err := svc.Dispense(context.Background(), "Unknownium", 1)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("dispense of unknown medicine should report false")
	}
}
