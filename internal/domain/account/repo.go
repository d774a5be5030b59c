package account

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("roll number already registered")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByRollNo(ctx context.Context, rollNo string) (*User, error)
	UpdateHostelDetails(ctx context.Context, rollNo, hostel, room string) error
}
