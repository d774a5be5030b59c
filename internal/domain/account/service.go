package account

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hostelmed/clinic/internal/platform/auth"
	"github.com/hostelmed/clinic/pkg/validate"
)

// ErrInvalidCredentials covers bad passwords and role mismatches so a caller
// cannot probe which of the two failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	users  Repository
	issuer *auth.Issuer
}

func NewService(users Repository, issuer *auth.Issuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Register provisions a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, rollNo, role, name, password string) (*User, error) {
	if rollNo == "" {
		return nil, validate.Errorf("roll_no is required")
	}
	if name == "" {
		return nil, validate.Errorf("name is required")
	}
	if !auth.ValidRole(role) {
		return nil, validate.Errorf("invalid role: %s", role)
	}
	if len(password) < 8 {
		return nil, validate.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{RollNo: rollNo, Role: role, Name: name, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the password and requested role against the stored user and
// returns a signed bearer token.
func (s *Service) Login(ctx context.Context, rollNo, password, role string) (string, *User, error) {
	u, err := s.users.GetByRollNo(ctx, rollNo)
	if errors.Is(err, ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if u.Role != role {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.RollNo, u.Role, u.Name)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// Lookup returns the user for a roll number.
func (s *Service) Lookup(ctx context.Context, rollNo string) (*User, error) {
	return s.users.GetByRollNo(ctx, rollNo)
}

// UpdateHostelDetails replaces the caller's hostel and room fields.
func (s *Service) UpdateHostelDetails(ctx context.Context, rollNo string, details HostelDetails) error {
	if details.Hostel == "" {
		return validate.Errorf("hostel is required")
	}
	if details.Room == "" {
		return validate.Errorf("room is required")
	}
	return s.users.UpdateHostelDetails(ctx, rollNo, details.Hostel, details.Room)
}
