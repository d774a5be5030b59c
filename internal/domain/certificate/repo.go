package certificate

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("certificate not found")
	ErrDuplicate     = errors.New("certificate already exists")
	ErrVisitNotFound = errors.New("visit record not found")
)

type Repository interface {
	Create(ctx context.Context, cert *Certificate) error
	ListByRollNo(ctx context.Context, rollNo string) ([]*Certificate, error)
	// OwnerByFileName resolves a stored file name to the roll number of the
	// student whose visit the certificate belongs to.
	OwnerByFileName(ctx context.Context, fileName string) (string, error)
	// FileNames returns every file name the database references. The sweeper
	// uses it to identify orphaned blobs.
	FileNames(ctx context.Context) (map[string]struct{}, error)
}
