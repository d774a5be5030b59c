package certificate

import (
	"context"
	"io"
	"strings"

	"github.com/hostelmed/clinic/internal/platform/blobstore"
	"github.com/hostelmed/clinic/pkg/validate"
)

type Service struct {
	repo  Repository
	store blobstore.Store
}

func NewService(repo Repository, store blobstore.Store) *Service {
	return &Service{repo: repo, store: store}
}

func (s *Service) validate(in *AttachInput) error {
	if strings.TrimSpace(in.SerialNo) == "" {
		return validate.Errorf("serial_no is required")
	}
	if in.VisitID <= 0 {
		return validate.Errorf("visit_id is required")
	}
	if in.Age <= 0 {
		return validate.Errorf("age must be positive")
	}
	if strings.TrimSpace(in.Gender) == "" {
		return validate.Errorf("gender is required")
	}
	return nil
}

// Attach stores the uploaded document and inserts the certificate row
// referencing it. The file write happens first; if the insert then fails for
// any reason the stored file is removed, so a rejected attachment never
// leaves a blob referenced by nothing. Returns ErrDuplicate when the serial
// number or the visit link is already taken, ErrVisitNotFound when the visit
// record does not exist.
func (s *Service) Attach(ctx context.Context, in *AttachInput, originalName string, content io.Reader) (*Certificate, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	fileName, err := s.store.Save(ctx, originalName, content)
	if err != nil {
		return nil, err
	}

	cert := &Certificate{
		SerialNo:    in.SerialNo,
		VisitID:     in.VisitID,
		Age:         in.Age,
		Gender:      in.Gender,
		Relaxations: in.Relaxations,
		FileName:    fileName,
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		// Best effort: the sweeper catches anything this misses.
		_ = s.store.Delete(ctx, fileName)
		return nil, err
	}
	return cert, nil
}

func (s *Service) ListByRollNo(ctx context.Context, rollNo string) ([]*Certificate, error) {
	return s.repo.ListByRollNo(ctx, rollNo)
}

// Download opens the stored document and reports the roll number of the
// student it belongs to, so the caller can enforce ownership.
func (s *Service) Download(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	owner, err := s.repo.OwnerByFileName(ctx, fileName)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.store.Open(ctx, fileName)
	if err != nil {
		return nil, "", err
	}
	return rc, owner, nil
}
