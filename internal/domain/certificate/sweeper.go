package certificate

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostelmed/clinic/internal/platform/blobstore"
)

// Sweeper deletes stored files that no certificate row references. The file
// write and the database insert are not atomic across resources, so a crash
// between the two can strand a blob; the sweep closes that gap. Files
// younger than minAge are left alone to avoid racing an in-flight attach.
type Sweeper struct {
	repo   Repository
	store  blobstore.Store
	log    zerolog.Logger
	minAge time.Duration
}

func NewSweeper(repo Repository, store blobstore.Store, log zerolog.Logger) *Sweeper {
	return &Sweeper{repo: repo, store: store, log: log, minAge: time.Hour}
}

func (s *Sweeper) Run(ctx context.Context) error {
	files, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	referenced, err := s.repo.FileNames(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-s.minAge)
	removed := 0
	for _, f := range files {
		if f.StoredAt.After(cutoff) {
			continue
		}
		if _, ok := referenced[f.Name]; ok {
			continue
		}
		if err := s.store.Delete(ctx, f.Name); err != nil {
			s.log.Warn().Err(err).Str("file", f.Name).Msg("failed to remove orphaned file")
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("swept orphaned certificate files")
	}
	return nil
}
