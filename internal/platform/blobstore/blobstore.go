// Package blobstore stores certificate documents outside the database. It
// defines the Store interface, a filesystem implementation used in
// production, and an in-memory implementation for tests. Stored files are
// addressed by an opaque generated name; the database keeps the reference.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("stored file not found")
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	ErrBadExtension = errors.New("file extension is not allowed")
)

// MaxFileSize is the maximum allowed upload size in bytes (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedExtensions lists the certificate document types the office accepts.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

var storedNamePattern = regexp.MustCompile(`^[a-f0-9-]{36}\.[a-z]+$`)

// ValidStoredName reports whether name looks like a name this store produced.
// Handlers use it to reject path traversal in download requests.
func ValidStoredName(name string) bool {
	return storedNamePattern.MatchString(name)
}

// FileInfo describes a stored file.
type FileInfo struct {
	Name     string
	Size     int64
	StoredAt time.Time
}

// Store is the contract for certificate file storage backends.
type Store interface {
	// Save validates and persists the content under a generated name derived
	// from the original filename's extension, and returns that name.
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]FileInfo, error)
}

func generateName(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !AllowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrBadExtension, ext)
	}
	return uuid.NewString() + ext, nil
}

// ---------------------------------------------------------------------------
// Filesystem implementation
// ---------------------------------------------------------------------------

// FSStore persists files under a single directory.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory %s: %w", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) Save(_ context.Context, originalName string, content io.Reader) (string, error) {
	name, err := generateName(originalName)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(content, MaxFileSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > MaxFileSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	return name, nil
}

func (s *FSStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !ValidStoredName(name) {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *FSStore) Delete(_ context.Context, name string) error {
	if !ValidStoredName(name) {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (s *FSStore) List(_ context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read blob directory: %w", err)
	}
	var infos []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !ValidStoredName(entry.Name()) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, FileInfo{Name: entry.Name(), Size: fi.Size(), StoredAt: fi.ModTime()})
	}
	return infos, nil
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

type memFile struct {
	content  []byte
	storedAt time.Time
}

// MemStore is a thread-safe, in-memory Store for tests.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]memFile
}

func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string]memFile)}
}

func (s *MemStore) Save(_ context.Context, originalName string, content io.Reader) (string, error) {
	name, err := generateName(originalName)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	s.mu.Lock()
	s.files[name] = memFile{content: data, storedAt: time.Now()}
	s.mu.Unlock()
	return name, nil
}

func (s *MemStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.RLock()
	f, ok := s.files[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(strings.NewReader(string(f.content))), nil
}

func (s *MemStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		return ErrNotFound
	}
	delete(s.files, name)
	return nil
}

func (s *MemStore) List(_ context.Context) ([]FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]FileInfo, 0, len(s.files))
	for name, f := range s.files {
		infos = append(infos, FileInfo{Name: name, Size: int64(len(f.content)), StoredAt: f.storedAt})
	}
	return infos, nil
}

// SetStoredAt backdates a stored file. Test helper for sweep scenarios.
func (s *MemStore) SetStoredAt(name string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[name]; ok {
		f.storedAt = at
		s.files[name] = f
	}
}
