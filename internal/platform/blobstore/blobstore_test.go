package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{"fs": fs, "mem": NewMemStore()}
}

func TestSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	for label, store := range testStores(t) {
		t.Run(label, func(t *testing.T) {
			name, err := store.Save(ctx, "certificate.pdf", strings.NewReader("%PDF-1.4 data"))
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if !ValidStoredName(name) {
				t.Errorf("generated name %q does not match stored-name pattern", name)
			}
			if !strings.HasSuffix(name, ".pdf") {
				t.Errorf("expected .pdf suffix, got %q", name)
			}

			rc, err := store.Open(ctx, name)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			data, _ := io.ReadAll(rc)
			rc.Close()
			if string(data) != "%PDF-1.4 data" {
				t.Errorf("content mismatch: %q", data)
			}

			if err := store.Delete(ctx, name); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Open(ctx, name); err != ErrNotFound {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestSave_RejectsExtension(t *testing.T) {
	ctx := context.Background()
	for label, store := range testStores(t) {
		t.Run(label, func(t *testing.T) {
			if _, err := store.Save(ctx, "malware.exe", strings.NewReader("x")); err == nil {
				t.Error("expected error for disallowed extension")
			}
		})
	}
}

func TestSave_RejectsOversize(t *testing.T) {
	ctx := context.Background()
	big := strings.NewReader(strings.Repeat("a", MaxFileSize+1))
	store := NewMemStore()
	if _, err := store.Save(ctx, "big.pdf", big); err != ErrFileTooLarge {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestOpen_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Open(ctx, "../../etc/passwd"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for traversal attempt, got %v", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	for label, store := range testStores(t) {
		t.Run(label, func(t *testing.T) {
			a, _ := store.Save(ctx, "a.pdf", strings.NewReader("one"))
			b, _ := store.Save(ctx, "b.png", strings.NewReader("two"))

			infos, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(infos) != 2 {
				t.Fatalf("expected 2 files, got %d", len(infos))
			}
			names := map[string]bool{}
			for _, info := range infos {
				names[info.Name] = true
			}
			if !names[a] || !names[b] {
				t.Errorf("missing stored names in %v", names)
			}
		})
	}
}
