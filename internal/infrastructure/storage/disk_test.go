package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskStore_PutAndExists(t *testing.T) {
	root := t.TempDir()
	s := NewDiskStore(root, "uploads/")
	ctx := context.Background()

	key := "2025/05/abc_foto.png"
	ok, err := s.Exists(ctx, key)
	if err != nil || ok {
		t.Fatalf("expected missing file, got ok=%v err=%v", ok, err)
	}

	if err := s.Put(ctx, key, []byte("data")); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, err = s.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected stored file, got ok=%v err=%v", ok, err)
	}

	got, err := os.ReadFile(filepath.Join(root, "2025", "05", "abc_foto.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "data" {
		t.Fatalf("unexpected content %q", got)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "2025", "05"))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestDiskStore_URL(t *testing.T) {
	s := NewDiskStore(t.TempDir(), "/uploads")
	if got := s.URL("2025/05/a.png"); got != "/uploads/2025/05/a.png" {
		t.Fatalf("unexpected url %q", got)
	}
	if s.PublicPath() != "/uploads" {
		t.Fatalf("unexpected public path %q", s.PublicPath())
	}
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	s := NewDiskStore(t.TempDir(), "/uploads")
	for _, key := range []string{"../etc/passwd", "2025/../../x", ""} {
		if err := s.Put(context.Background(), key, []byte("x")); !errors.Is(err, errUnsafeKey) {
			t.Errorf("%q: expected errUnsafeKey, got %v", key, err)
		}
	}
}
