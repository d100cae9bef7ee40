// Package storage keeps uploaded files on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var errUnsafeKey = errors.New("storage key escapes the upload root")

// DiskStore stores blobs below a root directory and serves them under a
// public URL prefix.
type DiskStore struct {
	root       string
	publicPath string
}

func NewDiskStore(root, publicPath string) *DiskStore {
	publicPath = "/" + strings.Trim(publicPath, "/")
	return &DiskStore{root: root, publicPath: publicPath}
}

// Root returns the directory files are written to.
func (s *DiskStore) Root() string { return s.root }

// PublicPath returns the URL prefix files are served under.
func (s *DiskStore) PublicPath() string { return s.publicPath }

func (s *DiskStore) Exists(_ context.Context, key string) (bool, error) {
	p, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Put writes data to key. The file only becomes visible once fully written.
func (s *DiskStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *DiskStore) URL(key string) string {
	return path.Join(s.publicPath, key)
}

func (s *DiskStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", errUnsafeKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}
