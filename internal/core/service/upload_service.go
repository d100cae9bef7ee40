package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

const (
	hashPrefixLen = 16
	maxNameLen    = 50
	fallbackName  = "file"
)

// UploadService validates and stores image uploads. Files are stored under
// YYYY/MM/<hash>_<name><ext>; identical content uploaded in the same month
// resolves to the same key and is stored once.
type UploadService struct {
	store    ports.FileStore
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
}

func NewUploadService(store ports.FileStore, maxBytes int64, log zerolog.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = domain.MaxUploadBytes
	}
	return &UploadService{store: store, maxBytes: maxBytes, log: log, now: time.Now}
}

func (s *UploadService) Upload(ctx context.Context, in ports.UploadInput) (*domain.UploadedFile, error) {
	if in.Body == nil {
		return nil, domain.ErrEmptyUpload
	}
	if in.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, in.Size)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrEmptyUpload
	}
	if n > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrFileTooLarge, s.maxBytes)
	}
	data := buf.Bytes()

	mime, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	ext, ok := domain.AllowedUploadTypes[mime]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileTypeNotAllowed, mime)
	}

	sum := blake3.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	filename := hash[:hashPrefixLen] + "_" + sanitizeName(in.Filename) + ext
	now := s.now().UTC()
	key := path.Join(now.Format("2006"), now.Format("01"), filename)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if !exists {
		if err := s.store.Put(ctx, key, data); err != nil {
			return nil, fmt.Errorf("store upload: %w", err)
		}
	}

	s.log.Info().Str("key", key).Int64("size", n).Str("type", mime).Bool("deduplicated", exists).Msg("file uploaded")
	return &domain.UploadedFile{
		URL:          s.store.URL(key),
		Filename:     filename,
		OriginalName: in.Filename,
		Size:         n,
		Type:         mime,
		Hash:         hash,
		Deduplicated: exists,
	}, nil
}

// sanitizeName reduces a client file name to a short slug without extension.
func sanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	slug := domain.Slugify(strings.ReplaceAll(base, "_", "-"))
	if len(slug) > maxNameLen {
		slug = strings.TrimRight(slug[:maxNameLen], "-")
	}
	if slug == "" {
		return fallbackName
	}
	return slug
}
