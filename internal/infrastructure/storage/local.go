package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is the path under which stored images are served.
const URLPrefix = "/uploads"

// LocalImageStore writes uploaded images to a directory on disk.
type LocalImageStore struct {
	dir string
}

// NewLocalImageStore creates dir if needed and returns a store rooted there.
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Dir returns the directory served at URLPrefix.
func (s *LocalImageStore) Dir() string {
	return s.dir
}

// Save stores data under a collision-free name built from a random UUID and
// the owner's ID, and returns its URL path. filename is informational only.
func (s *LocalImageStore) Save(ctx context.Context, ownerID, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s%s", uuid.NewString(), sanitize(ownerID), extension(data))
	dst := filepath.Join(s.dir, name)

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(URLPrefix, name), nil
}

// extension comes from the sniffed content only. The static handler picks
// the response Content-Type from it, so the uploaded name must not decide it.
func extension(data []byte) string {
	return mimetype.Detect(data).Extension()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return -1
	}, s)
}
