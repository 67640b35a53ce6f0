// Package authstore persists the client session between runs.
package authstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/core/domain"
)

// Session pairs a bearer token with the profile it was issued for.
type Session struct {
	Token string
	User  domain.User
}

// Valid reports whether the session carries both a token and a user.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != ""
}

// Store keeps at most one session. Implementations never fail loudly:
// write problems are logged and reads that fail return ok=false.
type Store interface {
	Save(s Session)
	Load() (Session, bool)
	Clear()
}

// storedUser is the serialised profile kept under auth_user.
type storedUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// record is the on-disk layout: the two keys always travel together.
type record struct {
	Token string      `json:"auth_token"`
	User  *storedUser `json:"auth_user"`
}

// FileStore keeps the session in a single JSON file.
type FileStore struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Save writes token and user in one atomic rename.
func (s *FileStore) Save(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(toRecord(sess))
	if err != nil {
		s.log.Warn().Err(err).Msg("encode session")
		return
	}
	if err := writeAtomic(s.path, data); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("persist session")
	}
}

// Load returns the stored session. A missing, unreadable or half-written
// file counts as no session.
func (s *FileStore) Load() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("read session")
		}
		return Session{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("decode session")
		return Session{}, false
	}
	sess, ok := fromRecord(rec)
	return sess, ok
}

// Clear removes both keys.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", s.path).Msg("clear session")
	}
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// MemoryStore keeps the session in memory.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
	ok      bool
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session, m.ok = s, true
}

func (m *MemoryStore) Load() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.ok
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session, m.ok = Session{}, false
}
