package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"
)

// Session is the single source of truth for "who is logged in".
// Exactly one session is active per store at a time.
type Session struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// persistedSession is the storage layout: the session nests under a
// "state" key, and the nesting must be preserved for interoperability
// with existing persisted blobs.
type persistedSession struct {
	State Session `json:"state"`
}

// SessionStore persists the session blob across restarts. Load returns
// a zero Session when nothing is stored; a non-nil error means the
// stored blob exists but could not be decoded.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileSessionStore keeps the session blob in a single JSON file.
type FileSessionStore struct {
	path string
	mu   sync.Mutex
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, err
	}

	var blob persistedSession
	if err := json.Unmarshal(data, &blob); err != nil {
		return Session{}, err
	}
	return blob.State, nil
}

func (s *FileSessionStore) Save(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(persistedSession{State: session})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemorySessionStore holds the session blob in memory. It serializes
// through the same JSON layout as the file store so malformed-blob
// behavior can be exercised in tests.
type MemorySessionStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// SetRaw replaces the stored blob with arbitrary bytes.
func (s *MemorySessionStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

func (s *MemorySessionStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) == 0 {
		return Session{}, nil
	}

	var blob persistedSession
	if err := json.Unmarshal(s.data, &blob); err != nil {
		return Session{}, err
	}
	return blob.State, nil
}

func (s *MemorySessionStore) Save(session Session) error {
	data, err := json.Marshal(persistedSession{State: session})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
