package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single file, mode 0600.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Session is the single owner of auth state and the caller's upload count.
// Components read it through accessors and never cache its values; writes
// notify registered observers so dependent state can recompute.
type Session struct {
	mu          sync.RWMutex
	token       string
	userID      string
	userName    string
	uploadCount int
	store       TokenStore
	observers   []func()
}

// NewSession restores any persisted token from the store. A nil store means
// the session lives only as long as the process.
func NewSession(store TokenStore) (*Session, error) {
	s := &Session{store: store}
	if store != nil {
		token, err := store.Load()
		if err != nil {
			return nil, err
		}
		s.token = token
	}
	return s, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName
}

func (s *Session) UploadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploadCount
}

// SetToken records a login (or logout, with empty values) and persists the
// token. Store failures do not roll back the in-memory state; the session
// stays usable for the current run.
func (s *Session) SetToken(token, userID, userName string) error {
	s.mu.Lock()
	s.token = token
	s.userID = userID
	s.userName = userName
	if token == "" {
		s.uploadCount = 0
	}
	s.mu.Unlock()
	s.notify()

	if s.store == nil {
		return nil
	}
	if token == "" {
		return s.store.Clear()
	}
	return s.store.Save(token)
}

func (s *Session) SetUploadCount(n int) {
	s.mu.Lock()
	changed := s.uploadCount != n
	s.uploadCount = n
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Subscribe registers an observer called after every state change. The
// returned function removes it.
func (s *Session) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
	idx := len(s.observers) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.observers) {
			s.observers[idx] = nil
		}
	}
}

func (s *Session) notify() {
	s.mu.RLock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		if fn != nil {
			fn()
		}
	}
}
