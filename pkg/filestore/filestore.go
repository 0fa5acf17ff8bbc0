package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists uploaded note files. The local implementation writes
// under a single directory; the interface keeps an object-store swap cheap.
type FileStore interface {
	Save(name string, content io.Reader) (storedName string, err error)
	Open(storedName string) (io.ReadSeekCloser, error)
	Remove(storedName string) error
	Path(storedName string) string
}

type localFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localFileStore{dir: dir}, nil
}

func (fs *localFileStore) Save(name string, content io.Reader) (string, error) {
	stored := uuid.NewString() + "_" + sanitizeName(name)
	f, err := os.Create(filepath.Join(fs.dir, stored))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return stored, nil
}

func (fs *localFileStore) Open(storedName string) (io.ReadSeekCloser, error) {
	return os.Open(fs.Path(storedName))
}

func (fs *localFileStore) Remove(storedName string) error {
	err := os.Remove(fs.Path(storedName))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (fs *localFileStore) Path(storedName string) string {
	// Base strips any path components a hostile client smuggled in.
	return filepath.Join(fs.dir, filepath.Base(storedName))
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
