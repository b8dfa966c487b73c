package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps attachments in a directory on disk.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir. The directory is created on
// first write.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Dir returns the root directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, name string, body io.Reader, _ string) error {
	if !validName(name) {
		return fmt.Errorf("save attachment: invalid name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// MkdirAll succeeds if another request created the directory first.
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("write attachment: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close attachment: %w", err)
	}
	return nil
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	return f, nil
}
