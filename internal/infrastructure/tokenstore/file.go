package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File persists the session as a small JSON document readable only by the
// owner. Every write replaces the file through a rename, so a reader sees
// either the old pair or the new one.
type File struct {
	mu   sync.Mutex
	path string
}

type fileState struct {
	AuthToken    *string `json:"auth_token,omitempty"`
	RefreshToken *string `json:"refresh_token,omitempty"`
	UserID       *string `json:"user_id,omitempty"`
}

func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file backing the store.
func (f *File) Path() string { return f.path }

func (f *File) SaveTokens(_ context.Context, authToken, refreshToken string) error {
	return f.update(func(s *fileState) {
		s.AuthToken = &authToken
		s.RefreshToken = &refreshToken
	})
}

func (f *File) AuthToken(_ context.Context) (string, bool, error) {
	return f.read(func(s fileState) *string { return s.AuthToken })
}

func (f *File) RefreshToken(_ context.Context) (string, bool, error) {
	return f.read(func(s fileState) *string { return s.RefreshToken })
}

func (f *File) SaveUserID(_ context.Context, id string) error {
	return f.update(func(s *fileState) { s.UserID = &id })
}

func (f *File) UserID(_ context.Context) (string, bool, error) {
	return f.read(func(s fileState) *string { return s.UserID })
}

func (f *File) ClearTokens(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear token file: %w", err)
	}
	return nil
}

func (f *File) read(pick func(fileState) *string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.load()
	if err != nil {
		return "", false, err
	}
	if v := pick(s); v != nil {
		return *v, true, nil
	}
	return "", false, nil
}

func (f *File) update(apply func(*fileState)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.load()
	if err != nil {
		return err
	}
	apply(&s)
	return f.store(s)
}

func (f *File) load() (fileState, error) {
	var s fileState
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read token file: %w", err)
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("decode token file: %w", err)
	}
	return s, nil
}

func (f *File) store(s fileState) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
