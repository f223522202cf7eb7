package credential

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmorgan81/brandbot/internal/log"
)

// Key is the slot the credential is saved under.
const Key = "hf_api_key"

// FileStore keeps the credential in a small JSON key-value file. Other keys
// in the file are preserved.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

// DefaultPath is credentials.json in the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "brandbot", "credentials.json"), nil
}

func (s *FileStore) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.FromContextOrDiscard(ctx).WithGroup("file store").Debug("reading credential", "path", s.Path)

	values, err := s.read()
	if err != nil {
		return "", err
	}
	value, ok := values[Key]
	if !ok || value == "" {
		return "", ErrNoCredential
	}
	return value, nil
}

func (s *FileStore) Set(ctx context.Context, value string) error {
	value, err := normalize(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log.FromContextOrDiscard(ctx).WithGroup("file store").Info("saving credential", "path", s.Path)

	values, err := s.read()
	if err != nil {
		return err
	}
	values[Key] = value
	return s.write(values)
}

func (s *FileStore) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".credentials-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}
