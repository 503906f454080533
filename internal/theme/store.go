package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Store is a string key/value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// FileStore keeps key/value pairs in a YAML file guarded by a file lock so
// concurrent zsearch processes do not clobber each other.
type FileStore struct {
	Path string
}

func (s *FileStore) lock() *flock.Flock {
	return flock.New(s.Path + ".lock")
}

func (s *FileStore) Get(key string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return "", fmt.Errorf("cannot create state directory: %w", err)
	}
	l := s.lock()
	if err := l.RLock(); err != nil {
		return "", fmt.Errorf("cannot lock %s: %w", s.Path, err)
	}
	defer func() { _ = l.Unlock() }()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (s *FileStore) Set(key, value string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("cannot create state directory: %w", err)
	}
	l := s.lock()
	if err := l.Lock(); err != nil {
		return fmt.Errorf("cannot lock %s: %w", s.Path, err)
	}
	defer func() { _ = l.Unlock() }()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("cannot marshal state: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cannot write state %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cannot replace state %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot read state %s: %w", s.Path, err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", s.Path, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}
