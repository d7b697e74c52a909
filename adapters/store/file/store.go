// Package file persists the inventory as a single YAML document.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaegashi/octops/adapters/store/inmem"
	"github.com/yaegashi/octops/domain"
	"gopkg.in/yaml.v3"
)

// Store loads the state file into an in-memory store and writes it back
// after every Do scope that changed something.
type Store struct {
	path    string
	mem     *inmem.Store
	flushed int64
}

// Open reads path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, mem: inmem.NewStore()}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read state file %s: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", path, err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("state file %s: unsupported version %d", path, doc.Version)
	}
	s.mem.Load(doc.model())
	return s, nil
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Do runs fn and persists the result when fn succeeds and changed state.
func (s *Store) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	if err := s.mem.Do(ctx, fn); err != nil {
		return err
	}
	if rev := s.mem.Revision(); rev != s.flushed {
		if err := s.flush(); err != nil {
			return err
		}
		s.flushed = rev
	}
	return nil
}

func (s *Store) flush() error {
	hosts, vm := s.mem.Snapshot()
	b, err := yaml.Marshal(toDocument(hosts, vm))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return writeFileAtomic(s.path, b, 0o600)
}

func (s *Store) Close() error { return nil }

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("replace state file %s: %w", path, err)
	}
	return nil
}

var _ domain.Store = (*Store)(nil)
