package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/runway/pkg/metrics"
)

// Directory permissions for the data directory.
const dataDirPerm = 0o755

// FileStore persists each aggregate as a JSON document under a data
// directory. Writes go to a temp file in the same directory, are fsynced
// and then renamed over the previous document, so a crash mid-write never
// leaves a half-written snapshot.
type FileStore struct {
	dir    string
	indent bool
}

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithIndent enables pretty-printed JSON documents.
func WithIndent(indent bool) FileOption {
	return func(s *FileStore) {
		s.indent = indent
	}
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{dir: dir, indent: true}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", ErrIO, err)
	}
	return s, nil
}

// Load decodes the aggregate document into v.
func (s *FileStore) Load(_ context.Context, aggregate string, v any) error {
	raw, err := os.ReadFile(s.path(aggregate))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, aggregate)
		}
		return fmt.Errorf("%w: read %s: %w", ErrIO, aggregate, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrIO, aggregate, err)
	}
	return nil
}

// Save atomically replaces the aggregate document with v.
func (s *FileStore) Save(_ context.Context, aggregate string, v any) error {
	start := time.Now()

	var (
		raw []byte
		err error
	)
	if s.indent {
		raw, err = json.MarshalIndent(v, "", "  ")
	} else {
		raw, err = json.Marshal(v)
	}
	if err != nil {
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: encode %s: %w", ErrIO, aggregate, err)
	}

	tmp, err := os.CreateTemp(s.dir, aggregate+"-*.tmp")
	if err != nil {
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: temp file for %s: %w", ErrIO, aggregate, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: write %s: %w", ErrIO, aggregate, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: sync %s: %w", ErrIO, aggregate, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: close %s: %w", ErrIO, aggregate, err)
	}
	if err := os.Rename(tmpName, s.path(aggregate)); err != nil {
		os.Remove(tmpName)
		metrics.RecordStoreSaveError()
		return fmt.Errorf("%w: replace %s: %w", ErrIO, aggregate, err)
	}

	metrics.RecordStoreSave(aggregate)
	metrics.RecordStoreSaveLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	return nil
}

func (s *FileStore) path(aggregate string) string {
	return filepath.Join(s.dir, aggregate+".json")
}
