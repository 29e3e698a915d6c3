// Package filestore keeps each collection in a JSON file on local disk.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pickup/internal/app/infra/persistence/document"
	"pickup/internal/app/infra/persistence/kvstore"
	"pickup/pkg/clock"
)

// FileKV implements kvstore.KV with one file per key. Writes go to a temp file that is
// renamed over the target; the previous content is kept as <key>.json.bak.
// Only one process may own a data directory.
type FileKV struct {
	mu  sync.RWMutex
	dir string
}

// NewFileKV creates dir if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Open returns a store backed by JSON files under dir.
func Open(dir string, clk clock.Clock, hooks ...document.WriteHook) (*kvstore.Store, error) {
	kv, err := NewFileKV(dir)
	if err != nil {
		return nil, err
	}
	return kvstore.New(kv, clk, hooks...), nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.load(key)
}

func (f *FileKV) load(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (f *FileKV) Update(_ context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load(key)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}

	if current != nil {
		if err := os.WriteFile(f.path(key)+".bak", current, 0o644); err != nil {
			return fmt.Errorf("backup %s: %w", key, err)
		}
	}
	return f.save(key, next)
}

func (f *FileKV) save(key string, data []byte) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err == nil {
		data = pretty.Bytes()
	}

	target := f.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temporary %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Close() error {
	return nil
}
