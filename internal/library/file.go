package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps all entries in one JSON object on disk, rewritten on every Set.
type FileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileKV loads path. A missing file starts an empty store.
func NewFileKV(path string) (*FileKV, error) {
	f := &FileKV{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.data); err != nil {
			return nil, fmt.Errorf("parse store: %w", err)
		}
	}
	return f, nil
}

func (f *FileKV) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := make(map[string]string, len(f.data)+1)
	for k, v := range f.data {
		next[k] = v
	}
	next[key] = value

	raw, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(f.path, raw, 0644); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *FileKV) Close() error { return nil }
