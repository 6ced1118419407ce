// Package library persists the user's saved strategies in a local key/value store.
package library

import "errors"

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// KV is a local string key/value store.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Close() error
}

// Open returns the store for driver: "sqlite", "file" or "memory".
func Open(driver, path string) (KV, error) {
	switch driver {
	case "sqlite":
		return NewSQLiteKV(path)
	case "file":
		return NewFileKV(path)
	case "memory", "":
		return NewMemoryKV(), nil
	default:
		return nil, errors.New("unknown storage driver " + driver)
	}
}
