// Package draft keeps an in-progress portfolio record between runs.
//
// A Store is a small key-value collaborator. Two implementations exist: a
// directory of JSON files and a SQLite database. The Manager sits on top and
// never lets a storage failure reach the caller; it logs a warning instead.
package draft

import (
	"context"
	"errors"
	"fmt"
)

// DefaultKey is the key drafts are stored under unless configured otherwise.
const DefaultKey = "portfolio-generator-draft"

// ErrNotFound is returned by Load when no value exists for a key.
var ErrNotFound = errors.New("draft not found")

// Store persists opaque draft payloads by key.
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates the store for a backend. For the file backend path is a
// directory; for sqlite it is the database file.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown draft backend %q", backend)
	}
}
