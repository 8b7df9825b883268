// Package storage provides durable key-value backends for task snapshots.
//
// Every backend stores string values under string keys, mirroring a browser's
// local storage. Three backends are available:
//
//   - file: a single JSON object file guarded by an advisory lock
//   - sqlite: a kv table in a SQLite database
//   - memory: a process-local map
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/taskflow-go/internal/appdir"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ErrUnknownBackend is returned when a backend name is not recognized.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrWriteFailed is returned by a Memory store configured to reject writes.
var ErrWriteFailed = errors.New("storage write failed")

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Close releases the backend's resources.
	Close() error
}

// ParseBackend normalizes a backend name.
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case "", BackendFile:
		return BackendFile, nil
	case BackendSQLite, "sqlite3":
		return BackendSQLite, nil
	case BackendMemory, "mem":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("%w: %q (expected file, sqlite or memory)", ErrUnknownBackend, name)
	}
}

// DefaultPath returns the default location of a backend inside dataDir.
// The memory backend has no path.
func DefaultPath(backend Backend, dataDir string) string {
	switch backend {
	case BackendSQLite:
		return appdir.DatabasePath(dataDir)
	case BackendMemory:
		return ""
	default:
		return appdir.StoragePath(dataDir)
	}
}

// Open opens the named backend at path.
func Open(backend Backend, path string) (KV, error) {
	switch backend {
	case BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
