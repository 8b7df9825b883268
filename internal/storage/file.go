package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const lockSuffix = ".lock"

// File stores all keys in one JSON object file.
//
// Reads take a shared lock and writes an exclusive lock on a sibling
// "<path>.lock" file, so two sessions on the same data directory never
// observe a half-written snapshot. Writes go to a temp file that is renamed
// over the original.
type File struct {
	path string
	flk  *flock.Flock
}

// OpenFile opens (without creating) a file backend at path. The parent
// directory is created if needed.
func OpenFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &File{
		path: path,
		flk:  flock.New(path + lockSuffix),
	}, nil
}

// Path returns the data file path.
func (f *File) Path() string {
	return f.path
}

// Get implements KV.
func (f *File) Get(key string) (string, bool, error) {
	if err := f.flk.RLock(); err != nil {
		return "", false, fmt.Errorf("lock %s: %w", f.path, err)
	}
	defer func() { _ = f.flk.Unlock() }()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements KV.
func (f *File) Set(key, value string) error {
	if err := f.flk.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}
	defer func() { _ = f.flk.Unlock() }()

	values, err := f.read()
	if err != nil {
		// A corrupt file must not block writes; the new snapshot replaces it.
		values = map[string]string{}
	}
	values[key] = value
	return f.write(values)
}

// Close releases the lock file handle.
func (f *File) Close() error {
	if f == nil || f.flk == nil {
		return nil
	}
	return f.flk.Close()
}

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]string{}, nil
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse storage file: %w", err)
	}
	return values, nil
}

func (f *File) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage file: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close storage file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
