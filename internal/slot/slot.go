// Package slot provides durable key/value slots for small JSON records.
//
// Two backends are available: one file per key under a directory, and a single
// sqlite table. Both have synchronous get/set semantics and assume a single
// writer per key.
package slot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("slot: key not found")

// Slot is a synchronous key/value store.
type Slot interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the slot backend named kind rooted at dir.
func Open(kind, dir string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		return NewFile(dir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "presence.db"))
	default:
		return nil, fmt.Errorf("slot: unknown backend %q", kind)
	}
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("slot: key is empty")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("slot: invalid key %q", key)
	}
	return nil
}
