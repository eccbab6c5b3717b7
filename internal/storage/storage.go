// Package storage abstracts the durable local key-value medium that holds
// session state. Values are opaque blobs addressed by name; the medium has
// last-write-wins semantics and no transactional guarantees.
package storage

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no blob exists under the requested key.
var ErrNotFound = errors.New("key not found")

// Store reads and writes named blobs.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Well-known state keys.
const (
	KeyCart      = "cart"
	KeyLastOrder = "lastOrder"
)
