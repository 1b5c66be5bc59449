package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Blob keys used by the ledger engine.
const (
	StateKey = "state"
	CartKey  = "cart"
)

// Store is the persistence collaborator: a synchronous key/value blob
// store. The engine saves the full state blob after every mutation.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
