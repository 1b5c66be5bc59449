package pebbledb

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"pockettill/backend/internal/store"
)

// Store persists blobs in an embedded pebble database. This is the
// offline local backend: writes are synced before returning because the
// engine treats every save as durable.
type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	value, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (s *Store) Save(_ context.Context, key string, value []byte) error {
	return s.db.Set([]byte(key), value, pebble.Sync)
}
