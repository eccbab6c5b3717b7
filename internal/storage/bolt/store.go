// Package bolt implements storage.Store on top of an embedded bbolt database
// file, giving session state durability across process restarts.
package bolt

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.etcd.io/bbolt"

	"github.com/shoplite/storefront/internal/storage"
)

var _ storage.Store = (*Store)(nil)

var bucketState = []byte("state")

// Store is a bbolt-backed blob store. All blobs live in a single bucket;
// concurrent opens of the same file are rejected by bbolt's file lock, which
// matches the single-session model of the state it holds.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database file at path and ensures the state
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create state bucket")
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketState).Get([]byte(key))
		if data == nil {
			return storage.ErrNotFound
		}
		// Bucket values are only valid inside the transaction.
		out = make([]byte, len(data))
		copy(out, data)
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %q", key)
	}
	return out, nil
}

func (s *Store) Write(_ context.Context, key string, data []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), data)
	})
	if err != nil {
		return errors.Wrapf(err, "write %q", key)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Delete([]byte(key))
	})
	if err != nil {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}
