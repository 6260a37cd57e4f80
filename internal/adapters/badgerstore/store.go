// Package badgerstore implements the document store port on BadgerDB.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
)

const keyPrefix = "doc:"

// Store keeps documents in a BadgerDB instance.
type Store struct {
	db *badger.DB
}

var _ ports.DocumentStore = (*Store)(nil)

// Open opens (or creates) a database under dir. An empty dir opens an
// in-memory database.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the document stored under key, or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		doc, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("badgerstore: %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("badgerstore: get %q: %w", key, err)
	}
	return doc, nil
}

// Put stores doc under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, doc []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), doc)
	})
	if err != nil {
		return fmt.Errorf("badgerstore: put %q: %w", key, err)
	}
	return nil
}
