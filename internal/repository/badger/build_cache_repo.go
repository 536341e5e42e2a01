// Package badger stores cached builds in an embedded BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/repository"
)

const buildKeyPrefix = "build:"

type buildCacheRepository struct {
	db *badger.DB
}

// Open opens the database at path, or an in-memory database when path is empty.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return db, nil
}

func NewBuildCacheRepository(db *badger.DB) *buildCacheRepository {
	return &buildCacheRepository{db: db}
}

func (r *buildCacheRepository) Get(ctx context.Context, buildID string) (*domain.DetailedBuild, error) {
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(buildKeyPrefix + buildID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrBuildNotFound
		}
		if err != nil {
			return fmt.Errorf("get build: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return repository.DecodeBuild(data)
}

func (r *buildCacheRepository) Put(ctx context.Context, buildID string, build *domain.DetailedBuild) error {
	data, err := repository.EncodeBuild(build)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(buildKeyPrefix+buildID), data)
	})
}

// putRaw stores bytes as-is; tests use it to plant corrupt records.
func (r *buildCacheRepository) putRaw(buildID string, data []byte) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(buildKeyPrefix+buildID), data)
	})
}

func (r *buildCacheRepository) Close() error {
	return r.db.Close()
}
