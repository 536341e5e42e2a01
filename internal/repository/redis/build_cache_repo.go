// Package redis stores cached builds in Redis so several server instances can share them.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/repository"
)

const defaultKeyPrefix = "dota:build:"

type buildCacheRepository struct {
	rdb    *goredis.Client
	prefix string
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewBuildCacheRepository(rdb *goredis.Client) *buildCacheRepository {
	return &buildCacheRepository{rdb: rdb, prefix: defaultKeyPrefix}
}

func (r *buildCacheRepository) key(buildID string) string {
	return r.prefix + buildID
}

func (r *buildCacheRepository) Get(ctx context.Context, buildID string) (*domain.DetailedBuild, error) {
	data, err := r.rdb.Get(ctx, r.key(buildID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrBuildNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get build: %w", err)
	}
	return repository.DecodeBuild(data)
}

// Put stores the build without expiry.
func (r *buildCacheRepository) Put(ctx context.Context, buildID string, build *domain.DetailedBuild) error {
	data, err := repository.EncodeBuild(build)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key(buildID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set build: %w", err)
	}
	return nil
}

func (r *buildCacheRepository) Close() error {
	return r.rdb.Close()
}
