package repository

import (
	"context"

	"github.com/dom/dota-draft-assistant/internal/domain"
)

// BuildCacheRepository persists detailed builds keyed by their build id.
//
// Get returns domain.ErrBuildNotFound for a missing id. A stored record that
// cannot be decoded is reported as an error wrapping ErrCorruptRecord.
// Put overwrites any existing record for the id.
type BuildCacheRepository interface {
	Get(ctx context.Context, buildID string) (*domain.DetailedBuild, error)
	Put(ctx context.Context, buildID string, build *domain.DetailedBuild) error
	Close() error
}
