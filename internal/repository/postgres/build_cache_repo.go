package postgres

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/repository"
)

type buildCacheRepository struct {
	db *gorm.DB
}

func NewBuildCacheRepository(db *gorm.DB) *buildCacheRepository {
	return &buildCacheRepository{db: db}
}

func (r *buildCacheRepository) Get(ctx context.Context, buildID string) (*domain.DetailedBuild, error) {
	var row domain.CachedBuild
	err := r.db.WithContext(ctx).First(&row, "build_id = ?", buildID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBuildNotFound
	}
	if err != nil {
		return nil, err
	}
	return repository.DecodeBuild(row.Document)
}

func (r *buildCacheRepository) Put(ctx context.Context, buildID string, build *domain.DetailedBuild) error {
	data, err := repository.EncodeBuild(build)
	if err != nil {
		return err
	}
	row := &domain.CachedBuild{
		BuildID:  buildID,
		Document: datatypes.JSON(data),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "build_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(row).Error
}

func (r *buildCacheRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
