package repository

import (
	"context"

	"github.com/chiedozieu/website-builder/internal/models"
	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VersionRepository interface {
	BaseRepository[models.Version]
	GetForProject(ctx context.Context, projectID, versionID uuid.UUID, dest *models.Version) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Version, error)
}

type versionRepository struct {
	BaseRepository[models.Version]
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{BaseRepository: NewBaseRepository[models.Version](db), db: db}
}

// GetForProject resolves versionID only within the project's own history.
func (r *versionRepository) GetForProject(ctx context.Context, projectID, versionID uuid.UUID, dest *models.Version) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", versionID, projectID).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "version not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get version failed")
	}
	return nil
}

func (r *versionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Version, error) {
	var out []models.Version
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list versions failed")
	}
	return out, nil
}
