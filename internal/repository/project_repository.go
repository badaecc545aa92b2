package repository

import (
	"context"

	"github.com/chiedozieu/website-builder/internal/models"
	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	BaseRepository[models.WebsiteProject]
	GetOwned(ctx context.Context, projectID, userID uuid.UUID, dest *models.WebsiteProject) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WebsiteProject, error)
	ListPublished(ctx context.Context) ([]models.WebsiteProject, error)
	SetCurrent(ctx context.Context, projectID uuid.UUID, versionID *uuid.UUID, code string) error
	SetPublished(ctx context.Context, projectID uuid.UUID, published bool) error
}

type projectRepository struct {
	BaseRepository[models.WebsiteProject]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.WebsiteProject](db), db: db}
}

// GetOwned loads a project only when it belongs to userID. A project owned by
// someone else reads as not found, matching the API contract.
func (r *projectRepository) GetOwned(ctx context.Context, projectID, userID uuid.UUID, dest *models.WebsiteProject) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", projectID, userID).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "project not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get owned project failed")
	}
	return nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WebsiteProject, error) {
	var out []models.WebsiteProject
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects by user failed")
	}
	return out, nil
}

func (r *projectRepository) ListPublished(ctx context.Context) ([]models.WebsiteProject, error) {
	var out []models.WebsiteProject
	if err := r.db.WithContext(ctx).Preload("User").Where("is_published = true").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list published projects failed")
	}
	return out, nil
}

// SetCurrent writes current_code and current_version_id together in a single
// statement so the pointer invariant cannot be half-applied. A nil versionID
// clears the pointer (manual code save).
func (r *projectRepository) SetCurrent(ctx context.Context, projectID uuid.UUID, versionID *uuid.UUID, code string) error {
	res := r.db.WithContext(ctx).Model(&models.WebsiteProject{}).Where("id = ?", projectID).
		Updates(map[string]any{"current_code": code, "current_version_id": versionID})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update current version failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}

func (r *projectRepository) SetPublished(ctx context.Context, projectID uuid.UUID, published bool) error {
	res := r.db.WithContext(ctx).Model(&models.WebsiteProject{}).Where("id = ?", projectID).
		Update("is_published", published)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update published flag failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}
