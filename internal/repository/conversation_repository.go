package repository

import (
	"context"

	"github.com/chiedozieu/website-builder/internal/models"
	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	BaseRepository[models.Conversation]
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Conversation, error)
}

type conversationRepository struct {
	BaseRepository[models.Conversation]
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{BaseRepository: NewBaseRepository[models.Conversation](db), db: db}
}

func (r *conversationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Conversation, error) {
	var out []models.Conversation
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list conversation failed")
	}
	return out, nil
}
