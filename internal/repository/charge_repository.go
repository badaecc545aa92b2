package repository

import (
	"context"
	"time"

	"github.com/chiedozieu/website-builder/internal/models"
	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	"gorm.io/gorm"
)

type ChargeRepository interface {
	BaseRepository[models.PendingCharge]
	ListStalePending(ctx context.Context, before time.Time) ([]models.PendingCharge, error)
}

type chargeRepository struct {
	BaseRepository[models.PendingCharge]
	db *gorm.DB
}

func NewChargeRepository(db *gorm.DB) ChargeRepository {
	return &chargeRepository{BaseRepository: NewBaseRepository[models.PendingCharge](db), db: db}
}

// ListStalePending returns charges still pending from before the cutoff.
// These are debits whose pipeline neither settled nor refunded, i.e. the
// crash window the reconciliation worker closes.
func (r *chargeRepository) ListStalePending(ctx context.Context, before time.Time) ([]models.PendingCharge, error) {
	var out []models.PendingCharge
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.ChargePending, before).
		Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list stale pending charges failed")
	}
	return out, nil
}
