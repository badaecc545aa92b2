package services

import (
	"context"

	"github.com/chiedozieu/website-builder/internal/models"
	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	"github.com/chiedozieu/website-builder/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreditLedger meters per-user credit balances. Charge is atomic
// check-and-decrement; Refund exists only as compensation for a charged
// operation that subsequently failed.
type CreditLedger interface {
	Charge(ctx context.Context, userID, projectID uuid.UUID, amount int) (uuid.UUID, error)
	Refund(ctx context.Context, chargeID uuid.UUID) error
	Settle(ctx context.Context, chargeID uuid.UUID) error
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
}

type creditLedger struct {
	db *gorm.DB
}

func NewCreditLedger(db *gorm.DB) CreditLedger {
	return &creditLedger{db: db}
}

var _ CreditLedger = (*creditLedger)(nil)

// Charge debits amount from the user inside one transaction. The decrement
// is conditional on sufficient balance, so two concurrent charges can never
// jointly overdraw. A PendingCharge row is written in the same transaction;
// it stays pending until the operation settles or refunds, which gives the
// reconciliation worker a durable trace of any crash window.
func (l *creditLedger) Charge(ctx context.Context, userID, projectID uuid.UUID, amount int) (uuid.UUID, error) {
	if amount <= 0 {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "charge amount must be positive")
	}

	charge := models.PendingCharge{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount,
		Status:    models.ChargePending,
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND credits >= ?", userID, amount).
			Update("credits", gorm.Expr("credits - ?", amount))
		if res.Error != nil {
			return appErr.Wrap(res.Error, appErr.CodeInternal, "debit credits failed")
		}
		if res.RowsAffected == 0 {
			return appErr.New(appErr.CodeInsufficientCredits, "insufficient credits")
		}
		if err := tx.Create(&charge).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "record pending charge failed")
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	logger.L().Info("credits charged",
		zap.String("user_id", userID.String()),
		zap.String("charge_id", charge.ID.String()),
		zap.Int("amount", amount),
	)
	return charge.ID, nil
}

// Refund restores the charged amount unconditionally. The pending->refunded
// flip is conditional so a charge is never refunded twice, even when the
// compensation path and the reconciliation worker race.
func (l *creditLedger) Refund(ctx context.Context, chargeID uuid.UUID) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var charge models.PendingCharge
		if err := tx.First(&charge, "id = ?", chargeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return appErr.New(appErr.CodeNotFound, "charge not found")
			}
			return appErr.Wrap(err, appErr.CodeInternal, "load charge failed")
		}

		res := tx.Model(&models.PendingCharge{}).
			Where("id = ? AND status = ?", chargeID, models.ChargePending).
			Update("status", models.ChargeRefunded)
		if res.Error != nil {
			return appErr.Wrap(res.Error, appErr.CodeInternal, "mark charge refunded failed")
		}
		if res.RowsAffected == 0 {
			// Already settled or refunded; nothing to compensate.
			return nil
		}

		if err := tx.Model(&models.User{}).Where("id = ?", charge.UserID).
			Update("credits", gorm.Expr("credits + ?", charge.Amount)).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "restore credits failed")
		}

		logger.L().Info("credits refunded",
			zap.String("user_id", charge.UserID.String()),
			zap.String("charge_id", chargeID.String()),
			zap.Int("amount", charge.Amount),
		)
		return nil
	})
}

// Settle marks a pending charge as consumed by a successful operation.
func (l *creditLedger) Settle(ctx context.Context, chargeID uuid.UUID) error {
	res := l.db.WithContext(ctx).Model(&models.PendingCharge{}).
		Where("id = ? AND status = ?", chargeID, models.ChargePending).
		Update("status", models.ChargeSettled)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "settle charge failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeConflict, "charge not pending")
	}
	return nil
}

func (l *creditLedger) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	var user models.User
	if err := l.db.WithContext(ctx).Select("credits").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, appErr.New(appErr.CodeNotFound, "user not found")
		}
		return 0, appErr.Wrap(err, appErr.CodeInternal, "get balance failed")
	}
	return user.Credits, nil
}
