package tasks

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/chiedozieu/website-builder/internal/repository"
	"github.com/chiedozieu/website-builder/internal/services"
	"github.com/chiedozieu/website-builder/pkg/logger"
)

// TypeCreditsReconcile is the task type for the periodic stale-charge sweep.
const TypeCreditsReconcile = "credits:reconcile"

// StaleChargeAge is how long a charge may sit pending before the sweep
// treats its pipeline as dead and refunds it. Well above the model call
// timeout so an in-flight revision is never refunded under it.
const StaleChargeAge = 15 * time.Minute

// NewCreditsReconcileTask builds the periodic reconcile task. It carries no
// payload; the cutoff is computed at handling time.
func NewCreditsReconcileTask() *asynq.Task {
	return asynq.NewTask(TypeCreditsReconcile, nil)
}

// ReconcileTaskHandler refunds charges left pending by a process that died
// between debiting credits and settling or refunding.
type ReconcileTaskHandler struct {
	charges repository.ChargeRepository
	ledger  services.CreditLedger
}

func NewReconcileTaskHandler(charges repository.ChargeRepository, ledger services.CreditLedger) *ReconcileTaskHandler {
	return &ReconcileTaskHandler{charges: charges, ledger: ledger}
}

func (h *ReconcileTaskHandler) HandleReconcile(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-StaleChargeAge)

	stale, err := h.charges.ListStalePending(ctx, cutoff)
	if err != nil {
		logger.L().Error("list stale charges failed", zap.Error(err))
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	logger.L().Info("reconciling stale charges", zap.Int("count", len(stale)))

	var failed int
	for _, c := range stale {
		// Refund flips pending to refunded atomically, so a pipeline that
		// settles concurrently wins and the sweep skips the charge.
		if err := h.ledger.Refund(ctx, c.ID); err != nil {
			logger.L().Error("refund stale charge failed",
				zap.String("charge_id", c.ID.String()),
				zap.String("user_id", c.UserID.String()),
				zap.Error(err))
			failed++
			continue
		}
		logger.L().Info("stale charge refunded",
			zap.String("charge_id", c.ID.String()),
			zap.String("user_id", c.UserID.String()),
			zap.Int("amount", c.Amount))
	}

	if failed > 0 {
		logger.L().Warn("reconcile finished with failures",
			zap.Int("failed", failed), zap.Int("total", len(stale)))
	}
	return nil
}
