// Package usecases contains the reminder application operations: the tick
// promotion pass and the user-facing list/answer/snooze/delete actions.
package usecases

import (
	"context"
	"time"

	"github.com/recurra-io/recurra/internal/application/notification"
	"github.com/recurra-io/recurra/internal/application/reminder/services"
	"github.com/recurra-io/recurra/internal/domain/reminder"
	"github.com/recurra-io/recurra/internal/shared/db"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// PromoteDueUseCase is the tick body: it scans Upcoming reminders whose
// instant has passed, promotes each to Pending, hands it to the notifier, and
// finally chains the next occurrence for every affected tracking.
type PromoteDueUseCase struct {
	reminderRepo reminder.Repository
	engine       *services.Engine
	txManager    *db.TransactionManager
	dispatcher   notification.Dispatcher
	logger       logger.Interface
}

func NewPromoteDueUseCase(
	reminderRepo reminder.Repository,
	engine *services.Engine,
	txManager *db.TransactionManager,
	dispatcher notification.Dispatcher,
	logger logger.Interface,
) *PromoteDueUseCase {
	return &PromoteDueUseCase{
		reminderRepo: reminderRepo,
		engine:       engine,
		txManager:    txManager,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// Execute promotes everything due at asOf. A failure on one reminder is
// logged and skipped; it never aborts the rest of the pass. Returns the
// number of reminders promoted.
func (uc *PromoteDueUseCase) Execute(ctx context.Context, asOf time.Time) (int, error) {
	items, err := uc.reminderRepo.ListDue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	promoted := 0
	affected := make(map[uint]reminder.DueItem, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return promoted, err
		}

		err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			return uc.engine.MarkPending(txCtx, item.Reminder, asOf)
		})
		if err != nil {
			uc.logger.Errorw("failed to promote due reminder",
				"error", err, "reminder_id", item.Reminder.ID())
			continue
		}

		promoted++
		uc.dispatcher.Enqueue(item)

		if item.Tracking.IsRunning() && !item.Tracking.IsOneShot() {
			affected[item.Tracking.ID()] = item
		}
	}

	// Chain after the promotion sweep so a tick that promotes several
	// occurrences of one tracking produces a single replacement. The promoted
	// instant is excluded so the chain can never re-produce it, even when the
	// tick runs ahead of the engine clock.
	for _, item := range affected {
		if err := ctx.Err(); err != nil {
			return promoted, err
		}
		excluded := item.Reminder.ScheduledTime()
		if _, err := uc.engine.ChainNext(ctx, item.Tracking, item.User, &excluded); err != nil {
			uc.logger.Errorw("failed to chain after promotion",
				"error", err, "tracking_id", item.Tracking.ID())
		}
	}

	return promoted, nil
}
