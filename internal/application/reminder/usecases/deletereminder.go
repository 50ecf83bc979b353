package usecases

import (
	"context"

	"github.com/recurra-io/recurra/internal/application/reminder/services"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type DeleteReminderUseCase struct {
	engine *services.Engine
	logger logger.Interface
}

func NewDeleteReminderUseCase(engine *services.Engine, logger logger.Interface) *DeleteReminderUseCase {
	return &DeleteReminderUseCase{engine: engine, logger: logger}
}

// Execute removes a reminder; deleting the live end of the chain lets the
// engine schedule the replacement occurrence.
func (uc *DeleteReminderUseCase) Execute(ctx context.Context, reminderID, userID uint) error {
	if err := uc.engine.Delete(ctx, reminderID, userID); err != nil {
		return err
	}

	uc.logger.Infow("reminder deleted", "reminder_id", reminderID, "user_id", userID)
	return nil
}
