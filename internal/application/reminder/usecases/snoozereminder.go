package usecases

import (
	"context"

	"github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/application/reminder/services"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type SnoozeReminderCommand struct {
	ReminderID uint
	UserID     uint
	Minutes    int
}

type SnoozeReminderUseCase struct {
	engine *services.Engine
	logger logger.Interface
}

func NewSnoozeReminderUseCase(engine *services.Engine, logger logger.Interface) *SnoozeReminderUseCase {
	return &SnoozeReminderUseCase{engine: engine, logger: logger}
}

// Execute pushes the reminder forward by the requested minutes.
func (uc *SnoozeReminderUseCase) Execute(ctx context.Context, cmd SnoozeReminderCommand) (*dto.ReminderResponse, error) {
	rem, err := uc.engine.Snooze(ctx, cmd.ReminderID, cmd.UserID, cmd.Minutes)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("reminder snoozed",
		"reminder_id", cmd.ReminderID, "user_id", cmd.UserID, "minutes", cmd.Minutes)
	return dto.NewReminderResponse(rem), nil
}
