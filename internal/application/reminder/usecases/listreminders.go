package usecases

import (
	"context"

	"github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/domain/reminder"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type ListRemindersUseCase struct {
	reminderRepo reminder.Repository
	logger       logger.Interface
}

func NewListRemindersUseCase(reminderRepo reminder.Repository, logger logger.Interface) *ListRemindersUseCase {
	return &ListRemindersUseCase{reminderRepo: reminderRepo, logger: logger}
}

// Execute lists the user's reminders ordered by scheduled time. activeOnly
// hides Answered history.
func (uc *ListRemindersUseCase) Execute(ctx context.Context, userID uint, activeOnly bool) ([]*dto.ReminderResponse, error) {
	reminders, err := uc.reminderRepo.ListByUserID(ctx, userID, activeOnly)
	if err != nil {
		return nil, err
	}
	return dto.NewReminderResponses(reminders), nil
}
