package usecases

import (
	"context"

	"github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/application/reminder/services"
	vo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type AnswerReminderCommand struct {
	ReminderID uint
	UserID     uint
	Value      string
	Note       *string
}

type AnswerReminderUseCase struct {
	engine *services.Engine
	logger logger.Interface
}

func NewAnswerReminderUseCase(engine *services.Engine, logger logger.Interface) *AnswerReminderUseCase {
	return &AnswerReminderUseCase{engine: engine, logger: logger}
}

// Execute records completed or dismissed on a Pending reminder and chains the
// next occurrence.
func (uc *AnswerReminderUseCase) Execute(ctx context.Context, cmd AnswerReminderCommand) (*dto.ReminderResponse, error) {
	value := vo.AnswerValue(cmd.Value)
	if !value.IsValid() {
		return nil, apperrors.NewValidationError("answer value must be completed or dismissed")
	}

	rem, err := uc.engine.Answer(ctx, cmd.ReminderID, cmd.UserID, value, cmd.Note)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("reminder answered",
		"reminder_id", cmd.ReminderID, "user_id", cmd.UserID, "value", cmd.Value)
	return dto.NewReminderResponse(rem), nil
}
