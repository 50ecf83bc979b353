// Package usecases contains the tracking application operations: CRUD plus
// the state machine transitions and their reminder side effects.
package usecases

import (
	"context"
	"fmt"
	"time"

	reminderdto "github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/application/reminder/services"
	"github.com/recurra-io/recurra/internal/application/tracking/dto"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/user"
	"github.com/recurra-io/recurra/internal/shared/db"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type CreateTrackingCommand struct {
	UserID    uint
	Question  string
	Notes     string
	Icon      string
	Days      *vo.DaysPattern
	Schedules []vo.Schedule
	OneShotAt *time.Time
}

type CreateTrackingUseCase struct {
	trackingRepo tracking.Repository
	userRepo     user.Repository
	engine       *services.Engine
	txManager    *db.TransactionManager
	logger       logger.Interface
}

func NewCreateTrackingUseCase(
	trackingRepo tracking.Repository,
	userRepo user.Repository,
	engine *services.Engine,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *CreateTrackingUseCase {
	return &CreateTrackingUseCase{
		trackingRepo: trackingRepo,
		userRepo:     userRepo,
		engine:       engine,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute creates a tracking in the Running state and schedules its first
// Upcoming reminder. Both writes happen in one transaction.
func (uc *CreateTrackingUseCase) Execute(ctx context.Context, cmd CreateTrackingCommand) (*dto.TrackingResponse, error) {
	owner, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	t, err := tracking.NewTracking(cmd.UserID, cmd.Question, cmd.Notes, cmd.Icon, cmd.Days, cmd.Schedules)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if t.IsOneShot() && cmd.OneShotAt == nil {
		return nil, apperrors.NewValidationError("one-shot tracking requires a scheduled time")
	}

	var initial *dto.TrackingResponse
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.trackingRepo.Create(txCtx, t); err != nil {
			return fmt.Errorf("failed to create tracking: %w", err)
		}

		rem, err := uc.engine.ScheduleInitial(txCtx, t, owner, cmd.OneShotAt)
		if err != nil {
			return err
		}

		resp := dto.NewTrackingResponse(t)
		if rem != nil {
			resp.Upcoming = reminderdto.NewReminderResponse(rem)
		}
		initial = resp
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to create tracking", "error", err, "user_id", cmd.UserID)
		return nil, err
	}

	uc.logger.Infow("tracking created",
		"tracking_id", t.ID(),
		"user_id", cmd.UserID,
		"one_shot", t.IsOneShot(),
	)
	return initial, nil
}
