package usecases

import (
	"context"
	"fmt"

	reminderdto "github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/application/reminder/services"
	"github.com/recurra-io/recurra/internal/application/tracking/dto"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/user"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// UpdateTrackingCommand carries partial updates. Nil pointer fields are left
// untouched; DaysSet distinguishes "clear the pattern" from "not provided".
type UpdateTrackingCommand struct {
	ID        uint
	UserID    uint
	Question  *string
	Notes     *string
	Icon      *string
	Days      *vo.DaysPattern
	DaysSet   bool
	Schedules []vo.Schedule
}

type UpdateTrackingUseCase struct {
	trackingRepo tracking.Repository
	userRepo     user.Repository
	engine       *services.Engine
	logger       logger.Interface
}

func NewUpdateTrackingUseCase(
	trackingRepo tracking.Repository,
	userRepo user.Repository,
	engine *services.Engine,
	logger logger.Interface,
) *UpdateTrackingUseCase {
	return &UpdateTrackingUseCase{
		trackingRepo: trackingRepo,
		userRepo:     userRepo,
		engine:       engine,
		logger:       logger,
	}
}

// Execute applies the provided fields. Changing the pattern or schedules of a
// running tracking reconciles the Upcoming reminder against the new
// recurrence; identical recomputed instants leave the stored row untouched.
func (uc *UpdateTrackingUseCase) Execute(ctx context.Context, cmd UpdateTrackingCommand) (*dto.TrackingResponse, error) {
	t, err := uc.trackingRepo.GetByID(ctx, cmd.ID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if t.State() == vo.StateDeleted {
		return nil, apperrors.NewNotFoundError("tracking not found")
	}

	scheduleChanged := false

	if cmd.Question != nil {
		if err := t.UpdateQuestion(*cmd.Question); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.Notes != nil {
		t.UpdateNotes(*cmd.Notes)
	}
	if cmd.Icon != nil {
		t.UpdateIcon(*cmd.Icon)
	}
	if cmd.DaysSet {
		if err := t.UpdateDays(cmd.Days); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		scheduleChanged = true
	}
	if cmd.Schedules != nil {
		if err := t.UpdateSchedules(cmd.Schedules); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		scheduleChanged = true
	}

	if err := uc.trackingRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update tracking", "error", err, "tracking_id", cmd.ID)
		return nil, fmt.Errorf("failed to update tracking: %w", err)
	}

	resp := dto.NewTrackingResponse(t)

	if scheduleChanged && t.IsRunning() {
		owner, err := uc.userRepo.GetByID(ctx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		rem, err := uc.engine.EnsureUpcomingMatches(ctx, t, owner)
		if err != nil {
			return nil, err
		}
		if rem != nil {
			resp.Upcoming = reminderdto.NewReminderResponse(rem)
		}
	}

	uc.logger.Infow("tracking updated", "tracking_id", cmd.ID, "user_id", cmd.UserID)
	return resp, nil
}
