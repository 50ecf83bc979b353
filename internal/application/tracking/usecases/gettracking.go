package usecases

import (
	"context"

	reminderdto "github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/application/tracking/dto"
	"github.com/recurra-io/recurra/internal/domain/reminder"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type GetTrackingUseCase struct {
	trackingRepo tracking.Repository
	reminderRepo reminder.Repository
	logger       logger.Interface
}

func NewGetTrackingUseCase(
	trackingRepo tracking.Repository,
	reminderRepo reminder.Repository,
	logger logger.Interface,
) *GetTrackingUseCase {
	return &GetTrackingUseCase{
		trackingRepo: trackingRepo,
		reminderRepo: reminderRepo,
		logger:       logger,
	}
}

// Execute returns the tracking with its Upcoming reminder attached. Tombstoned
// trackings read as not found.
func (uc *GetTrackingUseCase) Execute(ctx context.Context, id, userID uint) (*dto.TrackingResponse, error) {
	t, err := uc.trackingRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if t.State() == vo.StateDeleted {
		return nil, apperrors.NewNotFoundError("tracking not found")
	}

	resp := dto.NewTrackingResponse(t)

	upcoming, err := uc.reminderRepo.GetUpcomingByTrackingID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if upcoming != nil {
		resp.Upcoming = reminderdto.NewReminderResponse(upcoming)
	}
	return resp, nil
}
