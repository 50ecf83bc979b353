package usecases

import (
	"context"

	reminderdto "github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/application/tracking/dto"
	"github.com/recurra-io/recurra/internal/domain/reminder"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type ListTrackingsUseCase struct {
	trackingRepo tracking.Repository
	reminderRepo reminder.Repository
	logger       logger.Interface
}

func NewListTrackingsUseCase(
	trackingRepo tracking.Repository,
	reminderRepo reminder.Repository,
	logger logger.Interface,
) *ListTrackingsUseCase {
	return &ListTrackingsUseCase{
		trackingRepo: trackingRepo,
		reminderRepo: reminderRepo,
		logger:       logger,
	}
}

// Execute lists the user's trackings with their Upcoming reminders attached.
// Tombstoned trackings are excluded by the repository.
func (uc *ListTrackingsUseCase) Execute(ctx context.Context, userID uint) ([]*dto.TrackingResponse, error) {
	trackings, err := uc.trackingRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TrackingResponse, 0, len(trackings))
	for _, t := range trackings {
		resp := dto.NewTrackingResponse(t)

		upcoming, err := uc.reminderRepo.GetUpcomingByTrackingID(ctx, t.ID(), userID)
		if err != nil {
			return nil, err
		}
		if upcoming != nil {
			resp.Upcoming = reminderdto.NewReminderResponse(upcoming)
		}
		out = append(out, resp)
	}
	return out, nil
}
