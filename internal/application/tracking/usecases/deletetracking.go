package usecases

import (
	"context"
	"time"

	"github.com/recurra-io/recurra/internal/application/tracking/dto"
	"github.com/recurra-io/recurra/internal/domain/shared/events"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/shared/db"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// DeleteTrackingUseCase is the direct cascade delete: unlike the state
// endpoint it skips the transition table, removes every reminder, and leaves
// the tracking row as a tombstone.
type DeleteTrackingUseCase struct {
	trackingRepo tracking.Repository
	txManager    *db.TransactionManager
	publisher    events.Publisher
	logger       logger.Interface
}

func NewDeleteTrackingUseCase(
	trackingRepo tracking.Repository,
	txManager *db.TransactionManager,
	publisher events.Publisher,
	logger logger.Interface,
) *DeleteTrackingUseCase {
	return &DeleteTrackingUseCase{
		trackingRepo: trackingRepo,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

func (uc *DeleteTrackingUseCase) Execute(ctx context.Context, id, userID uint) error {
	t, err := uc.trackingRepo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if t.State() == vo.StateDeleted {
		return apperrors.NewNotFoundError("tracking not found")
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.trackingRepo.DeleteCascade(txCtx, id, userID)
	})
	if err != nil {
		uc.logger.Errorw("failed to delete tracking", "error", err, "tracking_id", id)
		return err
	}

	if uc.publisher != nil {
		resp := dto.NewTrackingResponse(t)
		resp.State = vo.StateDeleted.String()
		uc.publisher.Publish(events.Event{
			Kind:       events.KindTrackingStateChanged,
			UserID:     userID,
			Payload:    resp,
			OccurredAt: time.Now().UTC(),
		})
	}

	uc.logger.Infow("tracking deleted", "tracking_id", id, "user_id", userID)
	return nil
}
