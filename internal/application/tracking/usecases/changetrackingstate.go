package usecases

import (
	"context"
	"fmt"

	reminderdto "github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/application/reminder/services"
	"github.com/recurra-io/recurra/internal/application/tracking/dto"
	"github.com/recurra-io/recurra/internal/domain/reminder"
	"github.com/recurra-io/recurra/internal/domain/shared/events"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/user"
	"github.com/recurra-io/recurra/internal/shared/db"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type ChangeTrackingStateCommand struct {
	ID     uint
	UserID uint
	Target vo.TrackingState
}

// ChangeTrackingStateUseCase moves a tracking along the allowed transition
// table and applies the reminder side effects each edge carries.
type ChangeTrackingStateUseCase struct {
	trackingRepo tracking.Repository
	reminderRepo reminder.Repository
	userRepo     user.Repository
	engine       *services.Engine
	txManager    *db.TransactionManager
	publisher    events.Publisher
	logger       logger.Interface
}

func NewChangeTrackingStateUseCase(
	trackingRepo tracking.Repository,
	reminderRepo reminder.Repository,
	userRepo user.Repository,
	engine *services.Engine,
	txManager *db.TransactionManager,
	publisher events.Publisher,
	logger logger.Interface,
) *ChangeTrackingStateUseCase {
	return &ChangeTrackingStateUseCase{
		trackingRepo: trackingRepo,
		reminderRepo: reminderRepo,
		userRepo:     userRepo,
		engine:       engine,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

// Execute performs the transition. Side effects per edge:
//
//	running → paused    delete the Upcoming reminder; Pending survives
//	paused → running    chain a fresh Upcoming from the recurrence
//	paused → archived   delete Upcoming and Pending reminders
//	archived → running  chain a fresh Upcoming from the recurrence
//	archived → deleted  delete every reminder; the row becomes a tombstone
//
// A same-state transition is a no-op. Any other edge is rejected.
func (uc *ChangeTrackingStateUseCase) Execute(ctx context.Context, cmd ChangeTrackingStateCommand) (*dto.TrackingResponse, error) {
	t, err := uc.trackingRepo.GetByID(ctx, cmd.ID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	from := t.State()
	if from == cmd.Target {
		return dto.NewTrackingResponse(t), nil
	}
	if !from.CanTransitionTo(cmd.Target) {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("transition from %s to %s is not allowed", from, cmd.Target),
		)
	}
	if err := t.TransitionTo(cmd.Target); err != nil {
		return nil, apperrors.NewInvalidTransitionError(err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if cmd.Target == vo.StateDeleted {
			// Tombstones the row and removes every reminder.
			return uc.trackingRepo.DeleteCascade(txCtx, t.ID(), t.UserID())
		}

		if err := uc.trackingRepo.UpdateState(txCtx, t.ID(), t.UserID(), cmd.Target); err != nil {
			return fmt.Errorf("failed to update tracking state: %w", err)
		}

		switch cmd.Target {
		case vo.StatePaused:
			if _, err := uc.reminderRepo.DeleteUpcomingByTrackingID(txCtx, t.ID(), t.UserID()); err != nil {
				return err
			}
		case vo.StateArchived:
			if _, err := uc.reminderRepo.DeleteUpcomingByTrackingID(txCtx, t.ID(), t.UserID()); err != nil {
				return err
			}
			if _, err := uc.reminderRepo.DeletePendingByTrackingID(txCtx, t.ID(), t.UserID()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to change tracking state",
			"error", err, "tracking_id", cmd.ID, "from", from, "to", cmd.Target)
		return nil, err
	}

	resp := dto.NewTrackingResponse(t)

	// Resuming a recurring tracking restarts the chain from the current
	// instant.
	if cmd.Target == vo.StateRunning && !t.IsOneShot() {
		owner, err := uc.userRepo.GetByID(ctx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		rem, err := uc.engine.ChainNext(ctx, t, owner, nil)
		if err != nil {
			return nil, err
		}
		if rem != nil {
			resp.Upcoming = reminderdto.NewReminderResponse(rem)
		}
	}

	if uc.publisher != nil {
		uc.publisher.Publish(events.Event{
			Kind:       events.KindTrackingStateChanged,
			UserID:     cmd.UserID,
			Payload:    resp,
			OccurredAt: t.UpdatedAt(),
		})
	}

	uc.logger.Infow("tracking state changed",
		"tracking_id", cmd.ID, "user_id", cmd.UserID, "from", from, "to", cmd.Target)
	return resp, nil
}
