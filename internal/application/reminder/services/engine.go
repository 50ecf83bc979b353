// Package services implements the reminder lifecycle engine: the single
// writer of reminder rows outside the persistence layer. It creates the
// initial Upcoming reminder for a tracking, chains the next occurrence when
// one terminates, and applies user actions (answer, snooze, delete).
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	reminderdto "github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/domain/reminder"
	reminvo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/shared/events"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	"github.com/recurra-io/recurra/internal/domain/user"
	"github.com/recurra-io/recurra/internal/shared/db"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// Engine owns reminder state changes. All mutation paths that affect the
// chain (answer, delete, snooze, lifecycle side effects, tick promotion) go
// through it so the one-Upcoming-per-tracking invariant holds.
type Engine struct {
	reminderRepo reminder.Repository
	trackingRepo tracking.Repository
	userRepo     user.Repository
	txManager    *db.TransactionManager
	publisher    events.Publisher
	logger       logger.Interface
	now          func() time.Time
}

func NewEngine(
	reminderRepo reminder.Repository,
	trackingRepo tracking.Repository,
	userRepo user.Repository,
	txManager *db.TransactionManager,
	publisher events.Publisher,
	log logger.Interface,
) *Engine {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Engine{
		reminderRepo: reminderRepo,
		trackingRepo: trackingRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		publisher:    publisher,
		logger:       log.Named("reminder-engine"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the engine clock. Test hook.
func (e *Engine) SetNow(now func() time.Time) {
	e.now = now
}

// ScheduleInitial creates the first Upcoming reminder for a freshly created
// tracking. For a one-shot tracking the caller supplies the firing instant;
// for a recurring one the instant comes from the recurrence evaluator.
// A recurring pattern with no occurrence inside the horizon is reported and
// leaves the tracking without an Upcoming reminder; it does not fail the
// caller.
func (e *Engine) ScheduleInitial(ctx context.Context, t *tracking.Tracking, owner *user.User, oneShotAt *time.Time) (*reminder.Reminder, error) {
	var instant time.Time
	if t.IsOneShot() {
		if oneShotAt == nil {
			return nil, apperrors.NewValidationError("one-shot tracking requires a scheduled time")
		}
		instant = oneShotAt.UTC()
	} else {
		loc, err := owner.Location()
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		next, err := tracking.NextOccurrence(t.Days(), t.Schedules(), t.CreatedAt(), e.now(), loc, nil)
		if err != nil {
			e.reportSchedulingFailure(t, err)
			return nil, nil
		}
		instant = next
	}

	rem, err := reminder.NewReminder(t.ID(), t.UserID(), instant)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create reminder", err.Error())
	}
	if err := e.reminderRepo.Create(ctx, rem); err != nil {
		return nil, err
	}

	e.publish(events.KindUpcomingReplaced, t.UserID(), reminderdto.NewReminderResponse(rem))
	return rem, nil
}

// ChainNext replaces the tracking's Upcoming reminder with the next computed
// occurrence. The stale Upcoming rows are deleted and the new one inserted in
// a single transaction, so a reader never observes two Upcoming reminders for
// the same tracking. An excluded instant lets the computation step past the
// occurrence that just terminated when its scheduled time is still in the
// future.
//
// Returns nil without error when the pattern yields no further occurrence;
// the stale Upcoming rows are still removed.
func (e *Engine) ChainNext(ctx context.Context, t *tracking.Tracking, owner *user.User, excluded *time.Time) (*reminder.Reminder, error) {
	loc, err := owner.Location()
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	next, evalErr := tracking.NextOccurrence(t.Days(), t.Schedules(), t.CreatedAt(), e.now(), loc, excluded)
	if evalErr != nil && !errors.Is(evalErr, tracking.ErrNoOccurrence) && !errors.Is(evalErr, tracking.ErrInvalidPattern) {
		return nil, evalErr
	}

	var rem *reminder.Reminder
	err = e.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := e.reminderRepo.DeleteUpcomingByTrackingID(txCtx, t.ID(), t.UserID()); err != nil {
			return err
		}
		if evalErr != nil {
			return nil
		}

		created, err := reminder.NewReminder(t.ID(), t.UserID(), next)
		if err != nil {
			return err
		}
		if err := e.reminderRepo.Create(txCtx, created); err != nil {
			return err
		}
		rem = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if evalErr != nil {
		e.reportSchedulingFailure(t, evalErr)
		return nil, nil
	}

	e.publish(events.KindUpcomingReplaced, t.UserID(), reminderdto.NewReminderResponse(rem))
	return rem, nil
}

// EnsureUpcomingMatches reconciles the stored Upcoming reminder with the
// instant the evaluator computes for the tracking's current pattern and
// schedules. When the stored instant already matches, nothing is written and
// no event is emitted; otherwise the Upcoming is replaced.
func (e *Engine) EnsureUpcomingMatches(ctx context.Context, t *tracking.Tracking, owner *user.User) (*reminder.Reminder, error) {
	current, err := e.reminderRepo.GetUpcomingByTrackingID(ctx, t.ID(), t.UserID())
	if err != nil {
		return nil, err
	}

	if t.IsOneShot() {
		// A one-shot keeps whatever Upcoming it has; there is nothing to
		// recompute from.
		return current, nil
	}

	loc, err := owner.Location()
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	next, evalErr := tracking.NextOccurrence(t.Days(), t.Schedules(), t.CreatedAt(), e.now(), loc, nil)
	if evalErr != nil {
		if current != nil {
			if _, err := e.reminderRepo.DeleteUpcomingByTrackingID(ctx, t.ID(), t.UserID()); err != nil {
				return nil, err
			}
		}
		e.reportSchedulingFailure(t, evalErr)
		return nil, nil
	}

	if current != nil && current.ScheduledTime().Equal(next) {
		return current, nil
	}
	return e.ChainNext(ctx, t, owner, nil)
}

// Answer records the user's response on a Pending reminder and, for a
// running recurring tracking, chains the next occurrence. The chain excludes
// the answered instant so an early answer cannot re-produce it.
func (e *Engine) Answer(ctx context.Context, reminderID, userID uint, value reminvo.AnswerValue, note *string) (*reminder.Reminder, error) {
	rem, err := e.reminderRepo.GetByID(ctx, reminderID, userID)
	if err != nil {
		return nil, err
	}

	if rem.Status() != reminvo.StatusPending {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("cannot answer reminder in %s status", rem.Status()),
		)
	}
	if err := rem.Answer(value, note); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := e.reminderRepo.Update(ctx, rem); err != nil {
		return nil, err
	}

	e.publish(events.KindReminderAnswered, userID, reminderdto.NewReminderResponse(rem))
	e.chainAfterTermination(ctx, rem)
	return rem, nil
}

// Snooze pushes the reminder's instant forward by the given minutes and
// returns it to Upcoming. Valid from Pending or Upcoming; repeated snoozes
// stack on the already shifted instant.
func (e *Engine) Snooze(ctx context.Context, reminderID, userID uint, minutes int) (*reminder.Reminder, error) {
	if minutes < 1 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("snooze minutes must be at least 1, got %d", minutes))
	}

	rem, err := e.reminderRepo.GetByID(ctx, reminderID, userID)
	if err != nil {
		return nil, err
	}

	if rem.Status() == reminvo.StatusAnswered {
		return nil, apperrors.NewInvalidTransitionError("cannot snooze an answered reminder")
	}
	if err := rem.Snooze(minutes); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := e.reminderRepo.Update(ctx, rem); err != nil {
		return nil, err
	}

	e.publish(events.KindReminderUpdated, userID, reminderdto.NewReminderResponse(rem))
	return rem, nil
}

// UpdateNote replaces the reminder's notes text without touching its status.
func (e *Engine) UpdateNote(ctx context.Context, reminderID, userID uint, note string) (*reminder.Reminder, error) {
	rem, err := e.reminderRepo.GetByID(ctx, reminderID, userID)
	if err != nil {
		return nil, err
	}

	rem.AddNote(note)
	if err := e.reminderRepo.Update(ctx, rem); err != nil {
		return nil, err
	}

	e.publish(events.KindReminderUpdated, userID, reminderdto.NewReminderResponse(rem))
	return rem, nil
}

// Delete removes a reminder. Removing the live end of the chain (an Upcoming
// or Pending reminder of a running recurring tracking) chains the next
// occurrence, excluding the deleted instant.
func (e *Engine) Delete(ctx context.Context, reminderID, userID uint) error {
	rem, err := e.reminderRepo.GetByID(ctx, reminderID, userID)
	if err != nil {
		return err
	}

	wasLive := rem.Status() != reminvo.StatusAnswered
	if err := e.reminderRepo.Delete(ctx, reminderID, userID); err != nil {
		return err
	}

	e.publish(events.KindReminderDeleted, userID, reminderdto.ReminderDeletedPayload{
		ID:         rem.ID(),
		TrackingID: rem.TrackingID(),
	})

	if wasLive {
		e.chainAfterTermination(ctx, rem)
	}
	return nil
}

// MarkPending promotes a due Upcoming reminder and emits the due event. Used
// by the tick scan; the repository write runs in the caller's transaction
// context.
func (e *Engine) MarkPending(ctx context.Context, rem *reminder.Reminder, asOf time.Time) error {
	if err := rem.MarkPending(asOf); err != nil {
		return apperrors.NewInvalidTransitionError(err.Error())
	}
	if err := e.reminderRepo.Update(ctx, rem); err != nil {
		return err
	}

	e.publish(events.KindReminderDuePending, rem.UserID(), reminderdto.NewReminderResponse(rem))
	return nil
}

// chainAfterTermination chains the next occurrence after a reminder left the
// live chain. Failures here never surface to the user action that triggered
// them; the user's own state change already committed.
func (e *Engine) chainAfterTermination(ctx context.Context, rem *reminder.Reminder) {
	t, err := e.trackingRepo.GetByID(ctx, rem.TrackingID(), rem.UserID())
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return
		}
		e.logger.Errorw("failed to load tracking for chain",
			"tracking_id", rem.TrackingID(), "error", err)
		return
	}
	if !t.IsRunning() || t.IsOneShot() {
		return
	}

	owner, err := e.userRepo.GetByID(ctx, rem.UserID())
	if err != nil {
		e.logger.Errorw("failed to load owner for chain",
			"user_id", rem.UserID(), "error", err)
		return
	}

	excluded := rem.ScheduledTime()
	if _, err := e.ChainNext(ctx, t, owner, &excluded); err != nil {
		e.logger.Errorw("failed to chain next occurrence",
			"tracking_id", t.ID(), "error", err)
	}
}

func (e *Engine) reportSchedulingFailure(t *tracking.Tracking, evalErr error) {
	appErr := apperrors.NewSchedulingFailedError(
		"no future occurrence within search horizon",
		evalErr.Error(),
	)
	e.logger.Warnw("scheduling failed",
		"tracking_id", t.ID(),
		"user_id", t.UserID(),
		"error", appErr,
	)
}

func (e *Engine) publish(kind events.Kind, userID uint, payload any) {
	if e.publisher == nil {
		return
	}
	e.publisher.Publish(events.Event{
		Kind:       kind,
		UserID:     userID,
		Payload:    payload,
		OccurredAt: e.now().UTC(),
	})
}
