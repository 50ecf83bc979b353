package reminder

import (
	"context"
	"time"

	"github.com/recurra-io/recurra/internal/domain/tracking"
	"github.com/recurra-io/recurra/internal/domain/user"
)

// DueItem joins a due Upcoming reminder with its tracking and owner, as
// yielded by the promotion scan.
type DueItem struct {
	Reminder *Reminder
	Tracking *tracking.Tracking
	User     *user.User
}

// Repository persists reminders. All single-row lookups are scoped to the
// owning user.
type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	GetByID(ctx context.Context, id, userID uint) (*Reminder, error)
	Update(ctx context.Context, r *Reminder) error
	Delete(ctx context.Context, id, userID uint) error

	// ListByUserID returns the user's reminders ordered by scheduled time
	// ascending. When activeOnly is set, Answered reminders are omitted.
	ListByUserID(ctx context.Context, userID uint, activeOnly bool) ([]*Reminder, error)

	// GetUpcomingByTrackingID returns the tracking's single Upcoming
	// reminder, or nil when none exists.
	GetUpcomingByTrackingID(ctx context.Context, trackingID, userID uint) (*Reminder, error)

	// DeleteUpcomingByTrackingID removes all Upcoming rows of a tracking and
	// returns the removed count.
	DeleteUpcomingByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error)

	// DeletePendingByTrackingID removes all Pending rows of a tracking and
	// returns the removed count.
	DeletePendingByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error)

	// DeleteByTrackingID removes every reminder of a tracking.
	DeleteByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error)

	// ListDue yields Upcoming reminders with scheduled_time <= asOf joined
	// with their tracking and owner, ordered by scheduled_time ascending.
	ListDue(ctx context.Context, asOf time.Time) ([]DueItem, error)
}
