package tracking

import (
	"context"

	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
)

// Repository persists trackings and their schedule lists. All lookups are
// scoped to the owning user; deleted trackings are tombstoned and excluded
// from user-facing reads.
type Repository interface {
	Create(ctx context.Context, t *Tracking) error
	GetByID(ctx context.Context, id, userID uint) (*Tracking, error)
	// ListByUserID returns the user's trackings excluding tombstoned ones.
	ListByUserID(ctx context.Context, userID uint) ([]*Tracking, error)
	Update(ctx context.Context, t *Tracking) error
	UpdateState(ctx context.Context, id, userID uint, state vo.TrackingState) error
	ReplaceSchedules(ctx context.Context, trackingID uint, schedules []vo.Schedule) error
	// DeleteCascade removes the tracking's reminders and schedules and
	// tombstones the tracking row.
	DeleteCascade(ctx context.Context, id, userID uint) error
}
