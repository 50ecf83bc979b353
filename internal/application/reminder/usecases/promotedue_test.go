package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recurra-io/recurra/internal/application/reminder/services"
	"github.com/recurra-io/recurra/internal/domain/reminder"
	reminvo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/shared/events"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	trackvo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/user"
	uservo "github.com/recurra-io/recurra/internal/domain/user/valueobjects"
	"github.com/recurra-io/recurra/internal/shared/db"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

// promoteRepo serves the tick path: the due slice is set by the test, the
// items map backs the engine's chain writes.
type promoteRepo struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]*reminder.Reminder
	due    []reminder.DueItem
}

func newPromoteRepo() *promoteRepo {
	return &promoteRepo{items: make(map[uint]*reminder.Reminder)}
}

func (r *promoteRepo) Create(ctx context.Context, rem *reminder.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := rem.SetID(r.nextID); err != nil {
		return err
	}
	r.items[rem.ID()] = rem
	return nil
}

func (r *promoteRepo) GetByID(ctx context.Context, id, userID uint) (*reminder.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("reminder not found")
	}
	return rem, nil
}

func (r *promoteRepo) Update(ctx context.Context, rem *reminder.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rem.ID()] = rem
	return nil
}

func (r *promoteRepo) Delete(ctx context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *promoteRepo) ListByUserID(ctx context.Context, userID uint, activeOnly bool) ([]*reminder.Reminder, error) {
	return nil, nil
}

func (r *promoteRepo) GetUpcomingByTrackingID(ctx context.Context, trackingID, userID uint) (*reminder.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.items {
		if rem.TrackingID() == trackingID && rem.Status() == reminvo.StatusUpcoming {
			return rem, nil
		}
	}
	return nil, nil
}

func (r *promoteRepo) DeleteUpcomingByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, rem := range r.items {
		if rem.TrackingID() == trackingID && rem.Status() == reminvo.StatusUpcoming {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

func (r *promoteRepo) DeletePendingByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error) {
	return 0, nil
}

func (r *promoteRepo) DeleteByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error) {
	return 0, nil
}

func (r *promoteRepo) ListDue(ctx context.Context, asOf time.Time) ([]reminder.DueItem, error) {
	return r.due, nil
}

type noopTrackingRepo struct{}

func (noopTrackingRepo) Create(ctx context.Context, t *tracking.Tracking) error { return nil }
func (noopTrackingRepo) GetByID(ctx context.Context, id, userID uint) (*tracking.Tracking, error) {
	return nil, apperrors.NewNotFoundError("tracking not found")
}
func (noopTrackingRepo) ListByUserID(ctx context.Context, userID uint) ([]*tracking.Tracking, error) {
	return nil, nil
}
func (noopTrackingRepo) Update(ctx context.Context, t *tracking.Tracking) error { return nil }
func (noopTrackingRepo) UpdateState(ctx context.Context, id, userID uint, state trackvo.TrackingState) error {
	return nil
}
func (noopTrackingRepo) ReplaceSchedules(ctx context.Context, trackingID uint, schedules []trackvo.Schedule) error {
	return nil
}
func (noopTrackingRepo) DeleteCascade(ctx context.Context, id, userID uint) error { return nil }

type noopUserRepo struct{}

func (noopUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (noopUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return nil, apperrors.NewNotFoundError("user not found")
}
func (noopUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, apperrors.NewNotFoundError("user not found")
}
func (noopUserRepo) GetByTelegramChatID(ctx context.Context, chatID int64) (*user.User, error) {
	return nil, apperrors.NewNotFoundError("user not found")
}
func (noopUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (noopUserRepo) Delete(ctx context.Context, id uint) error      { return nil }

type recordingDispatcher struct {
	mu    sync.Mutex
	items []reminder.DueItem
}

func (d *recordingDispatcher) Enqueue(item reminder.DueItem) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, item)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

type promoteFixture struct {
	uc         *PromoteDueUseCase
	repo       *promoteRepo
	engine     *services.Engine
	dispatcher *recordingDispatcher
	owner      *user.User
	now        time.Time
}

func newPromoteFixture(t *testing.T) *promoteFixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	owner, err := user.ReconstructUser(1, "owner@example.com", "UTC", "en",
		uservo.ChannelEmail, nil, time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)

	repo := newPromoteRepo()
	txManager := db.NewTransactionManager(gdb)
	engine := services.NewEngine(repo, noopTrackingRepo{}, noopUserRepo{},
		txManager, events.NopPublisher{}, newNopLogger())

	now := time.Date(2025, 3, 15, 12, 0, 30, 0, time.UTC)
	engine.SetNow(func() time.Time { return now })

	dispatcher := &recordingDispatcher{}
	return &promoteFixture{
		uc:         NewPromoteDueUseCase(repo, engine, txManager, dispatcher, newNopLogger()),
		repo:       repo,
		engine:     engine,
		dispatcher: dispatcher,
		owner:      owner,
		now:        now,
	}
}

func (f *promoteFixture) runningDaily(t *testing.T, id uint) *tracking.Tracking {
	t.Helper()
	tr, err := tracking.ReconstructTracking(id, 1, "Did you stretch?", "", "",
		&trackvo.DaysPattern{Type: trackvo.PatternInterval, Value: 1, Unit: trackvo.UnitDays},
		[]trackvo.Schedule{{Hour: 12, Minute: 0}},
		trackvo.StateRunning,
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), f.now)
	require.NoError(t, err)
	return tr
}

func (f *promoteFixture) dueItem(t *testing.T, tr *tracking.Tracking, at time.Time) reminder.DueItem {
	t.Helper()
	rem, err := reminder.NewReminder(tr.ID(), tr.UserID(), at)
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(context.Background(), rem))
	return reminder.DueItem{Reminder: rem, Tracking: tr, User: f.owner}
}

func TestPromoteDueExecute(t *testing.T) {
	due := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("due reminder is promoted, delivered and chained", func(t *testing.T) {
		f := newPromoteFixture(t)
		tr := f.runningDaily(t, 1)
		item := f.dueItem(t, tr, due)
		f.repo.due = []reminder.DueItem{item}

		promoted, err := f.uc.Execute(context.Background(), f.now)
		require.NoError(t, err)
		assert.Equal(t, 1, promoted)
		assert.Equal(t, 1, f.dispatcher.count())
		assert.Equal(t, reminvo.StatusPending, item.Reminder.Status())

		upcoming, err := f.repo.GetUpcomingByTrackingID(context.Background(), tr.ID(), 1)
		require.NoError(t, err)
		require.NotNil(t, upcoming)
		assert.Equal(t, due.Add(24*time.Hour), upcoming.ScheduledTime())
	})

	t.Run("empty scan is a no-op", func(t *testing.T) {
		f := newPromoteFixture(t)

		promoted, err := f.uc.Execute(context.Background(), f.now)
		require.NoError(t, err)
		assert.Zero(t, promoted)
		assert.Zero(t, f.dispatcher.count())
	})

	t.Run("a failing item does not abort the pass", func(t *testing.T) {
		f := newPromoteFixture(t)
		tr := f.runningDaily(t, 1)

		bad := f.dueItem(t, tr, due)
		// Already promoted elsewhere; MarkPending will reject it.
		require.NoError(t, bad.Reminder.MarkPending(f.now))
		good := f.dueItem(t, tr, due)
		f.repo.due = []reminder.DueItem{bad, good}

		promoted, err := f.uc.Execute(context.Background(), f.now)
		require.NoError(t, err)
		assert.Equal(t, 1, promoted)
		assert.Equal(t, 1, f.dispatcher.count())
	})

	t.Run("one-shot tracking is promoted but not chained", func(t *testing.T) {
		f := newPromoteFixture(t)
		tr, err := tracking.ReconstructTracking(2, 1, "Dentist", "", "", nil,
			[]trackvo.Schedule{{Hour: 12, Minute: 0}}, trackvo.StateRunning,
			time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), f.now)
		require.NoError(t, err)
		item := f.dueItem(t, tr, due)
		f.repo.due = []reminder.DueItem{item}

		promoted, err := f.uc.Execute(context.Background(), f.now)
		require.NoError(t, err)
		assert.Equal(t, 1, promoted)
		assert.Equal(t, reminvo.StatusPending, item.Reminder.Status())

		upcoming, err := f.repo.GetUpcomingByTrackingID(context.Background(), tr.ID(), 1)
		require.NoError(t, err)
		assert.Nil(t, upcoming)
	})

	t.Run("several due occurrences of one tracking chain once", func(t *testing.T) {
		f := newPromoteFixture(t)
		tr := f.runningDaily(t, 1)

		first := f.dueItem(t, tr, due.Add(-24*time.Hour))
		second := f.dueItem(t, tr, due)
		f.repo.due = []reminder.DueItem{first, second}

		promoted, err := f.uc.Execute(context.Background(), f.now)
		require.NoError(t, err)
		assert.Equal(t, 2, promoted)
		assert.Equal(t, 2, f.dispatcher.count())

		// Exactly one Upcoming afterwards.
		count := 0
		for _, rem := range f.repo.items {
			if rem.TrackingID() == tr.ID() && rem.Status() == reminvo.StatusUpcoming {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("chain skips the promoted instant when the tick runs ahead of the clock", func(t *testing.T) {
		f := newPromoteFixture(t)
		tr := f.runningDaily(t, 1)
		item := f.dueItem(t, tr, due)
		f.repo.due = []reminder.DueItem{item}

		// The engine clock sits just before the promoted instant, so that
		// instant is still a future occurrence from the chain's point of view.
		// Excluding it keeps the replacement from landing on it again.
		f.engine.SetNow(func() time.Time {
			return time.Date(2025, 3, 15, 11, 59, 0, 0, time.UTC)
		})

		promoted, err := f.uc.Execute(context.Background(), f.now)
		require.NoError(t, err)
		assert.Equal(t, 1, promoted)

		upcoming, err := f.repo.GetUpcomingByTrackingID(context.Background(), tr.ID(), 1)
		require.NoError(t, err)
		require.NotNil(t, upcoming)
		assert.Equal(t, due.Add(24*time.Hour), upcoming.ScheduledTime())
	})

	t.Run("cancelled context stops the pass", func(t *testing.T) {
		f := newPromoteFixture(t)
		tr := f.runningDaily(t, 1)
		f.repo.due = []reminder.DueItem{f.dueItem(t, tr, due)}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.uc.Execute(ctx, f.now)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
