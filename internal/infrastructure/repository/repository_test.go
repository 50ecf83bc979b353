package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recurra-io/recurra/internal/domain/reminder"
	reminvo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	trackvo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/user"
	uservo "github.com/recurra-io/recurra/internal/domain/user/valueobjects"
	"github.com/recurra-io/recurra/internal/infrastructure/migration"
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

type repoFixture struct {
	users     user.Repository
	trackings tracking.Repository
	reminders reminder.Repository
	owner     *user.User
}

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// An in-memory database exists per connection; keep the pool at one.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migration.Up(gdb, "sqlite"))

	log := newNopLogger()
	f := &repoFixture{
		users:     NewUserRepository(gdb, log),
		trackings: NewTrackingRepository(gdb, log),
		reminders: NewReminderRepository(gdb, log),
	}

	owner, err := user.NewUser("owner@example.com", "UTC", "en", uservo.ChannelEmail)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), owner))
	f.owner = owner
	return f
}

func (f *repoFixture) newTracking(t *testing.T, question string) *tracking.Tracking {
	t.Helper()
	tr, err := tracking.NewTracking(f.owner.ID(), question, "", "",
		&trackvo.DaysPattern{Type: trackvo.PatternInterval, Value: 1, Unit: trackvo.UnitDays},
		[]trackvo.Schedule{{Hour: 8, Minute: 0}, {Hour: 20, Minute: 0}})
	require.NoError(t, err)
	require.NoError(t, f.trackings.Create(context.Background(), tr))
	return tr
}

func (f *repoFixture) newReminder(t *testing.T, trackingID uint, at time.Time) *reminder.Reminder {
	t.Helper()
	rem, err := reminder.NewReminder(trackingID, f.owner.ID(), at)
	require.NoError(t, err)
	require.NoError(t, f.reminders.Create(context.Background(), rem))
	return rem
}

func TestTrackingRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "Did you stretch?")
		require.NotZero(t, tr.ID())

		got, err := f.trackings.GetByID(ctx, tr.ID(), f.owner.ID())
		require.NoError(t, err)
		assert.Equal(t, "Did you stretch?", got.Question())
		require.NotNil(t, got.Days())
		assert.Equal(t, trackvo.PatternInterval, got.Days().Type)
		require.Len(t, got.Schedules(), 2)
		assert.Equal(t, 8, got.Schedules()[0].Hour)
	})

	t.Run("lookups are scoped to the owner", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")

		_, err := f.trackings.GetByID(ctx, tr.ID(), f.owner.ID()+1)
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("list excludes tombstoned trackings", func(t *testing.T) {
		f := newRepoFixture(t)
		kept := f.newTracking(t, "kept")
		gone := f.newTracking(t, "gone")

		require.NoError(t, f.trackings.DeleteCascade(ctx, gone.ID(), f.owner.ID()))

		list, err := f.trackings.ListByUserID(ctx, f.owner.ID())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, kept.ID(), list[0].ID())
	})

	t.Run("delete cascade removes reminders and schedules", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")
		f.newReminder(t, tr.ID(), time.Now().UTC().Add(time.Hour))

		require.NoError(t, f.trackings.DeleteCascade(ctx, tr.ID(), f.owner.ID()))

		rems, err := f.reminders.ListByUserID(ctx, f.owner.ID(), false)
		require.NoError(t, err)
		assert.Empty(t, rems)

		// The tombstone is still reachable by direct lookup.
		got, err := f.trackings.GetByID(ctx, tr.ID(), f.owner.ID())
		require.NoError(t, err)
		assert.Equal(t, trackvo.StateDeleted, got.State())
	})

	t.Run("update state", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")

		require.NoError(t, f.trackings.UpdateState(ctx, tr.ID(), f.owner.ID(), trackvo.StatePaused))
		got, err := f.trackings.GetByID(ctx, tr.ID(), f.owner.ID())
		require.NoError(t, err)
		assert.Equal(t, trackvo.StatePaused, got.State())
	})

	t.Run("replace schedules", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")

		require.NoError(t, f.trackings.ReplaceSchedules(ctx, tr.ID(), []trackvo.Schedule{{Hour: 6, Minute: 30}}))
		got, err := f.trackings.GetByID(ctx, tr.ID(), f.owner.ID())
		require.NoError(t, err)
		require.Len(t, got.Schedules(), 1)
		assert.Equal(t, 6, got.Schedules()[0].Hour)
	})
}

func TestReminderRepository(t *testing.T) {
	ctx := context.Background()
	future := time.Now().UTC().Add(time.Hour).Truncate(time.Second)

	t.Run("upcoming lookup returns nil when none", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")

		got, err := f.reminders.GetUpcomingByTrackingID(ctx, tr.ID(), f.owner.ID())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("upcoming lookup finds the earliest", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")
		early := f.newReminder(t, tr.ID(), future)
		f.newReminder(t, tr.ID(), future.Add(time.Hour))

		got, err := f.reminders.GetUpcomingByTrackingID(ctx, tr.ID(), f.owner.ID())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, early.ID(), got.ID())
	})

	t.Run("delete upcoming by tracking reports the count", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")
		f.newReminder(t, tr.ID(), future)
		f.newReminder(t, tr.ID(), future.Add(time.Hour))

		removed, err := f.reminders.DeleteUpcomingByTrackingID(ctx, tr.ID(), f.owner.ID())
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)
	})

	t.Run("active list excludes answered", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")
		f.newReminder(t, tr.ID(), future)

		past := time.Now().UTC().Add(-time.Minute)
		answered := f.newReminder(t, tr.ID(), past)
		require.NoError(t, answered.MarkPending(time.Now().UTC()))
		require.NoError(t, answered.Answer(reminvo.AnswerCompleted, nil))
		require.NoError(t, f.reminders.Update(ctx, answered))

		active, err := f.reminders.ListByUserID(ctx, f.owner.ID(), true)
		require.NoError(t, err)
		assert.Len(t, active, 1)

		all, err := f.reminders.ListByUserID(ctx, f.owner.ID(), false)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("updating a missing reminder is not found", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")
		rem := f.newReminder(t, tr.ID(), future)
		require.NoError(t, f.reminders.Delete(ctx, rem.ID(), f.owner.ID()))

		err := f.reminders.Update(ctx, rem)
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("due scan joins tracking and owner", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")

		due := f.newReminder(t, tr.ID(), time.Now().UTC().Add(-time.Minute))
		f.newReminder(t, tr.ID(), future) // not yet due

		items, err := f.reminders.ListDue(ctx, time.Now().UTC())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, due.ID(), items[0].Reminder.ID())
		assert.Equal(t, tr.ID(), items[0].Tracking.ID())
		assert.Equal(t, f.owner.ID(), items[0].User.ID())
	})

	t.Run("due scan skips pending reminders", func(t *testing.T) {
		f := newRepoFixture(t)
		tr := f.newTracking(t, "q")

		rem := f.newReminder(t, tr.ID(), time.Now().UTC().Add(-time.Minute))
		require.NoError(t, rem.MarkPending(time.Now().UTC()))
		require.NoError(t, f.reminders.Update(ctx, rem))

		items, err := f.reminders.ListDue(ctx, time.Now().UTC())
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
