package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/recurra-io/recurra/internal/domain/reminder"
	vo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
	"github.com/recurra-io/recurra/internal/infrastructure/persistence/mappers"
	"github.com/recurra-io/recurra/internal/infrastructure/persistence/models"
	"github.com/recurra-io/recurra/internal/shared/db"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type ReminderRepository struct {
	db             *gorm.DB
	mapper         mappers.ReminderMapper
	trackingMapper mappers.TrackingMapper
	userMapper     mappers.UserMapper
	logger         logger.Interface
}

func NewReminderRepository(gdb *gorm.DB, logger logger.Interface) reminder.Repository {
	return &ReminderRepository{
		db:             gdb,
		mapper:         mappers.NewReminderMapper(),
		trackingMapper: mappers.NewTrackingMapper(),
		userMapper:     mappers.NewUserMapper(),
		logger:         logger,
	}
}

func (r *ReminderRepository) Create(ctx context.Context, entity *reminder.Reminder) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map reminder entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create reminder", "error", err)
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	return entity.SetID(model.ID)
}

func (r *ReminderRepository) GetByID(ctx context.Context, id, userID uint) (*reminder.Reminder, error) {
	var model models.ReminderModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("reminder not found")
		}
		r.logger.Errorw("failed to get reminder", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ReminderRepository) Update(ctx context.Context, entity *reminder.Reminder) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map reminder entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ReminderModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Updates(map[string]any{
			"scheduled_time": model.ScheduledTime,
			"notes":          model.Notes,
			"answer_value":   model.AnswerValue,
			"status":         model.Status,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update reminder", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update reminder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("reminder not found")
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id, userID uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ReminderModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete reminder", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete reminder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("reminder not found")
	}
	return nil
}

func (r *ReminderRepository) ListByUserID(ctx context.Context, userID uint, activeOnly bool) ([]*reminder.Reminder, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("scheduled_time ASC")
	if activeOnly {
		query = query.Where("status <> ?", vo.StatusAnswered.String())
	}

	var reminderModels []*models.ReminderModel
	if err := query.Find(&reminderModels).Error; err != nil {
		r.logger.Errorw("failed to list reminders", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return r.mapper.ToEntities(reminderModels)
}

func (r *ReminderRepository) GetUpcomingByTrackingID(ctx context.Context, trackingID, userID uint) (*reminder.Reminder, error) {
	var model models.ReminderModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("tracking_id = ? AND user_id = ? AND status = ?", trackingID, userID, vo.StatusUpcoming.String()).
		Order("scheduled_time ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get upcoming reminder", "tracking_id", trackingID, "error", err)
		return nil, fmt.Errorf("failed to get upcoming reminder: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ReminderRepository) DeleteUpcomingByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error) {
	return r.deleteByStatus(ctx, trackingID, userID, vo.StatusUpcoming)
}

func (r *ReminderRepository) DeletePendingByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error) {
	return r.deleteByStatus(ctx, trackingID, userID, vo.StatusPending)
}

func (r *ReminderRepository) deleteByStatus(ctx context.Context, trackingID, userID uint, status vo.Status) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("tracking_id = ? AND user_id = ? AND status = ?", trackingID, userID, status.String()).
		Delete(&models.ReminderModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete reminders by status",
			"tracking_id", trackingID, "status", status, "error", result.Error)
		return 0, fmt.Errorf("failed to delete reminders: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ReminderRepository) DeleteByTrackingID(ctx context.Context, trackingID, userID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("tracking_id = ? AND user_id = ?", trackingID, userID).
		Delete(&models.ReminderModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete tracking reminders", "tracking_id", trackingID, "error", result.Error)
		return 0, fmt.Errorf("failed to delete reminders: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListDue loads every Upcoming reminder whose instant has passed together
// with its tracking and owner. Ordering is oldest first so promotion handles
// backlogs in scheduled order.
func (r *ReminderRepository) ListDue(ctx context.Context, asOf time.Time) ([]reminder.DueItem, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var reminderModels []*models.ReminderModel
	err := tx.Where("status = ? AND scheduled_time <= ?", vo.StatusUpcoming.String(), asOf.UTC()).
		Order("scheduled_time ASC").
		Find(&reminderModels).Error
	if err != nil {
		r.logger.Errorw("failed to scan due reminders", "error", err)
		return nil, fmt.Errorf("failed to scan due reminders: %w", err)
	}
	if len(reminderModels) == 0 {
		return nil, nil
	}

	trackingIDs := make([]uint, 0, len(reminderModels))
	userIDs := make([]uint, 0, len(reminderModels))
	for _, m := range reminderModels {
		trackingIDs = append(trackingIDs, m.TrackingID)
		userIDs = append(userIDs, m.UserID)
	}

	var trackingModels []*models.TrackingModel
	if err := tx.Preload("Schedules").Where("id IN ?", trackingIDs).Find(&trackingModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load due trackings: %w", err)
	}
	trackingsByID := make(map[uint]*models.TrackingModel, len(trackingModels))
	for _, m := range trackingModels {
		trackingsByID[m.ID] = m
	}

	var userModels []*models.UserModel
	if err := tx.Where("id IN ?", userIDs).Find(&userModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load due users: %w", err)
	}
	usersByID := make(map[uint]*models.UserModel, len(userModels))
	for _, m := range userModels {
		usersByID[m.ID] = m
	}

	items := make([]reminder.DueItem, 0, len(reminderModels))
	for _, m := range reminderModels {
		trackingModel, ok := trackingsByID[m.TrackingID]
		if !ok {
			r.logger.Warnw("due reminder without tracking", "reminder_id", m.ID, "tracking_id", m.TrackingID)
			continue
		}
		userModel, ok := usersByID[m.UserID]
		if !ok {
			r.logger.Warnw("due reminder without user", "reminder_id", m.ID, "user_id", m.UserID)
			continue
		}

		rem, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		t, err := r.trackingMapper.ToEntity(trackingModel)
		if err != nil {
			return nil, err
		}
		u, err := r.userMapper.ToEntity(userModel)
		if err != nil {
			return nil, err
		}

		items = append(items, reminder.DueItem{Reminder: rem, Tracking: t, User: u})
	}
	return items, nil
}
