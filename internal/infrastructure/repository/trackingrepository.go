package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/recurra-io/recurra/internal/domain/tracking"
	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/infrastructure/persistence/mappers"
	"github.com/recurra-io/recurra/internal/infrastructure/persistence/models"
	"github.com/recurra-io/recurra/internal/shared/db"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type TrackingRepository struct {
	db     *gorm.DB
	mapper mappers.TrackingMapper
	logger logger.Interface
}

func NewTrackingRepository(gdb *gorm.DB, logger logger.Interface) tracking.Repository {
	return &TrackingRepository{
		db:     gdb,
		mapper: mappers.NewTrackingMapper(),
		logger: logger,
	}
}

func (r *TrackingRepository) Create(ctx context.Context, entity *tracking.Tracking) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map tracking entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create tracking", "error", err)
		return fmt.Errorf("failed to create tracking: %w", err)
	}

	return entity.SetID(model.ID)
}

func (r *TrackingRepository) GetByID(ctx context.Context, id, userID uint) (*tracking.Tracking, error) {
	var model models.TrackingModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Schedules").
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("tracking not found")
		}
		r.logger.Errorw("failed to get tracking", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get tracking: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *TrackingRepository) ListByUserID(ctx context.Context, userID uint) ([]*tracking.Tracking, error) {
	var trackingModels []*models.TrackingModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Schedules").
		Where("user_id = ? AND state <> ?", userID, vo.StateDeleted.String()).
		Order("created_at ASC").
		Find(&trackingModels).Error
	if err != nil {
		r.logger.Errorw("failed to list trackings", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list trackings: %w", err)
	}
	return r.mapper.ToEntities(trackingModels)
}

func (r *TrackingRepository) Update(ctx context.Context, entity *tracking.Tracking) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map tracking entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.TrackingModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Updates(map[string]any{
			"question":   model.Question,
			"notes":      model.Notes,
			"icon":       model.Icon,
			"days":       model.Days,
			"state":      model.State,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update tracking", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update tracking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("tracking not found")
	}

	return r.ReplaceSchedules(ctx, entity.ID(), entity.Schedules())
}

func (r *TrackingRepository) UpdateState(ctx context.Context, id, userID uint, state vo.TrackingState) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TrackingModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"state":      state.String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update tracking state", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update tracking state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("tracking not found")
	}
	return nil
}

func (r *TrackingRepository) ReplaceSchedules(ctx context.Context, trackingID uint, schedules []vo.Schedule) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("tracking_id = ?", trackingID).Delete(&models.TrackingScheduleModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear schedules: %w", err)
	}

	rows := make([]models.TrackingScheduleModel, 0, len(schedules))
	for _, s := range schedules {
		rows = append(rows, models.TrackingScheduleModel{
			TrackingID: trackingID,
			Hour:       s.Hour,
			Minute:     s.Minute,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert schedules: %w", err)
	}
	return nil
}

// DeleteCascade removes every reminder and schedule of the tracking and
// tombstones the tracking row itself.
func (r *TrackingRepository) DeleteCascade(ctx context.Context, id, userID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("tracking_id = ? AND user_id = ?", id, userID).Delete(&models.ReminderModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete reminders: %w", err)
	}
	if err := tx.Where("tracking_id = ?", id).Delete(&models.TrackingScheduleModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete schedules: %w", err)
	}

	result := tx.Model(&models.TrackingModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"state":      vo.StateDeleted.String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to tombstone tracking", "id", id, "error", result.Error)
		return fmt.Errorf("failed to tombstone tracking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("tracking not found")
	}
	return nil
}
