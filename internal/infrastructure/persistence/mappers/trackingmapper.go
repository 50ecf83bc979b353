package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/recurra-io/recurra/internal/domain/tracking"
	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/infrastructure/persistence/models"
)

// TrackingMapper handles the conversion between tracking entities and models.
// The recurrence pattern round-trips through the JSON column; a NULL column
// maps to a nil pattern (one-shot).
type TrackingMapper interface {
	ToEntity(model *models.TrackingModel) (*tracking.Tracking, error)
	ToModel(entity *tracking.Tracking) (*models.TrackingModel, error)
	ToEntities(models []*models.TrackingModel) ([]*tracking.Tracking, error)
}

type TrackingMapperImpl struct{}

func NewTrackingMapper() TrackingMapper {
	return &TrackingMapperImpl{}
}

func (m *TrackingMapperImpl) ToEntity(model *models.TrackingModel) (*tracking.Tracking, error) {
	if model == nil {
		return nil, nil
	}

	var days *vo.DaysPattern
	if len(model.Days) > 0 {
		parsed, err := vo.ParseDaysPattern(model.Days)
		if err != nil {
			return nil, fmt.Errorf("failed to parse days pattern: %w", err)
		}
		days = parsed
	}

	state, err := vo.NewTrackingState(model.State)
	if err != nil {
		return nil, fmt.Errorf("failed to map tracking state: %w", err)
	}

	schedules := make([]vo.Schedule, 0, len(model.Schedules))
	for _, s := range model.Schedules {
		schedules = append(schedules, vo.Schedule{Hour: s.Hour, Minute: s.Minute})
	}

	return tracking.ReconstructTracking(
		model.ID,
		model.UserID,
		model.Question,
		model.Notes,
		model.Icon,
		days,
		schedules,
		state,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *TrackingMapperImpl) ToModel(entity *tracking.Tracking) (*models.TrackingModel, error) {
	if entity == nil {
		return nil, nil
	}

	var days datatypes.JSON
	if p := entity.Days(); p != nil {
		raw, err := p.ToJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode days pattern: %w", err)
		}
		days = datatypes.JSON(raw)
	}

	schedules := make([]models.TrackingScheduleModel, 0, len(entity.Schedules()))
	for _, s := range entity.Schedules() {
		schedules = append(schedules, models.TrackingScheduleModel{
			TrackingID: entity.ID(),
			Hour:       s.Hour,
			Minute:     s.Minute,
		})
	}

	return &models.TrackingModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		Question:  entity.Question(),
		Notes:     entity.Notes(),
		Icon:      entity.Icon(),
		Days:      days,
		State:     entity.State().String(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
		Schedules: schedules,
	}, nil
}

func (m *TrackingMapperImpl) ToEntities(trackingModels []*models.TrackingModel) ([]*tracking.Tracking, error) {
	entities := make([]*tracking.Tracking, 0, len(trackingModels))
	for _, model := range trackingModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
