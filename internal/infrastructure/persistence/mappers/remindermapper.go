package mappers

import (
	"fmt"

	"github.com/recurra-io/recurra/internal/domain/reminder"
	vo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
	"github.com/recurra-io/recurra/internal/infrastructure/persistence/models"
)

// ReminderMapper handles the conversion between reminder entities and models.
type ReminderMapper interface {
	ToEntity(model *models.ReminderModel) (*reminder.Reminder, error)
	ToModel(entity *reminder.Reminder) (*models.ReminderModel, error)
	ToEntities(models []*models.ReminderModel) ([]*reminder.Reminder, error)
}

type ReminderMapperImpl struct{}

func NewReminderMapper() ReminderMapper {
	return &ReminderMapperImpl{}
}

func (m *ReminderMapperImpl) ToEntity(model *models.ReminderModel) (*reminder.Reminder, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.NewStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to map reminder status: %w", err)
	}

	var answerValue *vo.AnswerValue
	if model.AnswerValue != nil {
		v, err := vo.NewAnswerValue(*model.AnswerValue)
		if err != nil {
			return nil, fmt.Errorf("failed to map answer value: %w", err)
		}
		answerValue = &v
	}

	return reminder.ReconstructReminder(
		model.ID,
		model.TrackingID,
		model.UserID,
		model.ScheduledTime,
		model.Notes,
		answerValue,
		status,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *ReminderMapperImpl) ToModel(entity *reminder.Reminder) (*models.ReminderModel, error) {
	if entity == nil {
		return nil, nil
	}

	var answerValue *string
	if v := entity.AnswerValue(); v != nil {
		s := v.String()
		answerValue = &s
	}

	return &models.ReminderModel{
		ID:            entity.ID(),
		TrackingID:    entity.TrackingID(),
		UserID:        entity.UserID(),
		ScheduledTime: entity.ScheduledTime(),
		Notes:         entity.Notes(),
		AnswerValue:   answerValue,
		Status:        entity.Status().String(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

func (m *ReminderMapperImpl) ToEntities(reminderModels []*models.ReminderModel) ([]*reminder.Reminder, error) {
	entities := make([]*reminder.Reminder, 0, len(reminderModels))
	for _, model := range reminderModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
