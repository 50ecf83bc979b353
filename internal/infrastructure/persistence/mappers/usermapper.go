// Package mappers converts between domain entities and persistence models.
package mappers

import (
	"fmt"

	"github.com/recurra-io/recurra/internal/domain/user"
	vo "github.com/recurra-io/recurra/internal/domain/user/valueobjects"
	"github.com/recurra-io/recurra/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between user entities and models.
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) (*models.UserModel, error)
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	notifyVia, err := vo.NewNotificationChannel(model.NotifyVia)
	if err != nil {
		return nil, fmt.Errorf("failed to map notification channel: %w", err)
	}

	return user.ReconstructUser(
		model.ID,
		model.Email,
		model.Timezone,
		model.Locale,
		notifyVia,
		model.TelegramChatID,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *UserMapperImpl) ToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.UserModel{
		ID:             entity.ID(),
		Email:          entity.Email(),
		Timezone:       entity.Timezone(),
		Locale:         entity.Locale(),
		NotifyVia:      entity.NotifyVia().String(),
		TelegramChatID: entity.TelegramChatID(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}
