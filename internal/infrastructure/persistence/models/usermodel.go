// Package models holds the GORM persistence models. They form the
// anti-corruption layer between the domain entities and the database schema.
package models

import "time"

// UserModel is the persistence model for accounts.
type UserModel struct {
	ID             uint   `gorm:"primarykey"`
	Email          string `gorm:"uniqueIndex;not null;size:255"`
	Timezone       string `gorm:"not null;size:64;default:UTC"`
	Locale         string `gorm:"size:16;default:en"`
	NotifyVia      string `gorm:"not null;size:20;default:email"`
	TelegramChatID *int64 `gorm:"uniqueIndex:idx_users_telegram_chat_id"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (UserModel) TableName() string {
	return "users"
}
