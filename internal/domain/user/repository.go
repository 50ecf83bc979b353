package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*User, error)
	Update(ctx context.Context, u *User) error
	// Delete cascades to all of the user's trackings and reminders.
	Delete(ctx context.Context, id uint) error
}
