// Package user holds the account aggregate. The reminder core treats users
// as read-only except for timezone and notification preference lookups;
// profile mutation belongs to the auth collaborator.
package user

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/recurra-io/recurra/internal/domain/user/valueobjects"
)

type User struct {
	id             uint
	email          string
	timezone       string
	locale         string
	notifyVia      vo.NotificationChannel
	telegramChatID *int64
	createdAt      time.Time
	updatedAt      time.Time
}

func NewUser(email, timezone, locale string, notifyVia vo.NotificationChannel) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !notifyVia.IsValid() {
		return nil, fmt.Errorf("invalid notification channel")
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	if locale == "" {
		locale = "en"
	}

	now := time.Now().UTC()
	return &User{
		email:     email,
		timezone:  timezone,
		locale:    locale,
		notifyVia: notifyVia,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructUser(
	id uint,
	email, timezone, locale string,
	notifyVia vo.NotificationChannel,
	telegramChatID *int64,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !notifyVia.IsValid() {
		return nil, fmt.Errorf("invalid notification channel")
	}

	return &User{
		id:             id,
		email:          email,
		timezone:       timezone,
		locale:         locale,
		notifyVia:      notifyVia,
		telegramChatID: telegramChatID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (u *User) ID() uint                           { return u.id }
func (u *User) Email() string                      { return u.email }
func (u *User) Timezone() string                   { return u.timezone }
func (u *User) Locale() string                     { return u.locale }
func (u *User) NotifyVia() vo.NotificationChannel  { return u.notifyVia }
func (u *User) TelegramChatID() *int64             { return u.telegramChatID }
func (u *User) CreatedAt() time.Time               { return u.createdAt }
func (u *User) UpdatedAt() time.Time               { return u.updatedAt }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// Location resolves the user's IANA timezone. Every recurrence computation
// for this user's trackings happens in this location.
func (u *User) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(u.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", u.timezone, err)
	}
	return loc, nil
}

// BindTelegramChat records the chat id established by the bot /bind flow.
func (u *User) BindTelegramChat(chatID int64) error {
	if chatID == 0 {
		return fmt.Errorf("chat ID cannot be zero")
	}
	u.telegramChatID = &chatID
	u.updatedAt = time.Now().UTC()
	return nil
}
