// Package notifier drains due reminders through a bounded worker pool and
// delivers them over the user's configured channel.
package notifier

import (
	"errors"
	"time"

	"github.com/recurra-io/recurra/internal/domain/reminder"
	uservo "github.com/recurra-io/recurra/internal/domain/user/valueobjects"
	"github.com/recurra-io/recurra/internal/infrastructure/email"
	"github.com/recurra-io/recurra/internal/infrastructure/telegram"
)

// Sender delivers one due reminder over a single channel.
type Sender interface {
	Send(item reminder.DueItem) error
}

// permanentError marks a delivery failure that retrying cannot fix, such as a
// missing chat binding or an unconfigured channel.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err as non-retryable.
func Permanent(err error) error {
	return &permanentError{err: err}
}

// IsPermanent reports whether err is a non-retryable delivery failure.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// EmailSender delivers reminders over SMTP.
type EmailSender struct {
	service *email.SMTPEmailService
}

func NewEmailSender(service *email.SMTPEmailService) *EmailSender {
	return &EmailSender{service: service}
}

func (s *EmailSender) Send(item reminder.DueItem) error {
	if !s.service.Configured() {
		return Permanent(email.ErrEmailServiceNotConfigured)
	}

	loc, err := item.User.Location()
	if err != nil {
		loc = time.UTC
	}

	return s.service.SendReminderEmail(
		item.User.Email(),
		item.Tracking.Question(),
		item.Reminder.Notes(),
		item.Reminder.ScheduledTime(),
		loc,
	)
}

// TelegramSender delivers reminders as bot messages with inline action
// buttons.
type TelegramSender struct {
	botService *telegram.BotService
}

func NewTelegramSender(botService *telegram.BotService) *TelegramSender {
	return &TelegramSender{botService: botService}
}

func (s *TelegramSender) Send(item reminder.DueItem) error {
	if !s.botService.Enabled() {
		return Permanent(errors.New("telegram bot not configured"))
	}

	chatID := item.User.TelegramChatID()
	if chatID == nil {
		return Permanent(errors.New("user has no telegram chat bound"))
	}

	loc, err := item.User.Location()
	if err != nil {
		loc = time.UTC
	}

	body := telegram.FormatReminderMessage(
		item.Tracking.Question(),
		item.Reminder.Notes(),
		item.User.Locale(),
		item.Reminder.ScheduledTime(),
		loc,
	)
	keyboard := telegram.ReminderKeyboard(item.Reminder.ID(), item.User.Locale())

	return s.botService.SendMessageWithInlineKeyboard(*chatID, body, keyboard)
}

// SenderFor maps a notification channel to its sender.
func SenderFor(channel uservo.NotificationChannel, emailSender *EmailSender, telegramSender *TelegramSender) Sender {
	switch channel {
	case uservo.ChannelTelegram:
		return telegramSender
	default:
		return emailSender
	}
}
