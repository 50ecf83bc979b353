package valueobjects

import "fmt"

// NotificationChannel selects the out-of-band delivery channel for a user's
// reminders.
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelTelegram NotificationChannel = "telegram"
)

func NewNotificationChannel(value string) (NotificationChannel, error) {
	c := NotificationChannel(value)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid notification channel: %s", value)
	}
	return c, nil
}

func (c NotificationChannel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelTelegram:
		return true
	}
	return false
}

func (c NotificationChannel) String() string {
	return string(c)
}
