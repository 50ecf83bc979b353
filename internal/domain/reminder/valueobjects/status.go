package valueobjects

import "fmt"

// Status is the lifecycle state of a reminder. Upcoming reminders wait for
// their scheduled instant, Pending ones await the user's answer, Answered
// ones are terminal.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusPending  Status = "pending"
	StatusAnswered Status = "answered"
)

func NewStatus(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid reminder status: %s", value)
	}
	return s, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusPending, StatusAnswered:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusAnswered
}

func (s Status) String() string {
	return string(s)
}
