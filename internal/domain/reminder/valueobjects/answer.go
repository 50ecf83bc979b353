package valueobjects

import "fmt"

// AnswerValue is the user's response to a pending reminder.
type AnswerValue string

const (
	AnswerCompleted AnswerValue = "completed"
	AnswerDismissed AnswerValue = "dismissed"
)

func NewAnswerValue(value string) (AnswerValue, error) {
	a := AnswerValue(value)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid answer value: %s", value)
	}
	return a, nil
}

func (a AnswerValue) IsValid() bool {
	switch a {
	case AnswerCompleted, AnswerDismissed:
		return true
	}
	return false
}

func (a AnswerValue) String() string {
	return string(a)
}
