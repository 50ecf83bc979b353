package dto

type AnswerReminderRequest struct {
	Value string  `json:"value" validate:"required,oneof=completed dismissed"`
	Note  *string `json:"note"`
}

type SnoozeReminderRequest struct {
	Minutes int `json:"minutes" validate:"required,gte=1,lte=10080"`
}
