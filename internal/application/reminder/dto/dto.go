// Package dto carries the reminder payload shapes shared by the HTTP reads
// and the SSE stream.
package dto

import (
	"time"

	"github.com/recurra-io/recurra/internal/domain/reminder"
)

type ReminderResponse struct {
	ID            uint    `json:"id"`
	TrackingID    uint    `json:"tracking_id"`
	ScheduledTime string  `json:"scheduled_time"`
	Notes         string  `json:"notes,omitempty"`
	AnswerValue   *string `json:"answer_value,omitempty"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func NewReminderResponse(r *reminder.Reminder) *ReminderResponse {
	resp := &ReminderResponse{
		ID:            r.ID(),
		TrackingID:    r.TrackingID(),
		ScheduledTime: r.ScheduledTime().UTC().Format(time.RFC3339),
		Notes:         r.Notes(),
		Status:        r.Status().String(),
		CreatedAt:     r.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt().UTC().Format(time.RFC3339),
	}
	if v := r.AnswerValue(); v != nil {
		s := v.String()
		resp.AnswerValue = &s
	}
	return resp
}

func NewReminderResponses(reminders []*reminder.Reminder) []*ReminderResponse {
	out := make([]*ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, NewReminderResponse(r))
	}
	return out
}

// ReminderDeletedPayload is the SSE payload for a removed reminder.
type ReminderDeletedPayload struct {
	ID         uint `json:"id"`
	TrackingID uint `json:"tracking_id"`
}
