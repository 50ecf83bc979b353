// Package dto carries the tracking payload shapes shared by the HTTP reads
// and the SSE stream.
package dto

import (
	"time"

	reminderdto "github.com/recurra-io/recurra/internal/application/reminder/dto"
	"github.com/recurra-io/recurra/internal/domain/tracking"
	vo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
)

type ScheduleDTO struct {
	Hour   int `json:"hour" validate:"gte=0,lte=23"`
	Minute int `json:"minute" validate:"gte=0,lte=59"`
}

type TrackingResponse struct {
	ID        uint                          `json:"id"`
	Question  string                        `json:"question"`
	Notes     string                        `json:"notes,omitempty"`
	Icon      string                        `json:"icon,omitempty"`
	Days      *vo.DaysPattern               `json:"days,omitempty"`
	Schedules []ScheduleDTO                 `json:"schedules"`
	State     string                        `json:"state"`
	Upcoming  *reminderdto.ReminderResponse `json:"upcoming,omitempty"`
	CreatedAt string                        `json:"created_at"`
	UpdatedAt string                        `json:"updated_at"`
}

func NewTrackingResponse(t *tracking.Tracking) *TrackingResponse {
	schedules := t.Schedules()
	dtos := make([]ScheduleDTO, 0, len(schedules))
	for _, s := range schedules {
		dtos = append(dtos, ScheduleDTO{Hour: s.Hour, Minute: s.Minute})
	}

	return &TrackingResponse{
		ID:        t.ID(),
		Question:  t.Question(),
		Notes:     t.Notes(),
		Icon:      t.Icon(),
		Days:      t.Days(),
		Schedules: dtos,
		State:     t.State().String(),
		CreatedAt: t.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt().UTC().Format(time.RFC3339),
	}
}

// ToSchedules converts request schedule DTOs into domain value objects.
func ToSchedules(dtos []ScheduleDTO) []vo.Schedule {
	out := make([]vo.Schedule, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, vo.Schedule{Hour: d.Hour, Minute: d.Minute})
	}
	return out
}
