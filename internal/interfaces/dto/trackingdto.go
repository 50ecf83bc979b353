// Package dto holds the HTTP request shapes and their validation tags.
package dto

import (
	"encoding/json"
	"time"
)

type ScheduleRequest struct {
	Hour   int `json:"hour" validate:"gte=0,lte=23"`
	Minute int `json:"minute" validate:"gte=0,lte=59"`
}

// CreateTrackingRequest creates a tracking. Days is the recurrence pattern
// document; absent or null means a one-shot tracking, which requires
// one_time_date.
type CreateTrackingRequest struct {
	Question    string            `json:"question" validate:"required,max=100"`
	Notes       string            `json:"notes"`
	Icon        string            `json:"icon" validate:"max=64"`
	Days        json.RawMessage   `json:"days"`
	Schedules   []ScheduleRequest `json:"schedules" validate:"required,min=1,max=5,dive"`
	OneTimeDate *time.Time        `json:"one_time_date"`
}

// UpdateTrackingRequest carries partial updates. Days distinguishes absent
// (key missing, leave untouched) from explicit null (clear to one-shot) via
// the raw message.
type UpdateTrackingRequest struct {
	Question  *string           `json:"question" validate:"omitempty,max=100"`
	Notes     *string           `json:"notes"`
	Icon      *string           `json:"icon" validate:"omitempty,max=64"`
	Days      json.RawMessage   `json:"days"`
	Schedules []ScheduleRequest `json:"schedules" validate:"omitempty,min=1,max=5,dive"`
}

type ChangeTrackingStateRequest struct {
	State string `json:"state" validate:"required,oneof=running paused archived deleted"`
}
