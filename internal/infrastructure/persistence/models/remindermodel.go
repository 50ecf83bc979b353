package models

import "time"

// ReminderModel is the persistence model for reminders. The composite index
// on (status, scheduled_time) serves the due scan; (user_id, status) serves
// the list reads.
type ReminderModel struct {
	ID            uint      `gorm:"primarykey"`
	TrackingID    uint      `gorm:"not null;index:idx_reminders_tracking_status,priority:1"`
	UserID        uint      `gorm:"not null;index:idx_reminders_user_status,priority:1"`
	ScheduledTime time.Time `gorm:"not null;index:idx_reminders_status_time,priority:2"`
	Notes         string    `gorm:"type:text"`
	AnswerValue   *string   `gorm:"size:20"`
	Status        string    `gorm:"not null;size:20;default:upcoming;index:idx_reminders_status_time,priority:1;index:idx_reminders_tracking_status,priority:2;index:idx_reminders_user_status,priority:2"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ReminderModel) TableName() string {
	return "reminders"
}
