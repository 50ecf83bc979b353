package models

import (
	"time"

	"gorm.io/datatypes"
)

// TrackingModel is the persistence model for trackings. Days holds the
// recurrence pattern as a JSON document; NULL marks a one-shot. A Deleted
// row is kept as a tombstone and filtered out of reads.
type TrackingModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;index:idx_trackings_user_state"`
	Question  string `gorm:"not null;size:100"`
	Notes     string `gorm:"type:text"`
	Icon      string `gorm:"size:64"`
	Days      datatypes.JSON
	State     string `gorm:"not null;size:20;default:running;index:idx_trackings_user_state"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Schedules []TrackingScheduleModel `gorm:"foreignKey:TrackingID;constraint:OnDelete:CASCADE"`
}

func (TrackingModel) TableName() string {
	return "trackings"
}

// TrackingScheduleModel is one time-of-day slot of a tracking. A tracking
// carries between one and five of these.
type TrackingScheduleModel struct {
	ID         uint `gorm:"primarykey"`
	TrackingID uint `gorm:"not null;index:idx_tracking_schedules_tracking_id"`
	Hour       int  `gorm:"not null"`
	Minute     int  `gorm:"not null"`
}

func (TrackingScheduleModel) TableName() string {
	return "tracking_schedules"
}
