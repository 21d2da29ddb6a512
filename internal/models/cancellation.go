package models

import "time"

type Cancellation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint   `gorm:"index" json:"appointment_id"`
	CancelledBy   uint   `json:"cancelled_by"`
	Reason        string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
