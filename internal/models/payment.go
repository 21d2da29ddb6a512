package models

import "time"

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint        `gorm:"index" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"appointment"`

	BarbershopID uint `gorm:"index" json:"barbershop_id"`

	Amount   int64  `json:"amount"` // minor units
	Currency string `gorm:"size:3;default:'usd'" json:"currency"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	ProviderIntentID string `gorm:"size:100;index" json:"provider_intent_id"`
	ProviderRefundID string `gorm:"size:100" json:"provider_refund_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
