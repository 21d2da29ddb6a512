package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint       `gorm:"index:idx_appointment_slot" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barbershop"`

	ClientID uint `json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Date is midnight in the barbershop's timezone; Time is the slot start "HH:MM".
	Date time.Time `gorm:"index:idx_appointment_slot;type:date" json:"date"`
	Time string    `gorm:"size:5;index:idx_appointment_slot" json:"time"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
