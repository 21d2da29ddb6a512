package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint `gorm:"index" json:"barbershop_id"`
	ClientID     uint `json:"client_id"`
	Client       User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Rating  int    `json:"rating"`
	Comment string `gorm:"size:500" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
