package dto

import "time"

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	ClientName  string    `json:"client_name"`
	ServiceName string    `json:"service_name"`
}
