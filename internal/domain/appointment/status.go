package appointment

import "github.com/barberdesk/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// A slot is occupied by any appointment that is not cancelled.
func Occupies(s Status) bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusConfirmed
}
