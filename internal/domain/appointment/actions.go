package appointment

import (
	"time"

	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/models"
)

// MinCancelLead is the client-side cancellation gate: less than one hour
// before the slot start, cancellation is refused.
const MinCancelLead = time.Hour

// ===============================
// Domain Actions
// ===============================

// Cancel transitions the appointment to cancelled. enforceLead applies the
// one-hour rule (client cancellations); staff cancellations skip it.
func Cancel(ap *models.Appointment, startAt, now time.Time, enforceLead bool) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	if enforceLead && now.After(startAt.Add(-MinCancelLead)) {
		return httperr.ErrBusiness("too_late_to_cancel")
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}
