package appointment

import (
	"context"

	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute returns the free "HH:MM" grid slots of the day, ascending: the
// fixed grid minus every time held by a non-cancelled appointment.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]string, error) {

	dayStart, dayEnd := domain.DayWindow(in.Date)

	booked, err := uc.repo.ListBookedTimes(
		ctx,
		in.BarbershopID,
		dayStart,
		dayEnd,
	)
	if err != nil {
		return nil, err
	}

	return domain.AvailableSlots(booked), nil
}
