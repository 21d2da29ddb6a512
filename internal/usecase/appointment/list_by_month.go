package appointment

import (
	"context"
	"time"

	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/dto"
	"github.com/barberdesk/booking-api/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	barbershopID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barbershopID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return toListDTOs(appointments), nil
}
