package appointment

import (
	"context"
	"time"

	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/dto"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	barbershopID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	start, end := domain.DayWindow(date.In(loc))

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

func toListDTOs(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			Date:        ap.Date,
			Time:        ap.Time,
			Status:      ap.Status,
			Reference:   ap.Reference,
			ClientName:  ap.Client.Name,
			ServiceName: ap.Service.Name,
		})
	}
	return out
}
