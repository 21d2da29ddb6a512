package appointment

import (
	"context"

	"github.com/barberdesk/booking-api/internal/audit"
	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/timezone"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForShop(ctx, appointmentID, barbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(shop.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      &actorID,
		Action:       "appointment_completed",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
