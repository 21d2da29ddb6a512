package appointment

import (
	"context"

	"github.com/barberdesk/booking-api/internal/audit"
	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/timezone"
)

type CancelAppointmentInput struct {
	AppointmentID uint
	ActorID       uint
	Reason        string

	// Clients must cancel at least MinCancelLead before the slot starts;
	// barbershop staff may cancel at any time.
	AsClient bool

	// Scope of the lookup: the actor's own bookings, or the shop's.
	BarbershopID uint
}

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	var ap *models.Appointment
	var err error
	if in.AsClient {
		ap, err = uc.repo.GetAppointmentForClient(ctx, in.AppointmentID, in.ActorID)
	} else {
		ap, err = uc.repo.GetAppointmentForShop(ctx, in.AppointmentID, in.BarbershopID)
	}
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, ap.BarbershopID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(shop.Timezone)
	start := domain.StartOnDay(ap.Date, ap.Time, timezone.Location(shop.Timezone))

	if err := domain.Cancel(ap, start, now, in.AsClient); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	cn := &models.Cancellation{
		AppointmentID: ap.ID,
		CancelledBy:   in.ActorID,
		Reason:        in.Reason,
	}
	if err := uc.repo.CreateCancellation(ctx, cn); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		ActorID:      &in.ActorID,
		Action:       "appointment_cancelled",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
