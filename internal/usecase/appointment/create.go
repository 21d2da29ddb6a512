package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/barberdesk/booking-api/internal/audit"
	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uint
	ClientID     uint
	ServiceID    uint

	Date  string // YYYY-MM-DD
	Time  string // HH:MM, must be a grid slot
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if !domain.OnGrid(in.Time) {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	start := domain.StartAt(date, in.Time)
	now := timezone.NowIn(shop.Timezone)
	if start.Before(now) {
		return nil, httperr.ErrBusiness("slot_in_past")
	}

	service, err := uc.repo.GetService(ctx, in.BarbershopID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	// Pre-check, same query the availability listing runs. The slot can
	// still be taken between here and the insert; BookSlot settles that.
	free, err := uc.repo.IsSlotAvailable(ctx, in.BarbershopID, date, in.Time)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, httperr.ErrBusiness("slot_taken")
	}

	ap := &models.Appointment{
		BarbershopID: in.BarbershopID,
		ClientID:     in.ClientID,
		ServiceID:    service.ID,
		Date:         date,
		Time:         in.Time,
		Status:       string(domain.InitialStatus()),
		Reference:    uuid.NewString(),
		Notes:        in.Notes,
	}

	if err := uc.repo.BookSlot(ctx, ap); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness("slot_taken")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		ActorID:      &in.ClientID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"date": in.Date,
			"time": in.Time,
		},
	})

	return ap, nil
}
