package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/models"
)

// fakeRepo is an in-memory domain.Repository. BookSlot mirrors the real
// implementation's contract: a taken slot refuses the insert.
type fakeRepo struct {
	shop    *models.Barbershop
	service *models.Service

	nextID        uint
	appointments  map[uint]*models.Appointment
	cancellations []*models.Cancellation

	// bookErr, when set, is returned by BookSlot instead of inserting.
	bookErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		shop: &models.Barbershop{
			ID:       1,
			Name:     "Fade Factory",
			Slug:     "fade-factory",
			Timezone: "UTC",
		},
		service: &models.Service{
			ID:           7,
			BarbershopID: 1,
			Name:         "Haircut",
			DurationMin:  30,
			Price:        35,
			Active:       true,
		},
		appointments: make(map[uint]*models.Appointment),
	}
}

func slotKey(date time.Time, hhmm string) string {
	return date.Format("2006-01-02") + " " + hhmm
}

func (r *fakeRepo) occupied(barbershopID uint, date time.Time, hhmm string) bool {
	for _, ap := range r.appointments {
		if ap.BarbershopID != barbershopID {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if slotKey(ap.Date, ap.Time) == slotKey(date, hhmm) {
			return true
		}
	}
	return false
}

func (r *fakeRepo) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	if r.shop == nil || r.shop.ID != id {
		return nil, errors.New("barbershop not found")
	}
	return r.shop, nil
}

func (r *fakeRepo) GetBarbershopBySlug(_ context.Context, slug string) (*models.Barbershop, error) {
	if r.shop == nil || r.shop.Slug != slug {
		return nil, errors.New("barbershop not found")
	}
	return r.shop, nil
}

func (r *fakeRepo) GetService(_ context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	if r.service == nil || r.service.ID != serviceID || r.service.BarbershopID != barbershopID {
		return nil, errors.New("service not found")
	}
	return r.service, nil
}

func (r *fakeRepo) ListBookedTimes(_ context.Context, barbershopID uint, dayStart, dayEnd time.Time) ([]string, error) {
	var times []string
	for _, ap := range r.appointments {
		if ap.BarbershopID != barbershopID {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.Date.Before(dayStart) || !ap.Date.Before(dayEnd) {
			continue
		}
		times = append(times, ap.Time)
	}
	return times, nil
}

func (r *fakeRepo) IsSlotAvailable(_ context.Context, barbershopID uint, date time.Time, hhmm string) (bool, error) {
	return !r.occupied(barbershopID, date, hhmm), nil
}

func (r *fakeRepo) BookSlot(_ context.Context, ap *models.Appointment) error {
	if r.bookErr != nil {
		return r.bookErr
	}
	if r.occupied(ap.BarbershopID, ap.Date, ap.Time) {
		return errors.New("slot taken")
	}
	r.nextID++
	ap.ID = r.nextID
	r.appointments[ap.ID] = ap
	return nil
}

func (r *fakeRepo) GetAppointmentForClient(_ context.Context, appointmentID, clientID uint) (*models.Appointment, error) {
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.ClientID != clientID {
		return nil, errors.New("appointment not found")
	}
	return ap, nil
}

func (r *fakeRepo) GetAppointmentForShop(_ context.Context, appointmentID, barbershopID uint) (*models.Appointment, error) {
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.BarbershopID != barbershopID {
		return nil, errors.New("appointment not found")
	}
	return ap, nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := r.appointments[ap.ID]; !ok {
		return errors.New("appointment not found")
	}
	r.appointments[ap.ID] = ap
	return nil
}

func (r *fakeRepo) CreateCancellation(_ context.Context, cn *models.Cancellation) error {
	r.cancellations = append(r.cancellations, cn)
	return nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, barbershopID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BarbershopID != barbershopID {
			continue
		}
		if ap.Date.Before(start) || !ap.Date.Before(end) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForClient(_ context.Context, clientID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ClientID == clientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
