package appointment

import (
	"context"
	"time"

	"github.com/barberdesk/booking-api/internal/models"
)

type Repository interface {
	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarbershopBySlug(
		ctx context.Context,
		slug string,
	) (*models.Barbershop, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Availability --------
	ListBookedTimes(
		ctx context.Context,
		barbershopID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]string, error)

	IsSlotAvailable(
		ctx context.Context,
		barbershopID uint,
		date time.Time,
		hhmm string,
	) (bool, error)

	// -------- Booking --------
	// BookSlot re-checks the slot under a row lock and inserts in one
	// transaction. A taken slot surfaces as ErrBusiness("slot_taken").
	BookSlot(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- State changes --------
	GetAppointmentForClient(
		ctx context.Context,
		appointmentID uint,
		clientID uint,
	) (*models.Appointment, error)

	GetAppointmentForShop(
		ctx context.Context,
		appointmentID uint,
		barbershopID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	CreateCancellation(
		ctx context.Context,
		cn *models.Cancellation,
	) error

	// -------- Listings --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		barbershopID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)
}
