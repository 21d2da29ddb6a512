package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ? AND active = true", serviceID, barbershopID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBookedTimes(
	ctx context.Context,
	barbershopID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"barbershop_id = ? AND status <> 'cancelled' AND date >= ? AND date < ?",
			barbershopID, dayStart, dayEnd,
		).
		Order("time ASC").
		Pluck("time", &times).Error; err != nil {
		return nil, err
	}

	return times, nil
}

func (r *AppointmentGormRepository) IsSlotAvailable(
	ctx context.Context,
	barbershopID uint,
	date time.Time,
	hhmm string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"barbershop_id = ? AND date = ? AND time = ? AND status <> 'cancelled'",
			barbershopID, date, hhmm,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count == 0, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

// BookSlot locks any non-cancelled row for the slot, then inserts. The
// partial unique index on (barbershop_id, date, time) catches whatever slips
// past the lock; callers map that 23505 to a slot conflict.
func (r *AppointmentGormRepository) BookSlot(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"barbershop_id = ? AND date = ? AND time = ? AND status <> 'cancelled'",
				ap.BarbershopID, ap.Date, ap.Time,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness("slot_taken")
		}

		return tx.Create(ap).Error
	})
}

// --------------------------------------------------
// State changes
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForClient(
	ctx context.Context,
	appointmentID uint,
	clientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ?", appointmentID, clientID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForShop(
	ctx context.Context,
	appointmentID uint,
	barbershopID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", appointmentID, barbershopID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) CreateCancellation(
	ctx context.Context,
	cn *models.Cancellation,
) error {
	return r.db.WithContext(ctx).Create(cn).Error
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barbershopID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"barbershop_id = ? AND date >= ? AND date < ?",
			barbershopID,
			start,
			end,
		).
		Order("date ASC, time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Barbershop").
		Preload("Service").
		Where("client_id = ?", clientID).
		Order("date DESC, time DESC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
