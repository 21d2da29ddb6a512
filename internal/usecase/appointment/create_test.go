package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberdesk/booking-api/internal/audit"
	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/httperr"
)

func validInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		BarbershopID: 1,
		ClientID:     42,
		ServiceID:    7,
		Date:         "2030-06-10",
		Time:         "14:00",
	}
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("BooksFreeSlot", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewCreateAppointment(repo, audit.Nop())

		ap, err := uc.Execute(ctx, validInput())
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
		assert.Equal(t, "14:00", ap.Time)
		assert.Equal(t, uint(42), ap.ClientID)
		assert.NotEmpty(t, ap.Reference)
		assert.NotZero(t, ap.ID)
	})

	t.Run("SecondBookingOfSameSlotLoses", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewCreateAppointment(repo, audit.Nop())

		first, err := uc.Execute(ctx, validInput())
		require.NoError(t, err)

		in := validInput()
		in.ClientID = 43
		_, err = uc.Execute(ctx, in)
		assert.True(t, httperr.IsBusiness(err, "slot_taken"))

		// The winner keeps the slot.
		assert.Equal(t, string(domain.StatusConfirmed), repo.appointments[first.ID].Status)
		assert.Len(t, repo.appointments, 1)
	})

	t.Run("UniqueIndexRaceMapsToSlotTaken", func(t *testing.T) {
		// The pre-check passes but the insert collides with a concurrent
		// booking; the driver error must surface as the same 409 code.
		repo := newFakeRepo()
		repo.bookErr = &pgconn.PgError{Code: "23505"}
		uc := NewCreateAppointment(repo, audit.Nop())

		_, err := uc.Execute(ctx, validInput())
		assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	})

	t.Run("CancelledSlotCanBeRebooked", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewCreateAppointment(repo, audit.Nop())

		first, err := uc.Execute(ctx, validInput())
		require.NoError(t, err)

		first.Status = string(domain.StatusCancelled)

		in := validInput()
		in.ClientID = 43
		second, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("OffGridTime", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewCreateAppointment(repo, audit.Nop())

		for _, bad := range []string{"14:15", "08:30", "19:00", "garbage"} {
			in := validInput()
			in.Time = bad
			_, err := uc.Execute(ctx, in)
			assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"), bad)
		}
	})

	t.Run("MalformedDate", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewCreateAppointment(repo, audit.Nop())

		in := validInput()
		in.Date = "10/06/2030"
		_, err := uc.Execute(ctx, in)
		assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
	})

	t.Run("PastSlot", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewCreateAppointment(repo, audit.Nop())

		in := validInput()
		in.Date = "2020-01-06"
		_, err := uc.Execute(ctx, in)
		assert.True(t, httperr.IsBusiness(err, "slot_in_past"))
	})

	t.Run("UnknownService", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewCreateAppointment(repo, audit.Nop())

		in := validInput()
		in.ServiceID = 999
		_, err := uc.Execute(ctx, in)
		assert.True(t, httperr.IsBusiness(err, "service_not_found"))
	})
}

func TestCancelAppointmentUseCase(t *testing.T) {
	ctx := context.Background()

	book := func(t *testing.T, repo *fakeRepo) uint {
		t.Helper()
		uc := NewCreateAppointment(repo, audit.Nop())
		ap, err := uc.Execute(ctx, validInput())
		require.NoError(t, err)
		return ap.ID
	}

	t.Run("ClientCancelsAheadOfTime", func(t *testing.T) {
		repo := newFakeRepo()
		id := book(t, repo)
		uc := NewCancelAppointment(repo, audit.Nop())

		ap, err := uc.Execute(ctx, CancelAppointmentInput{
			AppointmentID: id,
			ActorID:       42,
			Reason:        "can't make it",
			AsClient:      true,
		})
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusCancelled), ap.Status)
		require.Len(t, repo.cancellations, 1)
		assert.Equal(t, id, repo.cancellations[0].AppointmentID)
		assert.Equal(t, "can't make it", repo.cancellations[0].Reason)
	})

	t.Run("ClientCancelsInNegativeOffsetShop", func(t *testing.T) {
		repo := newFakeRepo()
		repo.shop.Timezone = "America/New_York"
		id := book(t, repo)

		// Stored dates scan back as midnight UTC, which the lead computation
		// must re-anchor to the shop's calendar day.
		repo.appointments[id].Date = time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)

		uc := NewCancelAppointment(repo, audit.Nop())
		ap, err := uc.Execute(ctx, CancelAppointmentInput{
			AppointmentID: id,
			ActorID:       42,
			AsClient:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCancelled), ap.Status)
	})

	t.Run("ClientTooCloseToStart", func(t *testing.T) {
		repo := newFakeRepo()
		id := book(t, repo)

		// Move the booking into the past so "now" is inside the lead window.
		repo.appointments[id].Date = time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)

		uc := NewCancelAppointment(repo, audit.Nop())
		_, err := uc.Execute(ctx, CancelAppointmentInput{
			AppointmentID: id,
			ActorID:       42,
			AsClient:      true,
		})
		assert.True(t, httperr.IsBusiness(err, "too_late_to_cancel"))
	})

	t.Run("ShopCancelsInsideLeadWindow", func(t *testing.T) {
		repo := newFakeRepo()
		id := book(t, repo)
		repo.appointments[id].Date = time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)

		uc := NewCancelAppointment(repo, audit.Nop())
		ap, err := uc.Execute(ctx, CancelAppointmentInput{
			AppointmentID: id,
			ActorID:       1,
			AsClient:      false,
			BarbershopID:  1,
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCancelled), ap.Status)
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		repo := newFakeRepo()
		id := book(t, repo)
		repo.appointments[id].Status = string(domain.StatusCancelled)

		uc := NewCancelAppointment(repo, audit.Nop())
		_, err := uc.Execute(ctx, CancelAppointmentInput{
			AppointmentID: id,
			ActorID:       42,
			AsClient:      true,
		})
		assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	})

	t.Run("SomeoneElsesBooking", func(t *testing.T) {
		repo := newFakeRepo()
		id := book(t, repo)

		uc := NewCancelAppointment(repo, audit.Nop())
		_, err := uc.Execute(ctx, CancelAppointmentInput{
			AppointmentID: id,
			ActorID:       999,
			AsClient:      true,
		})
		assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	})
}
