package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberdesk/booking-api/internal/audit"
	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
)

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("EmptyDayShowsFullGrid", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewGetAvailability(repo)

		slots, err := uc.Execute(ctx, domain.AvailabilityInput{BarbershopID: 1, Date: day})
		require.NoError(t, err)
		assert.Equal(t, domain.Grid(), slots)
	})

	t.Run("BookingRemovesItsSlot", func(t *testing.T) {
		repo := newFakeRepo()
		createUC := NewCreateAppointment(repo, audit.Nop())
		uc := NewGetAvailability(repo)

		_, err := createUC.Execute(ctx, validInput())
		require.NoError(t, err)

		slots, err := uc.Execute(ctx, domain.AvailabilityInput{BarbershopID: 1, Date: day})
		require.NoError(t, err)

		assert.Len(t, slots, 19)
		assert.NotContains(t, slots, "14:00")
	})

	t.Run("CancellationFreesTheSlot", func(t *testing.T) {
		repo := newFakeRepo()
		createUC := NewCreateAppointment(repo, audit.Nop())
		cancelUC := NewCancelAppointment(repo, audit.Nop())
		uc := NewGetAvailability(repo)

		ap, err := createUC.Execute(ctx, validInput())
		require.NoError(t, err)

		_, err = cancelUC.Execute(ctx, CancelAppointmentInput{
			AppointmentID: ap.ID,
			ActorID:       42,
			AsClient:      true,
		})
		require.NoError(t, err)

		slots, err := uc.Execute(ctx, domain.AvailabilityInput{BarbershopID: 1, Date: day})
		require.NoError(t, err)
		assert.Contains(t, slots, "14:00")
		assert.Equal(t, domain.Grid(), slots)
	})

	t.Run("OtherDaysDoNotLeak", func(t *testing.T) {
		repo := newFakeRepo()
		createUC := NewCreateAppointment(repo, audit.Nop())
		uc := NewGetAvailability(repo)

		_, err := createUC.Execute(ctx, validInput())
		require.NoError(t, err)

		nextDay := day.AddDate(0, 0, 1)
		slots, err := uc.Execute(ctx, domain.AvailabilityInput{BarbershopID: 1, Date: nextDay})
		require.NoError(t, err)
		assert.Equal(t, domain.Grid(), slots)
	})
}
