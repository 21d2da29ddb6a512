package appointment

import (
	"context"

	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/models"
)

type ListAppointmentsForClient struct {
	repo domain.Repository
}

func NewListAppointmentsForClient(
	repo domain.Repository,
) *ListAppointmentsForClient {
	return &ListAppointmentsForClient{
		repo: repo,
	}
}

// Execute returns the client's bookings across every shop, newest first,
// with shop and service preloaded for display.
func (uc *ListAppointmentsForClient) Execute(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {
	return uc.repo.ListAppointmentsForClient(ctx, clientID)
}
