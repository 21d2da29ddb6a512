package handlers

import (
	"time"

	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/timezone"
)

func locationFromShop(shop *models.Barbershop) *time.Location {
	return timezone.Location(shop.Timezone)
}

func parseDateInShop(shop *models.Barbershop, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromShop(shop),
	)
}
