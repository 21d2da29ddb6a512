package appointment

import "time"

type AvailabilityInput struct {
	BarbershopID uint
	Date         time.Time
}
