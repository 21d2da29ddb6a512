package timezone

import "time"

var defaultTZ = "America/New_York"

// SetDefault overrides the fallback timezone used when a barbershop has none.
func SetDefault(tz string) {
	if IsValid(tz) {
		defaultTZ = tz
	}
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(defaultTZ)
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
