package appointment

import "time"

// The booking day is a fixed half-hour grid from 09:00 to 18:30 inclusive,
// 20 slots, regardless of the barbershop's opening hours or the service's
// duration. Times are "HH:MM" strings at slot granularity.

const (
	gridStartHour = 9
	gridEndHour   = 18
	gridEndMin    = 30

	SlotStep = 30 * time.Minute
)

// Grid returns every bookable slot start of a day, ascending.
func Grid() []string {
	start := time.Date(0, 1, 1, gridStartHour, 0, 0, 0, time.UTC)
	end := time.Date(0, 1, 1, gridEndHour, gridEndMin, 0, 0, time.UTC)

	var slots []string
	for cur := start; !cur.After(end); cur = cur.Add(SlotStep) {
		slots = append(slots, cur.Format("15:04"))
	}
	return slots
}

// OnGrid reports whether hhmm is one of the bookable slot starts.
func OnGrid(hhmm string) bool {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return false
	}
	if t.Minute() != 0 && t.Minute() != 30 {
		return false
	}
	if t.Hour() < gridStartHour || t.Hour() > gridEndHour {
		return false
	}
	return true
}

// AvailableSlots is the grid minus the booked times, ascending. Booked times
// that are off-grid are ignored.
func AvailableSlots(booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	var free []string
	for _, slot := range Grid() {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}

// StartAt combines an appointment's date with its "HH:MM" slot into the
// concrete start instant, in date's location.
func StartAt(date time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return date
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	)
}

// StartOnDay rebuilds a stored appointment's start instant. DATE columns scan
// back as midnight UTC, so the calendar day must be re-anchored in the shop's
// location before the slot time is applied; converting the scanned value with
// In() would shift it onto the previous day for negative-offset zones.
func StartOnDay(date time.Time, hhmm string, loc *time.Location) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return StartAt(day, hhmm)
}

// DayWindow is the 00:00 (inclusive) to next-midnight (exclusive) range the
// availability query scans.
func DayWindow(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24 * time.Hour)
}
