package schedule

import (
	"sort"
	"time"

	"github.com/tutorlink/platform/internal/domain"
)

// Resolve converts a canonical weekly schedule plus a concrete calendar date
// into the list of bookable "HH:MM" start times, ascending and deduplicated.
//
// Each canonical entry is already a 60-minute interval defined by its source
// data; the resolver emits entry start times rather than subdividing ranges.
// A start time is excluded when its [start, start+60m) interval overlaps any
// non-cancelled booking for the tutor on that date. A date whose weekday has
// no entries yields an empty list; that means "fully unavailable", never an
// error.
func Resolve(c domain.CanonicalAvailability, date time.Time, bookings []domain.Booking) []string {
	weekday := int(date.Weekday())

	seen := make(map[string]bool)
	slots := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		if e.DayOfWeek != weekday || seen[e.StartTime] {
			continue
		}
		start, err := slotStart(date, e.StartTime)
		if err != nil {
			continue
		}
		if taken(start, bookings) {
			continue
		}
		seen[e.StartTime] = true
		slots = append(slots, e.StartTime)
	}

	sort.Strings(slots)
	return slots
}

// slotStart anchors a wall-clock "HH:MM" onto the given date, in the date's
// location.
func slotStart(date time.Time, clock string) (time.Time, error) {
	mins, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := date.Date()
	return time.Date(year, month, day, mins/60, mins%60, 0, 0, date.Location()), nil
}

// taken reports whether the 60-minute interval at start collides with an
// existing booking that still holds the slot.
func taken(start time.Time, bookings []domain.Booking) bool {
	end := start.Add(domain.SlotDuration)
	for i := range bookings {
		if bookings[i].Status == domain.BookingCancelled {
			continue
		}
		if bookings[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}
