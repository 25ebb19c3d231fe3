package domain

// AvailabilityEntry is one weekly recurring slot in a tutor's schedule.
// DayOfWeek is Sunday-first (0 = Sunday .. 6 = Saturday), matching
// time.Weekday. Times are wall-clock "HH:MM" strings.
type AvailabilityEntry struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AvailabilitySource records where a canonical schedule came from.
type AvailabilitySource string

const (
	// AvailabilityTutor means the schedule was decoded from data the tutor set.
	AvailabilityTutor AvailabilitySource = "tutor"
	// AvailabilityDefault means the tutor's record was missing or entirely
	// malformed and the fixed fallback schedule was substituted.
	AvailabilityDefault AvailabilitySource = "default"
)

// CanonicalAvailability is the single normalized weekly-slot representation
// every resolver consumes. Entries are sorted by (DayOfWeek, StartTime).
type CanonicalAvailability struct {
	Entries []AvailabilityEntry `json:"entries"`
	Source  AvailabilitySource  `json:"source"`
}

// IsDefault reports whether this schedule is the substituted fallback rather
// than genuine tutor-set availability.
func (c CanonicalAvailability) IsDefault() bool {
	return c.Source == AvailabilityDefault
}
