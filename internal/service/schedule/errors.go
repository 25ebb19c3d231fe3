package schedule

import "errors"

// Sentinel errors for the schedule service layer.
var (
	ErrTutorNotFound       = errors.New("tutor profile not found")
	ErrInvalidAvailability = errors.New("invalid availability entries")
)
