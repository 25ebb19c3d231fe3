package booking

import "errors"

// Sentinel errors for the booking service layer.
var (
	// ErrInvalidSlot means the requested time is not currently resolvable:
	// outside the tutor's availability, in the past, or already booked.
	ErrInvalidSlot = errors.New("requested slot is not bookable")

	// ErrInvalidTransition covers every state machine violation, including a
	// transition that lost the race with a concurrent one.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrForbidden means the actor does not own the booking it is acting on.
	ErrForbidden = errors.New("actor does not own this booking")

	// ErrNotFound means the booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrTransient marks a timeout or outage of an underlying dependency.
	// Callers surface it as 502/503 and rely on the caller's retry, never
	// retrying internally.
	ErrTransient = errors.New("transient dependency failure")
)
