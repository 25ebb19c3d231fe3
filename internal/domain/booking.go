package domain

import "time"

// SlotDuration is the fixed length of every bookable session. Every booking
// satisfies EndTime == StartTime + SlotDuration.
const SlotDuration = 60 * time.Minute

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a student's reservation of one tutor slot. Its lifecycle is
// governed exclusively by the booking service; nothing else writes Status.
type Booking struct {
	ID        string        `json:"id" db:"id"`
	StudentID string        `json:"student_id" db:"student_id"`
	TutorID   string        `json:"tutor_id" db:"tutor_id"`
	Subject   string        `json:"subject" db:"subject"`
	StartTime time.Time     `json:"start_time" db:"start_time"`
	EndTime   time.Time     `json:"end_time" db:"end_time"`
	Status    BookingStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// IsTerminal returns true if the booking is in a final state.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}

// Overlaps reports whether the booking's [StartTime, EndTime) interval
// intersects [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}
