package domain

import "time"

// ActorKind identifies which independent trigger drove a booking transition.
type ActorKind string

const (
	ActorTutor          ActorKind = "tutor"
	ActorPaymentWebhook ActorKind = "payment_webhook"
)

// Actor is the party requesting a booking transition. UserID is set only for
// tutor actors; the payment webhook acts on behalf of the provider, not a user.
type Actor struct {
	Kind   ActorKind `json:"kind"`
	UserID string    `json:"user_id,omitempty"`
}

// TutorActor builds an Actor for a tutor acting on their own booking.
func TutorActor(userID string) Actor {
	return Actor{Kind: ActorTutor, UserID: userID}
}

// WebhookActor builds an Actor for the payment provider webhook.
func WebhookActor() Actor {
	return Actor{Kind: ActorPaymentWebhook}
}

// BookingEvent is the ephemeral record of a booking state transition. It is
// never persisted; it exists only to decouple the booking service from the
// notification dispatcher and the realtime hub.
type BookingEvent struct {
	BookingID  string        `json:"booking_id"`
	StudentID  string        `json:"student_id"`
	TutorID    string        `json:"tutor_id"`
	Previous   BookingStatus `json:"previous_status"`
	New        BookingStatus `json:"new_status"`
	Actor      Actor         `json:"actor"`
	StartTime  time.Time     `json:"start_time"`
	OccurredAt time.Time     `json:"occurred_at"`
}
