// Package booking implements the booking lifecycle state machine.
//
// This service is the sole authority over a booking's status. Two
// independent triggers drive transitions: a tutor acting through the API
// and the payment provider's webhook. Both funnel through Transition,
// which delegates the pending→{confirmed,cancelled} step to a single
// conditional update in the repository so that exactly one of two racing
// transitions can win.
//
// Repository implementations live in repository/postgres/.
package booking
