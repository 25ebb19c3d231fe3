// Package notify turns booking domain events into their observable effects.
//
// For every booking transition the dispatcher synthesizes exactly one
// Notification for the counterparty user and persists it before any
// realtime push is attempted: the stored row is the durable record, the
// push is a convenience. Email delivery, when configured, is best-effort
// after both.
package notify
