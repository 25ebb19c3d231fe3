// Package schedule turns tutor availability data into bookable time slots.
//
// Tutor records hold availability in one of two legacy shapes: a flat array
// of weekly entries, or a per-day-name object whose slots are either
// "HH:MM-HH:MM" strings or {start,end} pairs. Normalize decodes whichever
// shape it finds into the single canonical representation exactly once; no
// downstream code ever pattern-matches the raw JSON again.
//
// Resolve then intersects the canonical weekly schedule with a concrete
// calendar date and the tutor's existing bookings to produce the start
// times a student may actually book.
package schedule
