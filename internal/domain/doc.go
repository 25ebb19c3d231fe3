// Package domain holds the core types of the TutorLink scheduling platform:
// users, tutor profiles, availability, bookings, notifications, and the
// events that flow between services.
//
// Everything here is a plain value type. The package never imports other
// internal packages and never holds handles to infrastructure (no *sql.DB,
// no http.Request, no context.Context fields). Struct tags and pure
// validation helpers are fine; side effects are not. Services, handlers,
// and repositories all speak in these types.
package domain
