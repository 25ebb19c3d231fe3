package domain

import (
	"encoding/json"
	"time"
)

// Role distinguishes the two kinds of marketplace accounts.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTutor   Role = "TUTOR"
)

// User is a marketplace account. Every user owns exactly one profile
// matching its role.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TutorProfile holds tutor-specific data. Availability is kept as the raw
// JSON the tutor's record was written with; it is decoded into a
// CanonicalAvailability exactly once, at the schedule store boundary.
type TutorProfile struct {
	ID           string          `json:"id" db:"id"`
	UserID       string          `json:"user_id" db:"user_id"`
	HourlyRate   float64         `json:"hourly_rate" db:"hourly_rate"`
	Subjects     []string        `json:"subjects" db:"subjects"`
	Availability json.RawMessage `json:"availability" db:"availability"`
}

// StudentProfile holds student-specific data.
type StudentProfile struct {
	ID       string   `json:"id" db:"id"`
	UserID   string   `json:"user_id" db:"user_id"`
	Subjects []string `json:"subjects" db:"subjects"`
}
