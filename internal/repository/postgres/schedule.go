package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/service/schedule"
)

// ScheduleRepo implements schedule.Repository against PostgreSQL. Tutor
// profiles are keyed by the tutor's user id, matching the ids carried on
// bookings.
type ScheduleRepo struct{ db *sql.DB }

// NewScheduleRepo creates a Postgres-backed schedule repository.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

func (r *ScheduleRepo) GetTutorProfile(ctx context.Context, tutorID string) (*domain.TutorProfile, error) {
	p := &domain.TutorProfile{}
	var avail []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, hourly_rate, subjects, COALESCE(availability, 'null')
		FROM tutor_profiles
		WHERE user_id = $1
	`, tutorID).Scan(&p.ID, &p.UserID, &p.HourlyRate, pq.Array(&p.Subjects), &avail)
	if err == sql.ErrNoRows {
		return nil, schedule.ErrTutorNotFound
	}
	if err != nil {
		return nil, wrapErr("get tutor profile", err)
	}
	p.Availability = json.RawMessage(avail)
	return p, nil
}

func (r *ScheduleRepo) PutAvailability(ctx context.Context, tutorID string, raw json.RawMessage) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tutor_profiles
		SET availability = $2
		WHERE user_id = $1
	`, tutorID, []byte(raw))
	if err != nil {
		return wrapErr("put availability", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("put availability", err)
	}
	if n == 0 {
		return schedule.ErrTutorNotFound
	}
	return nil
}

func (r *ScheduleRepo) BookingsForTutorOnDate(ctx context.Context, tutorID string, date time.Time) ([]domain.Booking, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE tutor_id = $1 AND status != $2
		  AND start_time >= $3 AND start_time < $4
		ORDER BY start_time
	`, tutorID, domain.BookingCancelled, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, wrapErr("bookings for date", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrapErr("scan booking", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
