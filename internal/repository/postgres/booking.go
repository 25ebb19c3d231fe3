package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/lib/pq"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/service/booking"
)

// BookingRepo implements booking.Repository against PostgreSQL.
type BookingRepo struct{ db *sql.DB }

// NewBookingRepo creates a Postgres-backed booking repository.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, student_id, tutor_id, subject, start_time, end_time, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID, &b.StudentID, &b.TutorID, &b.Subject,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookingRepo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get booking", err)
	}
	return b, nil
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (id, student_id, tutor_id, subject, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, b.ID, b.StudentID, b.TutorID, b.Subject, b.StartTime, b.EndTime, b.Status, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return wrapErr("create booking", err)
	}
	return nil
}

// TransitionStatus is the arbiter between racing transitions: the
// conditional UPDATE matches the row only while it is still in `from`, so
// of two concurrent callers exactly one sees a row and the other gets
// ErrInvalidTransition.
func (r *BookingRepo) TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+bookingColumns+`
	`, id, from, to))
	if err == sql.ErrNoRows {
		// Zero rows means either the id is unknown or the status already
		// moved on. Disambiguate so callers can map to 404 vs 400.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return nil, wrapErr("check booking", err)
		}
		if !exists {
			return nil, booking.ErrNotFound
		}
		return nil, booking.ErrInvalidTransition
	}
	if err != nil {
		return nil, wrapErr("transition booking", err)
	}
	return b, nil
}

func (r *BookingRepo) ListForUser(ctx context.Context, userID string, role domain.Role) ([]domain.Booking, error) {
	col := "student_id"
	if role == domain.RoleTutor {
		col = "tutor_id"
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE `+col+` = $1
		ORDER BY start_time DESC
	`, userID)
	if err != nil {
		return nil, wrapErr("list bookings", err)
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

// ListUpcomingConfirmed returns confirmed bookings starting within
// [from, to) that have not had a reminder sent yet.
func (r *BookingRepo) ListUpcomingConfirmed(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE status = $1 AND reminder_sent = FALSE
		  AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`, domain.BookingConfirmed, from, to)
	if err != nil {
		return nil, wrapErr("list upcoming bookings", err)
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

// MarkReminderSent records that a reminder went out so a later worker pass
// does not send it again.
func (r *BookingRepo) MarkReminderSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return wrapErr("mark reminder sent", err)
	}
	return nil
}

// wrapErr annotates a storage error and surfaces timeouts and connection
// failures as the booking service's transient sentinel so the API maps them
// to 503 instead of 500.
func wrapErr(op string, err error) error {
	if isTransient(err) {
		return fmt.Errorf("%s: %v: %w", op, err, booking.ErrTransient)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57": // connection, resources, operator intervention
			return true
		}
	}
	return false
}
