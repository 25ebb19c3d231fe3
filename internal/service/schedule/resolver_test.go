package schedule_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/service/schedule"
)

// 2026-01-05 is a Monday.
var (
	monday  = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
)

func mondaySixteen() domain.CanonicalAvailability {
	return schedule.Normalize(json.RawMessage(
		`{"monday": {"available": true, "slots": ["16:00-17:00"]}}`))
}

func TestResolveMatchingDay(t *testing.T) {
	got := schedule.Resolve(mondaySixteen(), monday, nil)
	if !reflect.DeepEqual(got, []string{"16:00"}) {
		t.Fatalf("expected [16:00], got %v", got)
	}
}

func TestResolveMultiHourEntryIsSingleSlot(t *testing.T) {
	avail := schedule.Normalize(json.RawMessage(
		`[{"dayOfWeek": 1, "startTime": "16:00", "endTime": "18:00"}]`))
	got := schedule.Resolve(avail, monday, nil)
	if !reflect.DeepEqual(got, []string{"16:00"}) {
		t.Fatalf("expected a long entry to stay one slot, got %v", got)
	}
}

func TestResolveNonMatchingDayIsEmptyNotError(t *testing.T) {
	got := schedule.Resolve(mondaySixteen(), tuesday, nil)
	if len(got) != 0 {
		t.Fatalf("expected no slots on tuesday, got %v", got)
	}
}

func TestResolveExcludesBookedSlots(t *testing.T) {
	avail := schedule.Normalize(json.RawMessage(`[
		{"dayOfWeek": 1, "startTime": "09:00", "endTime": "10:00"},
		{"dayOfWeek": 1, "startTime": "10:00", "endTime": "11:00"},
		{"dayOfWeek": 1, "startTime": "11:00", "endTime": "12:00"}
	]`))

	tenAM := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	bookings := []domain.Booking{
		{StartTime: tenAM, EndTime: tenAM.Add(domain.SlotDuration), Status: domain.BookingConfirmed},
	}

	got := schedule.Resolve(avail, monday, bookings)
	if !reflect.DeepEqual(got, []string{"09:00", "11:00"}) {
		t.Fatalf("expected booked 10:00 excluded, got %v", got)
	}
}

func TestResolveCancelledBookingFreesSlot(t *testing.T) {
	tenAM := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	avail := schedule.Normalize(json.RawMessage(
		`[{"dayOfWeek": 1, "startTime": "10:00", "endTime": "11:00"}]`))
	bookings := []domain.Booking{
		{StartTime: tenAM, EndTime: tenAM.Add(domain.SlotDuration), Status: domain.BookingCancelled},
	}

	got := schedule.Resolve(avail, monday, bookings)
	if !reflect.DeepEqual(got, []string{"10:00"}) {
		t.Fatalf("cancelled booking should not block the slot, got %v", got)
	}
}

func TestResolvePartialOverlapExcludes(t *testing.T) {
	// A booking at 09:30 overlaps both the 09:00 and the 10:00 slot windows.
	halfPast := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	avail := schedule.Normalize(json.RawMessage(`[
		{"dayOfWeek": 1, "startTime": "09:00", "endTime": "10:00"},
		{"dayOfWeek": 1, "startTime": "10:00", "endTime": "11:00"},
		{"dayOfWeek": 1, "startTime": "11:00", "endTime": "12:00"}
	]`))
	bookings := []domain.Booking{
		{StartTime: halfPast, EndTime: halfPast.Add(domain.SlotDuration), Status: domain.BookingPending},
	}

	got := schedule.Resolve(avail, monday, bookings)
	if !reflect.DeepEqual(got, []string{"11:00"}) {
		t.Fatalf("expected both overlapped slots excluded, got %v", got)
	}
}

func TestResolveDeduplicatesCoincidingEntries(t *testing.T) {
	avail := schedule.Normalize(json.RawMessage(`[
		{"dayOfWeek": 1, "startTime": "16:00", "endTime": "17:00"},
		{"dayOfWeek": 1, "startTime": "16:00", "endTime": "17:00"}
	]`))

	got := schedule.Resolve(avail, monday, nil)
	if !reflect.DeepEqual(got, []string{"16:00"}) {
		t.Fatalf("expected deduplicated [16:00], got %v", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	avail := schedule.Normalize(json.RawMessage(`[
		{"dayOfWeek": 1, "startTime": "09:00", "endTime": "10:00"},
		{"dayOfWeek": 1, "startTime": "16:00", "endTime": "17:00"}
	]`))

	first := schedule.Resolve(avail, monday, nil)
	second := schedule.Resolve(avail, monday, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolve not idempotent: %v vs %v", first, second)
	}
}
