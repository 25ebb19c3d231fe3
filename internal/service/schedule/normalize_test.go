package schedule_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/service/schedule"
)

func TestNormalizeArrayForm(t *testing.T) {
	raw := json.RawMessage(`[
		{"dayOfWeek": 3, "startTime": "10:00", "endTime": "11:00"},
		{"dayOfWeek": 1, "startTime": "16:00", "endTime": "17:00"},
		{"dayOfWeek": 1, "startTime": "09:00", "endTime": "10:00"}
	]`)

	got := schedule.Normalize(raw)
	if got.Source != domain.AvailabilityTutor {
		t.Fatalf("expected tutor source, got %s", got.Source)
	}
	want := []domain.AvailabilityEntry{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 1, StartTime: "16:00", EndTime: "17:00"},
		{DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00"},
	}
	if !reflect.DeepEqual(got.Entries, want) {
		t.Fatalf("entries mismatch:\n got %+v\nwant %+v", got.Entries, want)
	}
}

func TestNormalizeWeeklyForm(t *testing.T) {
	raw := json.RawMessage(`{
		"monday":  {"available": true,  "slots": ["16:00-17:00"]},
		"tuesday": {"available": false, "slots": ["09:00-10:00"]},
		"friday":  {"available": true,  "slots": [{"start": "13:00", "end": "14:00"}]},
		"sunday":  {"available": true,  "slots": [{"startTime": "08:00", "endTime": "09:00"}]}
	}`)

	got := schedule.Normalize(raw)
	if got.Source != domain.AvailabilityTutor {
		t.Fatalf("expected tutor source, got %s", got.Source)
	}
	want := []domain.AvailabilityEntry{
		{DayOfWeek: 0, StartTime: "08:00", EndTime: "09:00"},
		{DayOfWeek: 1, StartTime: "16:00", EndTime: "17:00"},
		{DayOfWeek: 5, StartTime: "13:00", EndTime: "14:00"},
	}
	if !reflect.DeepEqual(got.Entries, want) {
		t.Fatalf("entries mismatch:\n got %+v\nwant %+v", got.Entries, want)
	}
}

// Both legacy shapes describing the same schedule must normalize to equal
// canonical sequences.
func TestNormalizeRepresentationIndependence(t *testing.T) {
	array := json.RawMessage(`[
		{"dayOfWeek": 1, "startTime": "16:00", "endTime": "17:00"},
		{"dayOfWeek": 6, "startTime": "10:00", "endTime": "11:00"}
	]`)
	weekly := json.RawMessage(`{
		"saturday": {"available": true, "slots": ["10:00-11:00"]},
		"monday":   {"available": true, "slots": [{"start": "16:00", "end": "17:00"}]}
	}`)

	a := schedule.Normalize(array)
	b := schedule.Normalize(weekly)
	if !reflect.DeepEqual(a.Entries, b.Entries) {
		t.Fatalf("representations diverged:\narray  %+v\nweekly %+v", a.Entries, b.Entries)
	}
}

func TestNormalizeSkipsMalformedSlots(t *testing.T) {
	raw := json.RawMessage(`{
		"monday": {"available": true, "slots": ["16:00-17:00", "garbage", "25:99-26:00", {"start": ""}]}
	}`)

	got := schedule.Normalize(raw)
	want := []domain.AvailabilityEntry{{DayOfWeek: 1, StartTime: "16:00", EndTime: "17:00"}}
	if !reflect.DeepEqual(got.Entries, want) {
		t.Fatalf("expected only the valid slot, got %+v", got.Entries)
	}
}

func TestNormalizeFallsBackToDefault(t *testing.T) {
	cases := map[string]json.RawMessage{
		"empty raw":     json.RawMessage(``),
		"null":          json.RawMessage(`null`),
		"empty array":   json.RawMessage(`[]`),
		"empty object":  json.RawMessage(`{}`),
		"all malformed": json.RawMessage(`{"monday": {"available": true, "slots": ["nope"]}}`),
	}

	for name, raw := range cases {
		got := schedule.Normalize(raw)
		if !got.IsDefault() {
			t.Errorf("%s: expected default schedule, got source %s", name, got.Source)
		}
		if !reflect.DeepEqual(got, schedule.DefaultAvailability()) {
			t.Errorf("%s: expected the fixed default schedule", name)
		}
	}
}

func TestDefaultAvailabilityShape(t *testing.T) {
	def := schedule.DefaultAvailability()
	if len(def.Entries) != 6 {
		t.Fatalf("expected 6 entries (Mon-Sat), got %d", len(def.Entries))
	}
	for _, e := range def.Entries[:5] {
		if e.StartTime != "09:00" || e.EndTime != "17:00" {
			t.Fatalf("weekday entry %+v should be 09:00-17:00", e)
		}
	}
	sat := def.Entries[5]
	if sat.DayOfWeek != 6 || sat.StartTime != "10:00" || sat.EndTime != "15:00" {
		t.Fatalf("saturday entry %+v should be 10:00-15:00", sat)
	}
}
