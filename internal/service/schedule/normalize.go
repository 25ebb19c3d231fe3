package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tutorlink/platform/internal/domain"
)

// dayIndex maps lowercase day names to Sunday-first weekday indexes,
// matching time.Weekday.
var dayIndex = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// weeklyDay is one day's value in the weekly-object legacy shape.
type weeklyDay struct {
	Available bool              `json:"available"`
	Slots     []json.RawMessage `json:"slots"`
}

// slotObject is the object variant of a weekly slot. Both start/end and
// startTime/endTime key spellings occur in stored records.
type slotObject struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Normalize decodes a tutor's raw availability into the canonical weekly
// schedule. Malformed slot entries are skipped, not fatal; a record that
// yields nothing at all degrades to DefaultAvailability so callers always
// have a schedule to offer.
func Normalize(raw json.RawMessage) domain.CanonicalAvailability {
	entries := decodeArrayForm(raw)
	if entries == nil {
		entries = decodeWeeklyForm(raw)
	}

	entries = validEntries(entries)
	if len(entries) == 0 {
		return DefaultAvailability()
	}

	sortEntries(entries)
	return domain.CanonicalAvailability{Entries: entries, Source: domain.AvailabilityTutor}
}

// DefaultAvailability is the fixed fallback schedule used when a tutor record
// holds no usable availability: weekdays 09:00–17:00, Saturday 10:00–15:00.
// Its Source marks it as substituted so tests and callers can tell it apart
// from genuine tutor-set data.
func DefaultAvailability() domain.CanonicalAvailability {
	entries := make([]domain.AvailabilityEntry, 0, 6)
	for day := 1; day <= 5; day++ {
		entries = append(entries, domain.AvailabilityEntry{DayOfWeek: day, StartTime: "09:00", EndTime: "17:00"})
	}
	entries = append(entries, domain.AvailabilityEntry{DayOfWeek: 6, StartTime: "10:00", EndTime: "15:00"})
	return domain.CanonicalAvailability{Entries: entries, Source: domain.AvailabilityDefault}
}

// decodeArrayForm returns nil unless raw is the flat-array legacy shape.
func decodeArrayForm(raw json.RawMessage) []domain.AvailabilityEntry {
	var entries []domain.AvailabilityEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// decodeWeeklyForm returns nil unless raw is the per-day-name legacy shape.
// Days with available=false are ignored entirely.
func decodeWeeklyForm(raw json.RawMessage) []domain.AvailabilityEntry {
	var week map[string]weeklyDay
	if err := json.Unmarshal(raw, &week); err != nil {
		return nil
	}

	var entries []domain.AvailabilityEntry
	for name, day := range week {
		idx, ok := dayIndex[strings.ToLower(name)]
		if !ok || !day.Available {
			continue
		}
		for _, slot := range day.Slots {
			start, end, err := decodeSlot(slot)
			if err != nil {
				continue // skip malformed slot, keep the rest
			}
			entries = append(entries, domain.AvailabilityEntry{
				DayOfWeek: idx,
				StartTime: start,
				EndTime:   end,
			})
		}
	}
	return entries
}

// decodeSlot handles both weekly slot encodings: "HH:MM-HH:MM" strings and
// {start,end} / {startTime,endTime} objects.
func decodeSlot(raw json.RawMessage) (start, end string, err error) {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		parts := strings.SplitN(s, "-", 2)
		if len(parts) != 2 {
			return "", "", fmt.Errorf("slot %q: expected HH:MM-HH:MM", s)
		}
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
	}

	var obj slotObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", "", err
	}
	start, end = obj.Start, obj.End
	if start == "" {
		start = obj.StartTime
	}
	if end == "" {
		end = obj.EndTime
	}
	if start == "" || end == "" {
		return "", "", fmt.Errorf("slot object missing start/end")
	}
	return start, end, nil
}

// validEntries drops entries with out-of-range days or unparsable times.
func validEntries(entries []domain.AvailabilityEntry) []domain.AvailabilityEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
			continue
		}
		if _, err := ParseClock(e.StartTime); err != nil {
			continue
		}
		if _, err := ParseClock(e.EndTime); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out
}

func sortEntries(entries []domain.AvailabilityEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DayOfWeek != entries[j].DayOfWeek {
			return entries[i].DayOfWeek < entries[j].DayOfWeek
		}
		return entries[i].StartTime < entries[j].StartTime
	})
}

// ParseClock parses a wall-clock "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
