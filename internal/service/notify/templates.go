package notify

import (
	"fmt"
	"time"

	"github.com/osteele/liquid"
)

// Notification copy lives in Liquid templates so wording changes don't touch
// dispatch logic.
const (
	tmplBookingConfirmed = `Your session with {{ tutor_name }} on {{ start_time }} is confirmed.`
	tmplBookingCancelled = `Your session with {{ tutor_name }} has been cancelled.`
	tmplNewMessage       = `{{ sender_name }} sent you a new message.`
	tmplSessionReminder  = `Your session with {{ other_name }} starts at {{ start_time }}.`
)

// startTimeLayout is the human-readable format used in notification text,
// e.g. "Monday, Jan 5 at 16:00".
const startTimeLayout = "Monday, Jan 2 at 15:04"

// TemplateSet renders notification copy through a shared Liquid engine.
type TemplateSet struct {
	engine *liquid.Engine
}

// NewTemplateSet creates the template renderer.
func NewTemplateSet() *TemplateSet {
	return &TemplateSet{engine: liquid.NewEngine()}
}

func (t *TemplateSet) render(tmpl string, bindings liquid.Bindings) (string, error) {
	out, err := t.engine.ParseAndRenderString(tmpl, bindings)
	if err != nil {
		return "", fmt.Errorf("render notification template: %w", err)
	}
	return out, nil
}

// BookingConfirmed renders the confirmation message for the student.
func (t *TemplateSet) BookingConfirmed(tutorName string, start time.Time) (string, error) {
	return t.render(tmplBookingConfirmed, liquid.Bindings{
		"tutor_name": tutorName,
		"start_time": start.Format(startTimeLayout),
	})
}

// BookingCancelled renders the cancellation message for the student.
func (t *TemplateSet) BookingCancelled(tutorName string) (string, error) {
	return t.render(tmplBookingCancelled, liquid.Bindings{
		"tutor_name": tutorName,
	})
}

// NewMessage renders the new-message notification body.
func (t *TemplateSet) NewMessage(senderName string) (string, error) {
	return t.render(tmplNewMessage, liquid.Bindings{
		"sender_name": senderName,
	})
}

// SessionReminder renders the upcoming-session reminder body.
func (t *TemplateSet) SessionReminder(otherName string, start time.Time) (string, error) {
	return t.render(tmplSessionReminder, liquid.Bindings{
		"other_name": otherName,
		"start_time": start.Format(startTimeLayout),
	})
}
