package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/pkg/httputil"
	"github.com/tutorlink/platform/internal/pkg/logger"
)

const maxWebhookBody = 1 << 20 // 1 MB

type paymentWebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		BookingID string `json:"booking_id"`
	} `json:"data"`
}

// PaymentWebhook applies payment provider outcomes to bookings. The
// signature is verified over the raw body before anything is decoded; a bad
// or missing signature mutates nothing.
// POST /api/webhooks/payment
func (h *Handlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httputil.BadRequest(w, "invalid_body", "could not read request body")
		return
	}

	if !h.verifySignature(body, r.Header.Get(h.signatureHeader)) {
		logger.Warn("payment webhook signature rejected", "remote", r.RemoteAddr)
		httputil.BadRequest(w, "signature_invalid", "webhook signature verification failed")
		return
	}

	var ev paymentWebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		httputil.BadRequest(w, "invalid_body", "malformed webhook payload")
		return
	}

	var target domain.BookingStatus
	switch ev.Type {
	case "payment_intent.succeeded":
		target = domain.BookingConfirmed
	case "payment_intent.payment_failed":
		target = domain.BookingCancelled
	default:
		// Unrecognized event types are acknowledged so the provider stops
		// retrying them.
		httputil.OK(w, map[string]string{"status": "ignored"})
		return
	}

	// The realtime hint for the student rides on the booking event: the
	// dispatcher persists the notification first and pushes after, so the
	// live event never precedes the durable record.
	if _, err := h.bookings.Transition(r.Context(), ev.Data.BookingID, domain.WebhookActor(), target); err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.OK(w, map[string]string{"status": "processed"})
}

func (h *Handlers) verifySignature(body []byte, signature string) bool {
	if h.webhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
