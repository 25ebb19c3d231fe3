package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tutorlink/platform/internal/auth"
)

// SetupRoutes configures the router. The realtime SSE endpoint sits outside
// RequireAuth because the EventSource handshake authenticates with a signed
// token instead of the session cookie.
func SetupRoutes(h *Handlers, authManager *auth.Manager, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - allow credentials for auth cookies
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// No auth required
	r.Get("/health", h.HealthCheck)
	r.Get("/auth/login", authManager.HandleLogin)
	r.Get("/auth/callback", authManager.HandleCallback)
	r.Get("/auth/logout", authManager.HandleLogout)
	r.Get("/auth/user", authManager.HandleUserInfo)

	// Signature-authenticated, not session-authenticated
	r.Post("/api/webhooks/payment", h.PaymentWebhook)

	// Token-authenticated SSE stream
	r.Get("/api/realtime/events", h.RealtimeEvents)

	// Session-authenticated API
	r.Route("/api", func(r chi.Router) {
		r.Use(authManager.RequireAuth)

		r.Get("/availability", h.GetAvailability)
		r.Put("/availability", h.PutAvailability)
		r.Get("/tutors/{id}", h.GetTutor)

		r.Post("/bookings", h.CreateBooking)
		r.Get("/bookings", h.ListBookings)
		r.Patch("/bookings/{id}", h.PatchBooking)

		r.Get("/notifications", h.ListNotifications)
		r.Post("/notifications/{id}/read", h.MarkNotificationRead)
		r.Post("/messages", h.PostMessage)

		r.Get("/realtime/token", h.MintRealtimeToken)
	})

	return r
}
