/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/vehicles                     Vehicle registration and listing
  /api/vehicles/{vehicleID}/trips   Trip CRUD, lifecycle, import
  /api/vehicles/{vehicleID}/summary Derived charging values

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", h.ListVehicles)
			r.Post("/", h.RegisterVehicle)

			r.Route("/{vehicleID}", func(r chi.Router) {
				r.Get("/summary", h.GetSummary)

				r.Route("/trips", func(r chi.Router) {
					r.Get("/", h.ListTrips)
					r.Post("/recurring", h.AddRecurringTrip)
					r.Post("/punctual", h.AddPunctualTrip)
					r.Post("/import", h.ImportWeeklyPattern)

					r.Route("/{tripID}", func(r chi.Router) {
						r.Patch("/", h.EditTrip)
						r.Delete("/", h.DeleteTrip)
						r.Post("/pause", h.PauseTrip)
						r.Post("/resume", h.ResumeTrip)
						r.Post("/complete", h.CompleteTrip)
						r.Post("/cancel", h.CancelTrip)
					})
				})
			})
		})
	})

	return r
}
