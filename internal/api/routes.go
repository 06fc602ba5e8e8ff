package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hnminh/amlich-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health                              liveness + database check
//	GET /api/v1/today                        almanac for the current civil day
//	GET /api/v1/almanac/{date}               almanac for a solar date
//	GET /api/v1/solar/{year}/{month}/{day}   lunar-to-solar conversion
//	GET /api/v1/next/{kind}                  next Mùng 1 / Rằm search
//	GET /api/v1/calendar.ics                 iCalendar feed of special days
//	GET /api/v1/history                      published snapshots (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/today", handlers.GetToday)
		r.Get("/almanac/{date}", handlers.GetAlmanac)
		r.Get("/solar/{year}/{month}/{day}", handlers.GetSolarDate)
		r.Get("/next/{kind}", handlers.GetNextSpecialDay)
		r.Get("/calendar.ics", handlers.GetCalendarFeed)

		// ======================================================================
		// Authenticated routes (API key)
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Get("/history", handlers.GetHistory)
		})
	})

	return r
}
