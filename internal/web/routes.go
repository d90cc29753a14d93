package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	personsHandler := handlers.NewPersonsHandler(s.service, s.identities, s.log)
	attendanceHandler := handlers.NewAttendanceHandler(s.service, s.ledger, s.log)

	// Health check (no auth required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(s.config.Web.APIKey))

		// Persons
		r.Post("/persons", personsHandler.Create)
		r.Get("/persons", personsHandler.List)
		r.Get("/persons/{id}", personsHandler.Get)
		r.Get("/persons/{id}/attendance", attendanceHandler.History)

		// Attendance
		r.Post("/attendance", attendanceHandler.Mark)
	})
}
