package course

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers course generation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Health)
	r.Put("/credentials", h.SetCredential)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.EndSession)
		r.Post("/{id}/outline", h.GenerateOutline)
		r.Post("/{id}/course", h.GenerateCourse)
		r.Post("/{id}/reset", h.ResetCourse)
		r.Get("/{id}/export/{target}", h.Export)
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.GetHistory)
		r.Delete("/", h.DeleteHistory)
	})
}
